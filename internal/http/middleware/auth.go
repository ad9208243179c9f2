package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"warehouse/internal/domain"
)

const sessionKey = "session"

// Auth validates a Bearer token and injects the Session for downstream
// controllers. Requests without a valid token are rejected.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		session := domain.Session{}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if id, ok := claims["user_id"].(float64); ok {
				session.UserID = int64(id)
			}
			if role, ok := claims["role"].(string); ok {
				session.Role = role
			}
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// GetSession returns the authenticated session, zero when absent.
func GetSession(c *gin.Context) domain.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(domain.Session); ok {
			return s
		}
	}
	return domain.Session{}
}
