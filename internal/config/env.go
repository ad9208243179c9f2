package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr         string
	GinMode         string
	UpstreamBaseURL string
	PageSize        int
	JWTSecret       string

	DBUser string
	DBPass string
	DBHost string
	DBName string
}

func LoadEnv() Env {
	env := Env{
		AppAddr:         getenv("APP_ADDR", ":8080"),
		GinMode:         getenv("GIN_MODE", ""),
		UpstreamBaseURL: getenv("UPSTREAM_BASE_URL", "http://localhost:8000/api"),
		PageSize:        getint("PAGE_SIZE", 10),
		JWTSecret:       getenv("JWT_SECRET", "super-secret-key-change-me"),
		DBUser:          getenv("DB_USER", "root"),
		DBPass:          getenv("DB_PASS", ""),
		DBHost:          getenv("DB_HOST", "127.0.0.1:3306"),
		DBName:          getenv("DB_NAME", "warehouse_app"),
	}
	return env
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getint(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
