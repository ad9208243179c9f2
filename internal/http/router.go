package api

import (
	"log"
	stdhttp "net/http"

	"warehouse/internal/config"
	"warehouse/internal/http/handlers"
	"warehouse/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/db-check", handlers.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		protected := api.Group("")
		protected.Use(middleware.Auth([]byte(env.JWTSecret)))

		orders := protected.Group("/orders")
		orders.GET("", h.OrdersListPage)
		orders.GET("/export.csv", h.ExportOrdersCSV)
		orders.GET("/:id", h.OrderPage)
		orders.GET("/:id/invoice", h.OrderInvoicePDF)
		orders.PUT("/:id", h.UpdateOrder)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
		orders.DELETE("/:id", h.DeleteOrder)

		packing := protected.Group("/packing")
		packing.GET("/:id", h.PackingPage)
		packing.GET("/:id/slip", h.PackingSlipPDF)
		packing.PUT("/:id", h.UpdatePackingTask)
		packing.PUT("/:id/status", h.UpdatePackingStatus)
		packing.PUT("/:id/assign", h.AssignPackingWorker)

		workers := protected.Group("/workers")
		workers.GET("/:id", h.WorkerPage)
		workers.PUT("/:id", h.UpdateWorker)
		workers.PUT("/:id/status", h.UpdateWorkerStatus)

		inventory := protected.Group("/inventory")
		inventory.GET("", h.InventoryListPage)
		inventory.GET("/export.csv", h.ExportInventoryCSV)
		inventory.PUT("/:id/stock", h.AdjustStock)
		inventory.DELETE("/:id", h.DeleteInventoryItem)

		chatbot := protected.Group("/chatbot")
		chatbot.GET("/conversations", h.Conversations)
		chatbot.POST("/conversations", h.CreateConversation)
		chatbot.GET("/conversations/:id/messages", h.ConversationMessages)
		chatbot.GET("/conversations/:id/export.json", h.ExportConversationJSON)
		chatbot.POST("/conversations/:id/messages", h.SendMessage)
		chatbot.DELETE("/conversations/:id", h.DeleteConversation)
	}

	return r
}
