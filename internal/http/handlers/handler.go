package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"warehouse/internal/config"
	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/http/middleware"
	"warehouse/internal/notify"
)

// Handler carries the wired collaborators. Page controllers are created per
// request: each HTTP request is one page mount with its own loader state.
type Handler struct {
	Env       config.Env
	DB        *sql.DB
	Orders    dataservice.OrderService
	Packing   dataservice.PackingService
	Workers   dataservice.WorkerService
	Inventory dataservice.InventoryService
	Chatbot   dataservice.ChatbotService
}

// notifier builds the per-request notification sink.
func (h *Handler) notifier(c *gin.Context) notify.Notifier {
	return notify.LogNotifier{RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) session(c *gin.Context) domain.Session {
	return middleware.GetSession(c)
}
