package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"warehouse/internal/domain"
	"warehouse/internal/services"
	"warehouse/internal/view"
)

// OrderPage composes the order detail page. ?include=history triggers the
// on-demand phase before composition.
func (h *Handler) OrderPage(c *gin.Context) {
	d := services.NewOrderData(h.Orders, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.Load(ctx)
	if includes(c, "history") {
		d.LoadHistory(ctx)
	}

	c.JSON(http.StatusOK, d.Page())
}

func (h *Handler) PackingPage(c *gin.Context) {
	d := services.NewPackingData(h.Packing, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.Load(ctx)
	if includes(c, "history") {
		d.LoadHistory(ctx)
	}

	c.JSON(http.StatusOK, d.Page())
}

func (h *Handler) WorkerPage(c *gin.Context) {
	d := services.NewWorkerData(h.Workers, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	d.Load(c.Request.Context())
	c.JSON(http.StatusOK, d.Page())
}

// OrdersListPage composes the orders list with pagination, filters and stats.
func (h *Handler) OrdersListPage(c *gin.Context) {
	l := services.NewOrdersList(h.Orders, h.notifier(c), h.session(c), h.pageSize(c), listQuery(c))
	defer l.Close()

	l.LoadPage(c.Request.Context(), queryInt(c, "page", 1))

	loading, errMsg := l.State()
	stats, statsLoading, statsErr := l.Stats()
	c.JSON(http.StatusOK, view.ComposeList(
		l.Visible(), l.Pagination(), l.Filters(), loading, errMsg, "/",
		stats, statsLoading, statsErr,
	))
}

func (h *Handler) InventoryListPage(c *gin.Context) {
	l := services.NewInventoryList(h.Inventory, h.notifier(c), h.session(c), h.pageSize(c), listQuery(c))
	defer l.Close()

	l.LoadPage(c.Request.Context(), queryInt(c, "page", 1))

	loading, errMsg := l.State()
	stats, statsLoading, statsErr := l.Stats()
	page := view.ComposeList(
		l.Visible(), l.Pagination(), l.Filters(), loading, errMsg, "/",
		stats, statsLoading, statsErr,
	)
	if page.CriticalError != nil {
		c.JSON(http.StatusOK, page)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":     page,
		"lowStock": l.LowStock(),
	})
}

// Conversations lists chatbot conversations.
func (h *Handler) Conversations(c *gin.Context) {
	d := services.NewChatbotData(h.Chatbot, h.notifier(c), h.session(c))
	defer d.Close()

	d.Load(c.Request.Context())
	snap := d.Snapshot()
	if msg := snap.Errors["conversations"]; msg != "" {
		c.JSON(http.StatusOK, gin.H{"criticalError": gin.H{"message": msg, "backRoute": "/"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": d.Conversations()})
}

// ConversationMessages loads one conversation's thread.
func (h *Handler) ConversationMessages(c *gin.Context) {
	d := services.NewChatbotData(h.Chatbot, h.notifier(c), h.session(c))
	defer d.Close()

	d.SelectConversation(c.Request.Context(), c.Param("id"))
	snap := d.Snapshot()
	if msg := snap.Errors["messages"]; msg != "" {
		RespondError(c, http.StatusBadGateway, msg, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversationId": c.Param("id"),
		"messages":       d.Messages(),
	})
}

func (h *Handler) pageSize(c *gin.Context) int {
	if n := queryInt(c, "limit", 0); n > 0 {
		return n
	}
	return h.Env.PageSize
}

func includes(c *gin.Context, section string) bool {
	for _, part := range strings.Split(c.Query("include"), ",") {
		if strings.TrimSpace(part) == section {
			return true
		}
	}
	return false
}

func listQuery(c *gin.Context) domain.ListQuery {
	return domain.ListQuery{
		Search:    strings.TrimSpace(c.Query("search")),
		Status:    strings.TrimSpace(c.Query("status")),
		Priority:  strings.TrimSpace(c.Query("priority")),
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
