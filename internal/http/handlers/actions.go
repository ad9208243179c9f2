package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse/internal/domain"
	"warehouse/internal/services"
)

type statusRequest struct {
	Status string `json:"status"`
}

// Mutation endpoints answer with the uniform ActionResult shape; the HTTP
// status stays 200 so clients branch on success, matching the hook contract.

func (h *Handler) UpdateOrder(c *gin.Context) {
	var patch domain.Record
	if !BindJSONOrError(c, &patch) {
		return
	}
	d := services.NewOrderData(h.Orders, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.RefreshBasicInfo(ctx)
	c.JSON(http.StatusOK, d.UpdateOrder(ctx, patch))
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d := services.NewOrderData(h.Orders, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.RefreshBasicInfo(ctx)
	c.JSON(http.StatusOK, d.UpdateStatus(ctx, domain.Status(req.Status)))
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	d := services.NewOrderData(h.Orders, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	c.JSON(http.StatusOK, d.DeleteOrder(c.Request.Context()))
}

func (h *Handler) UpdatePackingStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d := services.NewPackingData(h.Packing, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.RefreshBasicInfo(ctx)
	c.JSON(http.StatusOK, d.UpdateStatus(ctx, domain.Status(req.Status)))
}

type assignRequest struct {
	WorkerID string `json:"worker_id"`
}

func (h *Handler) AssignPackingWorker(c *gin.Context) {
	var req assignRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d := services.NewPackingData(h.Packing, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	c.JSON(http.StatusOK, d.AssignWorker(c.Request.Context(), req.WorkerID))
}

func (h *Handler) UpdatePackingTask(c *gin.Context) {
	var patch domain.Record
	if !BindJSONOrError(c, &patch) {
		return
	}
	d := services.NewPackingData(h.Packing, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.RefreshBasicInfo(ctx)
	c.JSON(http.StatusOK, d.UpdateTask(ctx, patch))
}

func (h *Handler) UpdateWorker(c *gin.Context) {
	var patch domain.Record
	if !BindJSONOrError(c, &patch) {
		return
	}
	d := services.NewWorkerData(h.Workers, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.RefreshBasicInfo(ctx)
	c.JSON(http.StatusOK, d.UpdateWorker(ctx, patch))
}

func (h *Handler) UpdateWorkerStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d := services.NewWorkerData(h.Workers, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	ctx := c.Request.Context()
	d.RefreshBasicInfo(ctx)
	c.JSON(http.StatusOK, d.UpdateStatus(ctx, domain.Status(req.Status)))
}

type adjustStockRequest struct {
	StockLevel int `json:"stock_level"`
}

// Inventory mutations go through the list controller, so callers pass the
// same query params as the list page to make sure the target row is loaded.
func (h *Handler) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	l := services.NewInventoryList(h.Inventory, h.notifier(c), h.session(c), h.pageSize(c), listQuery(c))
	defer l.Close()

	ctx := c.Request.Context()
	l.LoadPage(ctx, queryInt(c, "page", 1))
	c.JSON(http.StatusOK, l.AdjustStock(ctx, c.Param("id"), req.StockLevel))
}

func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	l := services.NewInventoryList(h.Inventory, h.notifier(c), h.session(c), h.pageSize(c), listQuery(c))
	defer l.Close()

	ctx := c.Request.Context()
	l.LoadPage(ctx, queryInt(c, "page", 1))
	c.JSON(http.StatusOK, l.Delete(ctx, c.Param("id")))
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d := services.NewChatbotData(h.Chatbot, h.notifier(c), h.session(c))
	defer d.Close()

	ctx := c.Request.Context()
	d.SelectConversation(ctx, c.Param("id"))
	res := d.SendMessage(ctx, req.Text)
	c.JSON(http.StatusOK, gin.H{
		"result":   res,
		"messages": d.Messages(),
	})
}

type createConversationRequest struct {
	Title     string `json:"title"`
	AgentRole string `json:"agent_role"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d := services.NewChatbotData(h.Chatbot, h.notifier(c), h.session(c))
	defer d.Close()

	c.JSON(http.StatusOK, d.CreateConversation(c.Request.Context(), req.Title, req.AgentRole))
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	d := services.NewChatbotData(h.Chatbot, h.notifier(c), h.session(c))
	defer d.Close()

	c.JSON(http.StatusOK, d.DeleteConversation(c.Request.Context(), c.Param("id")))
}
