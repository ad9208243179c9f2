package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse/internal/domain"
	"warehouse/internal/export"
	"warehouse/internal/services"
)

func (h *Handler) ExportOrdersCSV(c *gin.Context) {
	l := services.NewOrdersList(h.Orders, h.notifier(c), h.session(c), h.pageSize(c), listQuery(c))
	defer l.Close()

	l.LoadPage(c.Request.Context(), queryInt(c, "page", 1))
	data, res := l.ExportCSV()
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	sendDownload(c, "text/csv", "orders.csv", data)
}

func (h *Handler) ExportInventoryCSV(c *gin.Context) {
	l := services.NewInventoryList(h.Inventory, h.notifier(c), h.session(c), h.pageSize(c), listQuery(c))
	defer l.Close()

	l.LoadPage(c.Request.Context(), queryInt(c, "page", 1))
	data, res := l.ExportCSV()
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	sendDownload(c, "text/csv", "inventory.csv", data)
}

func (h *Handler) OrderInvoicePDF(c *gin.Context) {
	d := services.NewOrderData(h.Orders, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	d.Load(c.Request.Context())
	snap := d.Snapshot()
	if msg := snap.Errors["basicInfo"]; msg != "" {
		RespondError(c, http.StatusBadGateway, "Could not load order", fmt.Errorf("%s", msg))
		return
	}
	pdf, filename, err := export.OrderInvoicePDF(d.BasicInfo(), recordsFrom(snap.Data["items"]))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "Invoice generation failed", err)
		return
	}
	sendDownload(c, "application/pdf", filename, pdf)
}

func (h *Handler) PackingSlipPDF(c *gin.Context) {
	d := services.NewPackingData(h.Packing, h.notifier(c), h.session(c), c.Param("id"))
	defer d.Close()

	d.Load(c.Request.Context())
	snap := d.Snapshot()
	if msg := snap.Errors["basicInfo"]; msg != "" {
		RespondError(c, http.StatusBadGateway, "Could not load packing task", fmt.Errorf("%s", msg))
		return
	}
	pdf, filename, err := export.PackingSlipPDF(d.BasicInfo(), recordsFrom(snap.Data["items"]))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "Packing slip generation failed", err)
		return
	}
	sendDownload(c, "application/pdf", filename, pdf)
}

func (h *Handler) ExportConversationJSON(c *gin.Context) {
	d := services.NewChatbotData(h.Chatbot, h.notifier(c), h.session(c))
	defer d.Close()

	d.SelectConversation(c.Request.Context(), c.Param("id"))
	data, res := d.ExportConversation()
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	sendDownload(c, "application/json", "conversation-"+c.Param("id")+".json", data)
}

func sendDownload(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// recordsFrom recovers a record slice from a loader slot, which may hold the
// typed slice or a decoded []any.
func recordsFrom(v any) []domain.Record {
	switch t := v.(type) {
	case []domain.Record:
		return t
	case []map[string]any:
		out := make([]domain.Record, 0, len(t))
		for _, m := range t {
			out = append(out, domain.Record(m))
		}
		return out
	case []any:
		out := make([]domain.Record, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, domain.Record(m))
			}
		}
		return out
	default:
		return nil
	}
}
