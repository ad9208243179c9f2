package services

import (
	"context"
	"fmt"
	"strconv"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/export"
	"warehouse/internal/notify"
	"warehouse/internal/staged"
)

// InventoryList drives the inventory list page. The backing service may be
// the REST one or the direct-MySQL one; the controller can't tell.
type InventoryList struct {
	Svc      dataservice.InventoryService
	Notifier notify.Notifier
	Session  domain.Session

	*staged.ListController
}

func NewInventoryList(svc dataservice.InventoryService, notifier notify.Notifier, session domain.Session, perPage int, initial domain.ListQuery) *InventoryList {
	l := &InventoryList{Svc: svc, Notifier: notifier, Session: session}
	l.ListController = staged.NewListController(svc.List, svc.Stats, perPage, initial)
	return l
}

// LowStock is a pure derived view of rows at or under their reorder point.
func (l *InventoryList) LowStock() []domain.Record {
	out := []domain.Record{}
	for _, rec := range l.Items() {
		stock, okS := numeric(rec["stock_level"])
		reorder, okR := numeric(rec["reorder_point"])
		if okS && okR && stock <= reorder {
			out = append(out, rec)
		}
	}
	return out
}

// AdjustStock patches one item's stock level optimistically.
func (l *InventoryList) AdjustStock(ctx context.Context, itemID string, newLevel int) domain.ActionResult {
	if newLevel < 0 {
		return domain.ActionResult{
			Success:          false,
			Error:            "stock level cannot be negative",
			ValidationErrors: map[string]string{"stock_level": "must be zero or more"},
		}
	}
	res := l.MutateRow(ctx, matchID("id", itemID), domain.Record{"stock_level": newLevel}, func(ctx context.Context) error {
		_, err := l.Svc.Update(ctx, itemID, domain.Record{"stock_level": newLevel})
		return err
	})
	l.notifyResult(res, "Stock level updated", "Stock update failed")
	return res
}

// Delete removes one item optimistically.
func (l *InventoryList) Delete(ctx context.Context, itemID string) domain.ActionResult {
	res := l.RemoveRow(ctx, matchID("id", itemID), func(ctx context.Context) error {
		return l.Svc.Delete(ctx, itemID)
	})
	l.notifyResult(res, "Item deleted", "Item delete failed")
	return res
}

// ExportCSV builds a CSV of the currently visible rows.
func (l *InventoryList) ExportCSV() ([]byte, domain.ActionResult) {
	rows := l.Visible()
	columns := []string{"id", "sku", "name", "stock_level", "reorder_point", "location", "status"}
	return export.CSV(rows, columns)
}

func (l *InventoryList) notifyResult(res domain.ActionResult, okMsg, failMsg string) {
	if res.Success {
		l.Notifier.Notify(notify.Notification{Type: notify.Success, Message: okMsg})
		return
	}
	l.Notifier.Notify(notify.Notification{Type: notify.Error, Message: failMsg, Description: res.Error})
}

// recordID renders an id field as a string regardless of the upstream's
// numeric/string choice.
func recordID(rec domain.Record, key string) string {
	switch v := rec[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
