package services

import (
	"context"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/export"
	"warehouse/internal/notify"
	"warehouse/internal/staged"
)

// OrdersList drives the orders list page: paged fetches, filters, aggregate
// counters, and the row-level optimistic mutations.
type OrdersList struct {
	Svc      dataservice.OrderService
	Notifier notify.Notifier
	Session  domain.Session

	*staged.ListController
}

func NewOrdersList(svc dataservice.OrderService, notifier notify.Notifier, session domain.Session, perPage int, initial domain.ListQuery) *OrdersList {
	l := &OrdersList{Svc: svc, Notifier: notifier, Session: session}
	l.ListController = staged.NewListController(svc.List, svc.Stats, perPage, initial)
	return l
}

// UpdateStatus flips one row's status locally, commits upstream, and reverts
// on failure. The table-level transition gate applies here too.
func (l *OrdersList) UpdateStatus(ctx context.Context, orderID string, to domain.Status) domain.ActionResult {
	match := matchID("order_id", orderID)
	var from domain.Status
	for _, rec := range l.Items() {
		if match(rec) {
			from = domain.Status(rec.String("order_status"))
			break
		}
	}
	if !domain.OrderTransitions.CanTransition(from, to) {
		return domain.Fail("status change " + string(from) + " -> " + string(to) + " is not allowed")
	}

	res := l.MutateRow(ctx, match, domain.Record{"order_status": string(to)}, func(ctx context.Context) error {
		return l.Svc.UpdateStatus(ctx, orderID, to)
	})
	l.notifyResult(res, "Order "+string(to), "Status change failed")
	return res
}

// Delete removes one row optimistically.
func (l *OrdersList) Delete(ctx context.Context, orderID string) domain.ActionResult {
	res := l.RemoveRow(ctx, matchID("order_id", orderID), func(ctx context.Context) error {
		return l.Svc.Delete(ctx, orderID)
	})
	l.notifyResult(res, "Order deleted", "Order delete failed")
	return res
}

// ExportCSV builds a CSV of the currently visible rows. Empty lists fail
// without producing a file.
func (l *OrdersList) ExportCSV() ([]byte, domain.ActionResult) {
	rows := l.Visible()
	columns := []string{"order_id", "order_status", "priority", "customer_name", "created_at"}
	return export.CSV(rows, columns)
}

func (l *OrdersList) notifyResult(res domain.ActionResult, okMsg, failMsg string) {
	if res.Success {
		l.Notifier.Notify(notify.Notification{Type: notify.Success, Message: okMsg})
		return
	}
	l.Notifier.Notify(notify.Notification{Type: notify.Error, Message: failMsg, Description: res.Error})
}

// matchID compares the row's id field as a string so numeric and string ids
// from different upstreams both match.
func matchID(key, want string) func(domain.Record) bool {
	return func(rec domain.Record) bool {
		return recordID(rec, key) == want
	}
}
