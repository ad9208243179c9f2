// Package services holds the per-entity page controllers: each owns one
// staged loader (or list controller), the mutation actions with their
// optimistic updates, and the derived action availability.
package services

import (
	"context"
	"errors"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/notify"
	"warehouse/internal/staged"
	"warehouse/internal/utils"
	"warehouse/internal/view"
)

const (
	secBasicInfo       = "basicInfo"
	secItems           = "items"
	secCustomerDetails = "customerDetails"
	secWorkerDetails   = "workerDetails"
	secActions         = "actions"
	secHistory         = "history"
	secAssignments     = "assignments"
	secPerformance     = "performance"
)

// OrderData drives one order detail page. An empty id means "do not fetch".
type OrderData struct {
	ID        string
	Svc       dataservice.OrderService
	Notifier  notify.Notifier
	Session   domain.Session
	RequestID string

	loader *staged.Loader
}

func NewOrderData(svc dataservice.OrderService, notifier notify.Notifier, session domain.Session, id string) *OrderData {
	d := &OrderData{ID: id, Svc: svc, Notifier: notifier, Session: session}

	d.loader = staged.NewLoader(
		staged.Section{Name: secBasicInfo, Phase: staged.PhaseBasic, Critical: true, Fetch: func(ctx context.Context) (any, error) {
			rec, err := svc.Get(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			// Partial responses merge into what we already hold.
			return d.BasicInfo().Merge(rec), nil
		}},
		staged.Section{Name: secItems, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			items, err := svc.Items(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return items, nil
		}},
		staged.Section{Name: secCustomerDetails, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			rec, err := svc.CustomerDetails(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return rec, nil
		}},
		staged.Section{Name: secActions, Phase: staged.PhaseDetail, Fetch: func(ctx context.Context) (any, error) {
			// Derived from the basic record, no network. Registered as a
			// section so it carries its own loading/error slot and refreshes
			// with the detail phase.
			return d.AvailableActions(), nil
		}},
		staged.Section{Name: secHistory, Phase: staged.PhaseOnDemand, Fetch: func(ctx context.Context) (any, error) {
			entries, err := svc.History(ctx, d.ID)
			if err != nil {
				return nil, err
			}
			return entries, nil
		}},
	)
	return d
}

// Load runs the basic phase and the detail fan-out. No-op without an id.
func (d *OrderData) Load(ctx context.Context) {
	if d.ID == "" {
		return
	}
	d.loader.Load(ctx)
}

func (d *OrderData) RefreshBasicInfo(ctx context.Context) { d.loader.RefreshBasic(ctx) }

func (d *OrderData) RefreshAll(ctx context.Context) {
	if d.ID == "" {
		return
	}
	d.loader.RefreshAll(ctx)
}

// LoadHistory is the explicit phase-3 trigger for the history timeline.
func (d *OrderData) LoadHistory(ctx context.Context) {
	d.loader.LoadSection(ctx, secHistory)
}

// Close stops state writes from any fetch still in flight.
func (d *OrderData) Close() { d.loader.Close() }

func (d *OrderData) Snapshot() staged.Snapshot { return d.loader.Snapshot() }

// BasicInfo returns the current basic record, nil before the first success.
func (d *OrderData) BasicInfo() domain.Record {
	if rec, ok := d.loader.Data(secBasicInfo).(domain.Record); ok {
		return rec
	}
	return nil
}

// Status reads the order's current status off the basic record.
func (d *OrderData) Status() domain.Status {
	return domain.Status(d.BasicInfo().String("order_status"))
}

// AvailableActions derives the permitted action ids from the current status.
// Recomputed on every call so it can never serve a stale record's actions.
func (d *OrderData) AvailableActions() []string {
	return domain.OrderTransitions.ActionsFor(d.Status())
}

// refreshDerivedActions rewrites the actions section after the basic record
// changed outside a full detail fan-out.
func (d *OrderData) refreshDerivedActions() {
	d.loader.Set(secActions, d.AvailableActions())
}

// UpdateOrder sends a partial update. The patch is applied locally first and
// rolled back when the call fails; on success the server's full record is
// merged in.
func (d *OrderData) UpdateOrder(ctx context.Context, patch domain.Record) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no order loaded")
	}
	prev := d.loader.Update(secBasicInfo, func(old any) any {
		rec, _ := old.(domain.Record)
		return rec.Merge(patch)
	})
	d.refreshDerivedActions()

	rec, err := d.Svc.Update(ctx, d.ID, patch)
	if err != nil {
		d.loader.Set(secBasicInfo, prev)
		d.refreshDerivedActions()
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Order update failed", Description: err.Error()})
		return actionFailure(err)
	}

	d.loader.Update(secBasicInfo, func(old any) any {
		cur, _ := old.(domain.Record)
		return cur.Merge(rec)
	})
	d.refreshDerivedActions()
	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Order updated"})
	return domain.OK(rec)
}

// UpdateStatus transitions the order, gated by the declarative table.
func (d *OrderData) UpdateStatus(ctx context.Context, to domain.Status) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no order loaded")
	}
	from := d.Status()
	if !domain.OrderTransitions.CanTransition(from, to) {
		return domain.Fail("status change " + string(from) + " -> " + string(to) + " is not allowed")
	}

	prev := d.loader.Update(secBasicInfo, func(old any) any {
		rec, _ := old.(domain.Record)
		return rec.Merge(domain.Record{"order_status": string(to)})
	})
	d.refreshDerivedActions()

	if err := d.Svc.UpdateStatus(ctx, d.ID, to); err != nil {
		d.loader.Set(secBasicInfo, prev)
		d.refreshDerivedActions()
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Status change failed", Description: err.Error()})
		return actionFailure(err)
	}

	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Order " + string(to)})
	return domain.OK(nil)
}

// DeleteOrder removes the order. No optimistic change: the page navigates
// away on success, so there is nothing local to patch.
func (d *OrderData) DeleteOrder(ctx context.Context) domain.ActionResult {
	if d.ID == "" {
		return domain.Fail("no order loaded")
	}
	if err := d.Svc.Delete(ctx, d.ID); err != nil {
		d.Notifier.Notify(notify.Notification{Type: notify.Error, Message: "Order delete failed", Description: err.Error()})
		return actionFailure(err)
	}
	utils.LogEvent(d.RequestID, "orders", "delete", "order_id="+d.ID)
	d.Notifier.Notify(notify.Notification{Type: notify.Success, Message: "Order deleted"})
	return domain.OK(nil)
}

// Page composes the detail page document for this order.
func (d *OrderData) Page() view.PageView {
	return view.Compose(d.Snapshot(), view.Components{}, view.Options{
		BackRoute: "/orders",
		SectionData: map[view.SectionKey]string{
			view.KeyDetails: secCustomerDetails,
		},
	})
}

// actionFailure converts a service error into the uniform result shape,
// routing validation failures into the per-field variant.
func actionFailure(err error) domain.ActionResult {
	var v domain.ValidationError
	if errors.As(err, &v) {
		res := domain.Fail(err.Error())
		if v.Field != "" {
			res.ValidationErrors = map[string]string{v.Field: v.Msg}
		}
		return res
	}
	return domain.FailErr(err)
}
