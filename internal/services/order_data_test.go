package services

import (
	"context"
	"errors"
	"testing"

	"warehouse/internal/dataservice"
	"warehouse/internal/domain"
	"warehouse/internal/notify"
)

// fakeOrderService is an in-memory OrderService with togglable failures.
type fakeOrderService struct {
	order   domain.Record
	items   []domain.Record
	history []domain.Record

	getErr     error
	updateErr  error
	statusErr  error
	deleteErr  error
	historyErr error

	updateStatusCalls int
	deleted           bool
}

var _ dataservice.OrderService = (*fakeOrderService)(nil)

func (f *fakeOrderService) Get(ctx context.Context, id string) (domain.Record, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.order.Clone(), nil
}

func (f *fakeOrderService) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	return domain.ListResult{Items: []domain.Record{f.order.Clone()}, Total: 1}, nil
}

func (f *fakeOrderService) Create(ctx context.Context, payload domain.Record) (domain.Record, error) {
	return payload, nil
}

func (f *fakeOrderService) Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.order = f.order.Merge(payload)
	return f.order.Clone(), nil
}

func (f *fakeOrderService) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = true
	return nil
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	f.updateStatusCalls++
	if f.statusErr != nil {
		return f.statusErr
	}
	f.order = f.order.Merge(domain.Record{"order_status": string(status)})
	return nil
}

func (f *fakeOrderService) Items(ctx context.Context, id string) ([]domain.Record, error) {
	return f.items, nil
}

func (f *fakeOrderService) CustomerDetails(ctx context.Context, id string) (domain.Record, error) {
	return domain.Record{"customer_name": "Acme Works"}, nil
}

func (f *fakeOrderService) History(ctx context.Context, id string) ([]domain.Record, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeOrderService) Stats(ctx context.Context) (domain.Record, error) {
	return domain.Record{"pending": 1}, nil
}

func pendingOrder() domain.Record {
	return domain.Record{
		"order_id":      "42",
		"order_status":  "pending",
		"priority":      "high",
		"customer_name": "Acme Works",
	}
}

func TestOrderActionsFollowStatus(t *testing.T) {
	svc := &fakeOrderService{order: pendingOrder(), items: []domain.Record{{"sku": "A-1", "quantity": 2}}}
	d := NewOrderData(svc, notify.Discard{}, domain.Session{UserID: 1, Role: "admin"}, "42")
	defer d.Close()

	d.Load(context.Background())

	if got := d.Status(); got != domain.OrderPending {
		t.Fatalf("status = %q, want pending", got)
	}

	actions := d.AvailableActions()
	want := map[string]bool{"confirm": true, "cancel": true, "edit": true}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v", actions)
	}
	for _, a := range actions {
		if !want[a] {
			t.Fatalf("unexpected action %q for pending order", a)
		}
	}

	snap := d.Snapshot()
	acts, ok := snap.Data["actions"].([]string)
	if !ok {
		t.Fatalf("actions section holds %T", snap.Data["actions"])
	}
	if len(acts) != 3 {
		t.Fatalf("actions section = %v", acts)
	}
}

func TestOrderUpdateStatusGatedByTable(t *testing.T) {
	svc := &fakeOrderService{order: pendingOrder()}
	d := NewOrderData(svc, notify.Discard{}, domain.Session{}, "42")
	defer d.Close()
	d.Load(context.Background())

	res := d.UpdateStatus(context.Background(), domain.OrderShipped)
	if res.Success {
		t.Fatalf("pending -> shipped was allowed")
	}
	if svc.updateStatusCalls != 0 {
		t.Fatalf("rejected transition still hit the service")
	}
	if d.Status() != domain.OrderPending {
		t.Fatalf("status changed to %q on rejected transition", d.Status())
	}

	res = d.UpdateStatus(context.Background(), domain.OrderConfirmed)
	if !res.Success {
		t.Fatalf("pending -> confirmed rejected: %s", res.Error)
	}
	if d.Status() != domain.OrderConfirmed {
		t.Fatalf("status = %q after confirm", d.Status())
	}

	actions := d.AvailableActions()
	for _, a := range actions {
		if a == "confirm" {
			t.Fatalf("confirm still offered after transition: %v", actions)
		}
	}
}

func TestOrderUpdateStatusRollsBackOnFailure(t *testing.T) {
	svc := &fakeOrderService{order: pendingOrder(), statusErr: errors.New("409 conflict")}
	rec := &notify.Recorder{}
	d := NewOrderData(svc, rec, domain.Session{}, "42")
	defer d.Close()
	d.Load(context.Background())

	res := d.UpdateStatus(context.Background(), domain.OrderConfirmed)
	if res.Success {
		t.Fatalf("status change reported success despite service failure")
	}
	if d.Status() != domain.OrderPending {
		t.Fatalf("status = %q after rollback, want pending", d.Status())
	}

	snap := d.Snapshot()
	acts, _ := snap.Data["actions"].([]string)
	if len(acts) != 3 {
		t.Fatalf("derived actions not restored: %v", acts)
	}

	var sawError bool
	for _, n := range rec.All() {
		if n.Type == notify.Error {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("no error notification emitted")
	}
}

func TestOrderUpdateRollsBackPatch(t *testing.T) {
	svc := &fakeOrderService{order: pendingOrder(), updateErr: domain.ValidationError{Field: "priority", Msg: "unknown priority"}}
	d := NewOrderData(svc, notify.Discard{}, domain.Session{}, "42")
	defer d.Close()
	d.Load(context.Background())

	res := d.UpdateOrder(context.Background(), domain.Record{"priority": "ultra"})
	if res.Success {
		t.Fatalf("update reported success despite validation failure")
	}
	if res.ValidationErrors["priority"] != "unknown priority" {
		t.Fatalf("validation errors = %v", res.ValidationErrors)
	}
	if got := d.BasicInfo().String("priority"); got != "high" {
		t.Fatalf("priority = %q after rollback, want high", got)
	}
}

func TestOrderHistoryLoadsOnDemand(t *testing.T) {
	svc := &fakeOrderService{
		order:   pendingOrder(),
		history: []domain.Record{{"event": "created", "at": "2026-01-02"}},
	}
	d := NewOrderData(svc, notify.Discard{}, domain.Session{}, "42")
	defer d.Close()
	d.Load(context.Background())

	if d.Snapshot().Data["history"] != nil {
		t.Fatalf("history loaded before explicit trigger")
	}

	d.LoadHistory(context.Background())

	entries, ok := d.Snapshot().Data["history"].([]domain.Record)
	if !ok || len(entries) != 1 {
		t.Fatalf("history = %v", d.Snapshot().Data["history"])
	}
}

func TestOrderLoadWithoutIDIsNoOp(t *testing.T) {
	svc := &fakeOrderService{order: pendingOrder()}
	d := NewOrderData(svc, notify.Discard{}, domain.Session{}, "")
	defer d.Close()

	d.Load(context.Background())

	if d.BasicInfo() != nil {
		t.Fatalf("fetch ran without an id")
	}
	if res := d.UpdateStatus(context.Background(), domain.OrderConfirmed); res.Success {
		t.Fatalf("action succeeded without an id")
	}
}

func TestOrderDeleteNotifies(t *testing.T) {
	svc := &fakeOrderService{order: pendingOrder()}
	rec := &notify.Recorder{}
	d := NewOrderData(svc, rec, domain.Session{}, "42")
	defer d.Close()
	d.Load(context.Background())

	res := d.DeleteOrder(context.Background())
	if !res.Success {
		t.Fatalf("delete failed: %s", res.Error)
	}
	if !svc.deleted {
		t.Fatalf("service delete not called")
	}
	all := rec.All()
	if len(all) == 0 || all[len(all)-1].Type != notify.Success {
		t.Fatalf("notifications = %v", all)
	}
}
