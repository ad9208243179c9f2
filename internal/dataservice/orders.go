package dataservice

import (
	"context"

	"warehouse/internal/domain"
)

// OrderService is the boundary the order page controllers load from.
type OrderService interface {
	Get(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	Create(ctx context.Context, payload domain.Record) (domain.Record, error)
	Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Items(ctx context.Context, id string) ([]domain.Record, error)
	CustomerDetails(ctx context.Context, id string) (domain.Record, error)
	History(ctx context.Context, id string) ([]domain.Record, error)
	Stats(ctx context.Context) (domain.Record, error)
}

type orderREST struct {
	c *Client
}

func NewOrderService(c *Client) OrderService { return orderREST{c: c} }

// foldOrderStatus completes canonicalization for order records: upstreams
// disagree on "status" vs "order_status", and controllers read only the
// latter.
func foldOrderStatus(rec domain.Record) domain.Record {
	if rec == nil {
		return nil
	}
	if _, ok := rec["order_status"]; !ok {
		if v, ok := rec["status"]; ok {
			rec["order_status"] = v
		}
	}
	return rec
}

func (s orderREST) Get(ctx context.Context, id string) (domain.Record, error) {
	rec, err := s.c.Get(ctx, "/orders/"+id)
	return foldOrderStatus(rec), err
}

func (s orderREST) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	res, err := s.c.List(ctx, "/orders", q)
	for i := range res.Items {
		res.Items[i] = foldOrderStatus(res.Items[i])
	}
	return res, err
}

func (s orderREST) Create(ctx context.Context, payload domain.Record) (domain.Record, error) {
	return s.c.Create(ctx, "/orders", payload)
}

func (s orderREST) Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error) {
	rec, err := s.c.Update(ctx, "/orders/"+id, payload)
	return foldOrderStatus(rec), err
}

func (s orderREST) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, "/orders/"+id)
}

func (s orderREST) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	_, err := s.c.Update(ctx, "/orders/"+id+"/status", domain.Record{"status": string(status)})
	return err
}

func (s orderREST) Items(ctx context.Context, id string) ([]domain.Record, error) {
	res, err := s.c.List(ctx, "/orders/"+id+"/items", domain.ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s orderREST) CustomerDetails(ctx context.Context, id string) (domain.Record, error) {
	return s.c.Get(ctx, "/orders/"+id+"/customer")
}

func (s orderREST) History(ctx context.Context, id string) ([]domain.Record, error) {
	res, err := s.c.List(ctx, "/orders/"+id+"/history", domain.ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s orderREST) Stats(ctx context.Context) (domain.Record, error) {
	return s.c.Get(ctx, "/orders/stats")
}
