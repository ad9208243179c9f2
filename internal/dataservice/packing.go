package dataservice

import (
	"context"

	"warehouse/internal/domain"
)

// PackingService loads packing tasks and their dependent sections.
type PackingService interface {
	Get(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Items(ctx context.Context, id string) ([]domain.Record, error)
	WorkerDetails(ctx context.Context, id string) (domain.Record, error)
	History(ctx context.Context, id string) ([]domain.Record, error)
	AssignWorker(ctx context.Context, id, workerID string) (domain.Record, error)
}

type packingREST struct {
	c *Client
}

func NewPackingService(c *Client) PackingService { return packingREST{c: c} }

func (s packingREST) Get(ctx context.Context, id string) (domain.Record, error) {
	return s.c.Get(ctx, "/packing/"+id)
}

func (s packingREST) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	return s.c.List(ctx, "/packing", q)
}

func (s packingREST) Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error) {
	return s.c.Update(ctx, "/packing/"+id, payload)
}

func (s packingREST) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, "/packing/"+id)
}

func (s packingREST) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	_, err := s.c.Update(ctx, "/packing/"+id+"/status", domain.Record{"status": string(status)})
	return err
}

func (s packingREST) Items(ctx context.Context, id string) ([]domain.Record, error) {
	res, err := s.c.List(ctx, "/packing/"+id+"/items", domain.ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s packingREST) WorkerDetails(ctx context.Context, id string) (domain.Record, error) {
	return s.c.Get(ctx, "/packing/"+id+"/worker")
}

func (s packingREST) History(ctx context.Context, id string) ([]domain.Record, error) {
	res, err := s.c.List(ctx, "/packing/"+id+"/history", domain.ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s packingREST) AssignWorker(ctx context.Context, id, workerID string) (domain.Record, error) {
	return s.c.Update(ctx, "/packing/"+id+"/assign", domain.Record{"worker_id": workerID})
}
