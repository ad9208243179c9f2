package dataservice

import (
	"context"

	"warehouse/internal/domain"
)

// WorkerService loads warehouse worker profiles.
type WorkerService interface {
	Get(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Assignments(ctx context.Context, id string) ([]domain.Record, error)
	Performance(ctx context.Context, id string) (domain.Record, error)
}

type workerREST struct {
	c *Client
}

func NewWorkerService(c *Client) WorkerService { return workerREST{c: c} }

func (s workerREST) Get(ctx context.Context, id string) (domain.Record, error) {
	return s.c.Get(ctx, "/workers/"+id)
}

func (s workerREST) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	return s.c.List(ctx, "/workers", q)
}

func (s workerREST) Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error) {
	return s.c.Update(ctx, "/workers/"+id, payload)
}

func (s workerREST) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, "/workers/"+id)
}

func (s workerREST) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	_, err := s.c.Update(ctx, "/workers/"+id+"/status", domain.Record{"status": string(status)})
	return err
}

func (s workerREST) Assignments(ctx context.Context, id string) ([]domain.Record, error) {
	res, err := s.c.List(ctx, "/workers/"+id+"/assignments", domain.ListQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s workerREST) Performance(ctx context.Context, id string) (domain.Record, error) {
	return s.c.Get(ctx, "/workers/"+id+"/performance")
}
