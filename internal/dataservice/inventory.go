package dataservice

import (
	"context"

	"warehouse/internal/domain"
)

// InventoryService lists and mutates stock items. Two implementations exist:
// the REST one here and a direct-MySQL one for deployments colocated with the
// warehouse database.
type InventoryService interface {
	Get(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.Record, error)
}

type inventoryREST struct {
	c *Client
}

func NewInventoryService(c *Client) InventoryService { return inventoryREST{c: c} }

func (s inventoryREST) Get(ctx context.Context, id string) (domain.Record, error) {
	return s.c.Get(ctx, "/inventory/"+id)
}

func (s inventoryREST) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	return s.c.List(ctx, "/inventory", q)
}

func (s inventoryREST) Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error) {
	return s.c.Update(ctx, "/inventory/"+id, payload)
}

func (s inventoryREST) Delete(ctx context.Context, id string) error {
	return s.c.Delete(ctx, "/inventory/"+id)
}

func (s inventoryREST) Stats(ctx context.Context) (domain.Record, error) {
	return s.c.Get(ctx, "/inventory/stats")
}
