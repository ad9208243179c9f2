package dataservice

import (
	"context"
	"database/sql"
	"strings"

	"warehouse/internal/domain"
)

// InventorySQL reads stock straight from the warehouse MySQL schema for
// deployments that run next to it (inventory_mode: mysql).
type InventorySQL struct {
	DB *sql.DB
}

func (s InventorySQL) Get(ctx context.Context, id string) (domain.Record, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(sku,''), COALESCE(name,''), COALESCE(stock_level,0),
		       COALESCE(reorder_point,0), COALESCE(location,''), COALESCE(status,''),
		       COALESCE(updated_at,'')
		FROM inventory_items WHERE id=? LIMIT 1`, id)
	rec, err := scanInventoryRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "inventory item"}
	}
	return rec, err
}

func (s InventorySQL) List(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	where := []string{"1=1"}
	args := []any{}

	if strings.TrimSpace(q.Search) != "" {
		where = append(where, "(sku LIKE ? OR name LIKE ?)")
		like := "%" + strings.TrimSpace(q.Search) + "%"
		args = append(args, like, like)
	}
	if strings.TrimSpace(q.Status) != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inventory_items WHERE "+cond, args...).Scan(&total); err != nil {
		return domain.ListResult{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := 0
	if q.Page > 1 {
		offset = (q.Page - 1) * limit
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, COALESCE(sku,''), COALESCE(name,''), COALESCE(stock_level,0),
		       COALESCE(reorder_point,0), COALESCE(location,''), COALESCE(status,''),
		       COALESCE(updated_at,'')
		FROM inventory_items WHERE `+cond+` ORDER BY id ASC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return domain.ListResult{}, err
	}
	defer rows.Close()

	items := []domain.Record{}
	for rows.Next() {
		rec, err := scanInventoryRow(rows)
		if err != nil {
			return domain.ListResult{}, err
		}
		items = append(items, rec)
	}
	return domain.ListResult{Items: items, Total: total}, rows.Err()
}

func (s InventorySQL) Update(ctx context.Context, id string, payload domain.Record) (domain.Record, error) {
	sets := []string{}
	args := []any{}
	for _, col := range []string{"sku", "name", "stock_level", "reorder_point", "location", "status"} {
		if v, ok := payload[col]; ok {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
	}
	if len(sets) == 0 {
		return nil, domain.ValidationError{Msg: "no updatable fields in payload"}
	}
	args = append(args, id)
	if _, err := s.DB.ExecContext(ctx,
		"UPDATE inventory_items SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s InventorySQL) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "inventory item"}
	}
	return nil
}

func (s InventorySQL) Stats(ctx context.Context) (domain.Record, error) {
	var total, lowStock int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN stock_level <= reorder_point THEN 1 ELSE 0 END),0)
		FROM inventory_items`).Scan(&total, &lowStock)
	if err != nil {
		return nil, err
	}
	return domain.Record{"total_items": total, "low_stock_items": lowStock}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInventoryRow(row rowScanner) (domain.Record, error) {
	var (
		id, stockLevel, reorderPoint      int64
		sku, name, location, status, upAt string
	)
	if err := row.Scan(&id, &sku, &name, &stockLevel, &reorderPoint, &location, &status, &upAt); err != nil {
		return nil, err
	}
	return domain.Record{
		"id":            id,
		"sku":           sku,
		"name":          name,
		"stock_level":   stockLevel,
		"reorder_point": reorderPoint,
		"location":      location,
		"status":        status,
		"updated_at":    upAt,
	}, nil
}
