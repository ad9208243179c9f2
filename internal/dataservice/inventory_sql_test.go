package dataservice

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"warehouse/internal/domain"
)

func inventoryColumns() []string {
	return []string{"id", "sku", "name", "stock_level", "reorder_point", "location", "status", "updated_at"}
}

func TestInventorySQLGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM inventory_items WHERE id=\\?").WithArgs("7").
		WillReturnRows(sqlmock.NewRows(inventoryColumns()).
			AddRow(7, "SKU-7", "Pallet wrap", 12, 5, "A-03", "active", "2026-01-02"))

	svc := InventorySQL{DB: db}
	rec, err := svc.Get(context.Background(), "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec["sku"] != "SKU-7" || rec["stock_level"] != int64(12) {
		t.Fatalf("record = %v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInventorySQLGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM inventory_items WHERE id=\\?").WithArgs("999").
		WillReturnRows(sqlmock.NewRows(inventoryColumns()))

	svc := InventorySQL{DB: db}
	_, err = svc.Get(context.Background(), "999")
	if !domain.IsNotFound(err) {
		t.Fatalf("missing row mapped to %T: %v", err, err)
	}
}

func TestInventorySQLListWithSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM inventory_items").
		WithArgs("%wrap%", "%wrap%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
	mock.ExpectQuery("FROM inventory_items WHERE .+ LIMIT \\? OFFSET \\?").
		WithArgs("%wrap%", "%wrap%", 10, 10).
		WillReturnRows(sqlmock.NewRows(inventoryColumns()).
			AddRow(1, "SKU-1", "Pallet wrap", 12, 5, "A-03", "active", "").
			AddRow(2, "SKU-2", "Bubble wrap", 3, 5, "A-04", "active", ""))

	svc := InventorySQL{DB: db}
	res, err := svc.List(context.Background(), domain.ListQuery{Search: "wrap", Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 23 {
		t.Fatalf("total = %d, want 23", res.Total)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %d", len(res.Items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInventorySQLUpdateBuildsDynamicSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE inventory_items SET stock_level = \\?, location = \\? WHERE id = \\?").
		WithArgs(20, "B-01", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM inventory_items WHERE id=\\?").WithArgs("7").
		WillReturnRows(sqlmock.NewRows(inventoryColumns()).
			AddRow(7, "SKU-7", "Pallet wrap", 20, 5, "B-01", "active", ""))

	svc := InventorySQL{DB: db}
	rec, err := svc.Update(context.Background(), "7", domain.Record{
		"stock_level": 20,
		"location":    "B-01",
		"unknown_col": "ignored",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec["stock_level"] != int64(20) || rec["location"] != "B-01" {
		t.Fatalf("record = %v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInventorySQLUpdateRejectsEmptyPatch(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := InventorySQL{DB: db}
	_, err = svc.Update(context.Background(), "7", domain.Record{"unknown_col": 1})
	if !domain.IsValidation(err) {
		t.Fatalf("empty patch mapped to %T: %v", err, err)
	}
}

func TestInventorySQLDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM inventory_items WHERE id = \\?").WithArgs("999").
		WillReturnResult(sqlmock.NewResult(0, 0))

	svc := InventorySQL{DB: db}
	if err := svc.Delete(context.Background(), "999"); !domain.IsNotFound(err) {
		t.Fatalf("zero-row delete mapped to %T: %v", err, err)
	}
}

func TestInventorySQLStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COALESCE\\(SUM").
		WillReturnRows(sqlmock.NewRows([]string{"count", "low"}).AddRow(120, 8))

	svc := InventorySQL{DB: db}
	rec, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if rec["total_items"] != 120 || rec["low_stock_items"] != 8 {
		t.Fatalf("stats = %v", rec)
	}
}
