package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"warehouse/internal/domain"
)

func TestCSVRendersHeaderAndRows(t *testing.T) {
	rows := []domain.Record{
		{"order_id": "42", "order_status": "pending", "customer_name": "Acme, Inc."},
		{"order_id": "43", "order_status": "shipped"},
	}
	data, res := CSV(rows, []string{"order_id", "order_status", "customer_name"})
	if !res.Success {
		t.Fatalf("csv failed: %s", res.Error)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != "order_id,order_status,customer_name" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Acme, Inc."`) {
		t.Fatalf("comma in value not quoted: %q", lines[1])
	}
	if lines[2] != "43,shipped," {
		t.Fatalf("missing field not rendered as empty cell: %q", lines[2])
	}
}

func TestCSVEmptyRowsFails(t *testing.T) {
	data, res := CSV(nil, []string{"order_id"})
	if res.Success || data != nil {
		t.Fatalf("empty export produced a file")
	}
	if res.Error != "No rows to export" {
		t.Fatalf("error = %q", res.Error)
	}
}

func TestCSVNumericCells(t *testing.T) {
	rows := []domain.Record{
		{"id": float64(7), "stock_level": float64(12.5), "reorder_point": 5},
	}
	data, res := CSV(rows, []string{"id", "stock_level", "reorder_point"})
	if !res.Success {
		t.Fatalf("csv failed: %s", res.Error)
	}
	line := strings.Split(strings.TrimSpace(string(data)), "\n")[1]
	if line != "7,12.5,5" {
		t.Fatalf("numeric row = %q", line)
	}
}

func TestConversationJSONShape(t *testing.T) {
	msgs := []domain.Record{
		{"id": 1, "sender": "user", "text": "Where is SKU A-1?"},
		{"id": 2, "sender": "assistant", "text": "Aisle 3, bin 7."},
	}
	data, res := ConversationJSON("c1", msgs)
	if !res.Success {
		t.Fatalf("export failed: %s", res.Error)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["conversationId"] != "c1" {
		t.Fatalf("conversationId = %v", doc["conversationId"])
	}
	if doc["exportDate"] == "" || doc["exportDate"] == nil {
		t.Fatalf("exportDate missing")
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Fatalf("export not indented")
	}

	if _, res := ConversationJSON("c1", nil); res.Success {
		t.Fatalf("empty thread exported")
	}
}

func TestOrderInvoicePDF(t *testing.T) {
	order := domain.Record{
		"order_id":      "42",
		"order_status":  "confirmed",
		"customer_name": "Acme Works",
	}
	items := []domain.Record{
		{"name": "Pallet wrap", "quantity": 3, "price": 12000},
	}

	data, filename, err := OrderInvoicePDF(order, items)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header")
	}
	if filename != "INVOICE_42.pdf" {
		t.Fatalf("filename = %q", filename)
	}

	if _, _, err := OrderInvoicePDF(nil, nil); !domain.IsValidation(err) {
		t.Fatalf("nil order mapped to %v", err)
	}
}

func TestPackingSlipPDF(t *testing.T) {
	task := domain.Record{
		"id":          "p-9",
		"order_id":    "42",
		"worker_name": "J. Doe",
	}
	data, filename, err := PackingSlipPDF(task, []domain.Record{{"sku": "A-1", "quantity": 2}})
	if err != nil {
		t.Fatalf("slip: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header")
	}
	if filename != "PACKING_SLIP_p-9.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart("a/b c:d"); got != "a-b_c-d" {
		t.Fatalf("safeFilenamePart = %q", got)
	}
	if got := safeFilenamePart("  "); got != "unknown" {
		t.Fatalf("blank input = %q", got)
	}
}
