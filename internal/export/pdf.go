package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"warehouse/internal/domain"
)

// OrderInvoicePDF renders a printable invoice for one order.
func OrderInvoicePDF(order domain.Record, items []domain.Record) ([]byte, string, error) {
	if order == nil {
		return nil, "", domain.ValidationError{Msg: "no order data to render"}
	}
	orderID := order.String("order_id")
	if orderID == "" {
		orderID = cell(order["order_id"])
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Invoice No   : INV-%s", safe(orderID, "-")),
		fmt.Sprintf("Date         : %s", time.Now().Format("2006-01-02 15:04")),
		fmt.Sprintf("Customer     : %s", safe(order.String("customer_name"), "-")),
		fmt.Sprintf("Status       : %s", safe(order.String("order_status"), "-")),
		fmt.Sprintf("Ship To      : %s", safe(order.String("shipping_address"), "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Price")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, it := range items {
		pdf.Cell(90, 7, safe(it.String("name"), cell(it["sku"])))
		pdf.Cell(30, 7, cell(it["quantity"]))
		pdf.Cell(40, 7, cell(it["price"]))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(orderID))
	return buf.Bytes(), filename, nil
}

// PackingSlipPDF renders the slip packed into a shipment box.
func PackingSlipPDF(task domain.Record, items []domain.Record) ([]byte, string, error) {
	if task == nil {
		return nil, "", domain.ValidationError{Msg: "no packing data to render"}
	}
	taskID := safe(task.String("id"), cell(task["id"]))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Packing Slip", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PACKING SLIP")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Task         : #%s", safe(taskID, "-")),
		fmt.Sprintf("Order        : #%s", safe(cell(task["order_id"]), "-")),
		fmt.Sprintf("Packed By    : %s", safe(task.String("worker_name"), "-")),
		fmt.Sprintf("Date         : %s", time.Now().Format("2006-01-02")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(110, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, it := range items {
		pdf.Cell(110, 7, safe(it.String("name"), cell(it["sku"])))
		pdf.Cell(30, 7, cell(it["quantity"]))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Check contents against this slip before sealing the box.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("PACKING_SLIP_%s.pdf", safeFilenamePart(taskID))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
