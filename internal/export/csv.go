// Package export produces the downloadable artifacts: CSV lists, JSON
// conversation dumps, and PDF documents. Every builder returns the file
// bytes plus the uniform action result; an empty source fails without
// producing a file.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"warehouse/internal/domain"
)

// CSV renders records as header + rows in the given column order. Missing
// fields become empty cells.
func CSV(rows []domain.Record, columns []string) ([]byte, domain.ActionResult) {
	if len(rows) == 0 {
		return nil, domain.Fail("No rows to export")
	}
	if len(columns) == 0 {
		return nil, domain.Fail("No columns configured for export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, domain.FailErr(err)
	}
	for _, rec := range rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = cell(rec[col])
		}
		if err := w.Write(line); err != nil {
			return nil, domain.FailErr(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.FailErr(err)
	}
	return buf.Bytes(), domain.OK(nil)
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
