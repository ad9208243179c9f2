package dataservice

import (
	"strings"
	"unicode"

	"warehouse/internal/domain"
)

// fieldAliases folds the upstream's historical field-name drift into one
// canonical name each. Applied once at the boundary; controllers never do
// fallback lookups.
var fieldAliases = map[string]string{
	"current_stock":   "stock_level",
	"stock":           "stock_level",
	"qty":             "quantity",
	"orderid":         "order_id",
	"conversationid":  "conversation_id",
	"workerid":        "worker_id",
	"assigned_to":     "worker_id",
	"order_state":     "order_status",
	"prio":            "priority",
	"created":         "created_at",
	"creation_date":   "created_at",
	"updated":         "updated_at",
	"last_modified":   "updated_at",
	"customer":        "customer_name",
	"client_name":     "customer_name",
	"msg":             "message",
	"body":            "message",
	"shipping_addr":   "shipping_address",
	"delivery_address": "shipping_address",
}

// Canonical rewrites every key of an upstream record to snake_case and folds
// known aliases. When both an alias and its canonical key are present the
// canonical one wins.
func Canonical(raw map[string]any) domain.Record {
	if raw == nil {
		return nil
	}
	out := make(domain.Record, len(raw))
	canonical := make(map[string]bool, len(raw))

	for k, v := range raw {
		key := SnakeCase(k)
		if canon, ok := fieldAliases[key]; ok && canon != key {
			// Alias: only fill when the canonical key itself is absent.
			if !canonical[canon] {
				out[canon] = normalizeValue(v)
			}
			continue
		}
		canonical[key] = true
		out[key] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Canonical(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// SnakeCase converts camelCase or PascalCase identifiers to snake_case;
// already-snake input passes through unchanged.
func SnakeCase(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}
