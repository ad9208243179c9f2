package domain

import "math"

// Record is one business object (order, packing task, worker, conversation)
// in canonical snake_case form. Partial updates are merged into it, never
// replace it wholesale.
type Record map[string]any

// Merge copies every field from patch over r, returning a new Record. A nil
// receiver behaves like an empty record.
func (r Record) Merge(patch Record) Record {
	out := make(Record, len(r)+len(patch))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy. Nil stays nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String reads a field as string, tolerating absent keys.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Status represents a lightweight state value.
type Status string

// ListQuery carries paging and filter params sent to a list endpoint.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	Priority  string
	StartDate string
	EndDate   string
}

// ListResult is the normalized shape of any list response, whether the
// upstream returned a paged envelope or a bare array.
type ListResult struct {
	Items []Record
	Total int
}

// Pagination carries paging state and derived totals.
type Pagination struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"itemsPerPage"`
	Total        int `json:"total"`
	TotalPages   int `json:"totalPages"`
}

// TotalPagesFor computes ceil(total/perPage) with perPage guarded above zero.
func TotalPagesFor(total, perPage int) int {
	if perPage <= 0 {
		perPage = 1
	}
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// ClampPage forces page into [1, max(totalPages,1)].
func ClampPage(page, totalPages int) int {
	upper := totalPages
	if upper < 1 {
		upper = 1
	}
	if page < 1 {
		return 1
	}
	if page > upper {
		return upper
	}
	return page
}

// ActionResult is the uniform return shape of every mutation action. Actions
// never let a rejected call escape; failures land here instead.
type ActionResult struct {
	Success          bool              `json:"success"`
	Error            string            `json:"error,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	Data             Record            `json:"data,omitempty"`
}

// OK wraps a successful result, optionally carrying the server record.
func OK(data Record) ActionResult {
	return ActionResult{Success: true, Data: data}
}

// Fail wraps a failed result with the surfaced message.
func Fail(msg string) ActionResult {
	return ActionResult{Success: false, Error: msg}
}

// FailErr converts an error into a failed result.
func FailErr(err error) ActionResult {
	if err == nil {
		return ActionResult{Success: true}
	}
	return ActionResult{Success: false, Error: err.Error()}
}

// Session carries authenticated user info injected into controllers.
type Session struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}
