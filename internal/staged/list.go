package staged

import (
	"context"
	"strings"
	"sync"

	"warehouse/internal/domain"
)

// ListFetch issues one list request with the active filters and paging.
type ListFetch func(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)

// StatsFetch loads the aggregate counters shown next to a list. Optional.
type StatsFetch func(ctx context.Context) (domain.Record, error)

// ListController applies the staged pattern to a collection endpoint:
// one canonical fetched page plus pagination, filter, and stats state.
type ListController struct {
	mu      sync.Mutex
	fetch   ListFetch
	stats   StatsFetch
	perPage int

	items   []domain.Record
	total   int
	page    int
	filters domain.ListQuery
	loading bool
	err     string
	seq     uint64

	statsData    domain.Record
	statsLoading bool
	statsErr     string
	statsSeq     uint64

	closed bool
}

func NewListController(fetch ListFetch, stats StatsFetch, perPage int, initial domain.ListQuery) *ListController {
	if perPage <= 0 {
		perPage = 10
	}
	initial.Page = 0
	initial.Limit = 0
	return &ListController{
		fetch:   fetch,
		stats:   stats,
		perPage: perPage,
		page:    1,
		filters: initial,
	}
}

// Load fetches the first page and, when a stats fetch is wired, the counters
// in parallel.
func (c *ListController) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.fetchPage(ctx)
	}()
	if c.stats != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.fetchStats(ctx)
		}()
	}
	wg.Wait()
}

// LoadPage fetches page n directly, for callers that receive the page number
// with the request before any total is known. The response's total clamps it.
func (c *ListController) LoadPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()
	c.Load(ctx)
}

// RefreshAll re-issues the page fetch (and stats) with the current filters.
// The consistency-recovery path after optimistic mutations.
func (c *ListController) RefreshAll(ctx context.Context) {
	c.Load(ctx)
}

// RefreshStats re-fetches only the aggregate counters.
func (c *ListController) RefreshStats(ctx context.Context) {
	if c.stats != nil {
		c.fetchStats(ctx)
	}
}

func (c *ListController) fetchPage(ctx context.Context) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.seq++
	seq := c.seq
	c.loading = true
	q := c.filters
	q.Page = c.page
	q.Limit = c.perPage
	fetch := c.fetch
	c.mu.Unlock()

	res, err := fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.seq != seq {
		return false
	}
	c.loading = false
	if err != nil {
		c.err = err.Error()
		return false
	}
	c.err = ""
	c.items = res.Items
	c.total = res.Total
	c.page = domain.ClampPage(c.page, domain.TotalPagesFor(c.total, c.perPage))
	return true
}

func (c *ListController) fetchStats(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.stats == nil {
		c.mu.Unlock()
		return
	}
	c.statsSeq++
	seq := c.statsSeq
	c.statsLoading = true
	fetch := c.stats
	c.mu.Unlock()

	rec, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.statsSeq != seq {
		return
	}
	c.statsLoading = false
	if err != nil {
		c.statsErr = err.Error()
		return
	}
	c.statsErr = ""
	c.statsData = rec
}

// SetFilters merges a filter change and re-fetches. Any filter change resets
// the page to 1 before the fetch goes out.
func (c *ListController) SetFilters(ctx context.Context, apply func(q *domain.ListQuery)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	apply(&c.filters)
	c.filters.Page = 0
	c.filters.Limit = 0
	c.page = 1
	c.mu.Unlock()
	c.fetchPage(ctx)
}

func (c *ListController) SetSearch(ctx context.Context, term string) {
	c.SetFilters(ctx, func(q *domain.ListQuery) { q.Search = strings.TrimSpace(term) })
}

func (c *ListController) SetStatus(ctx context.Context, status string) {
	c.SetFilters(ctx, func(q *domain.ListQuery) { q.Status = strings.TrimSpace(status) })
}

func (c *ListController) SetPriority(ctx context.Context, priority string) {
	c.SetFilters(ctx, func(q *domain.ListQuery) { q.Priority = strings.TrimSpace(priority) })
}

func (c *ListController) SetDateRange(ctx context.Context, start, end string) {
	c.SetFilters(ctx, func(q *domain.ListQuery) {
		q.StartDate = strings.TrimSpace(start)
		q.EndDate = strings.TrimSpace(end)
	})
}

// GoToPage navigates to page n with the active filters. A no-op outside
// [1, totalPages]: no state change, no fetch.
func (c *ListController) GoToPage(ctx context.Context, n int) bool {
	c.mu.Lock()
	totalPages := domain.TotalPagesFor(c.total, c.perPage)
	if c.closed || n < 1 || n > totalPages {
		c.mu.Unlock()
		return false
	}
	c.page = n
	c.mu.Unlock()
	c.fetchPage(ctx)
	return true
}

func (c *ListController) NextPage(ctx context.Context) bool {
	c.mu.Lock()
	n := c.page + 1
	c.mu.Unlock()
	return c.GoToPage(ctx, n)
}

func (c *ListController) PrevPage(ctx context.Context) bool {
	c.mu.Lock()
	n := c.page - 1
	c.mu.Unlock()
	return c.GoToPage(ctx, n)
}

// Items returns a copy of the canonical fetched page.
func (c *ListController) Items() []domain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Record, len(c.items))
	copy(out, c.items)
	return out
}

// Visible is the client-side secondary filter pass: a pure derived view over
// the fetched page, guarding against upstreams that ignore filter params.
// It never mutates the canonical slice.
func (c *ListController) Visible() []domain.Record {
	c.mu.Lock()
	items := c.items
	q := c.filters
	c.mu.Unlock()

	out := make([]domain.Record, 0, len(items))
	for _, rec := range items {
		if !matchesQuery(rec, q) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesQuery(rec domain.Record, q domain.ListQuery) bool {
	if q.Status != "" {
		if !fieldEquals(rec, q.Status, "status", "order_status") {
			return false
		}
	}
	if q.Priority != "" {
		if !fieldEquals(rec, q.Priority, "priority") {
			return false
		}
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		found := false
		for _, v := range rec {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func fieldEquals(rec domain.Record, want string, keys ...string) bool {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok {
			return strings.EqualFold(s, want)
		}
	}
	return false
}

// Pagination returns the derived paging state.
func (c *ListController) Pagination() domain.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Pagination{
		Page:         c.page,
		ItemsPerPage: c.perPage,
		Total:        c.total,
		TotalPages:   domain.TotalPagesFor(c.total, c.perPage),
	}
}

// Filters returns the active filter set.
func (c *ListController) Filters() domain.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// State reports the list section's loading flag and error slot.
func (c *ListController) State() (loading bool, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading, c.err
}

// Stats returns the counters section: data, loading flag, error slot.
func (c *ListController) Stats() (domain.Record, bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statsData.Clone(), c.statsLoading, c.statsErr
}

// MutateRow applies an optimistic local patch to the first matching row,
// runs commit, and reverts the patch when commit fails. Success kicks off a
// background stats refresh; the full page is not refetched.
func (c *ListController) MutateRow(ctx context.Context, match func(domain.Record) bool, patch domain.Record, commit func(ctx context.Context) error) domain.ActionResult {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.Fail("list is closed")
	}
	idx := -1
	for i, rec := range c.items {
		if match(rec) {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return domain.Fail("row not found")
	}
	prev := c.items[idx]
	c.items[idx] = prev.Merge(patch)
	c.mu.Unlock()

	if err := commit(ctx); err != nil {
		c.mu.Lock()
		if !c.closed && idx < len(c.items) {
			c.items[idx] = prev
		}
		c.mu.Unlock()
		return domain.FailErr(err)
	}

	go c.RefreshStats(context.WithoutCancel(ctx))
	return domain.OK(nil)
}

// RemoveRow optimistically removes the first matching row, restoring it at
// its old position when commit fails.
func (c *ListController) RemoveRow(ctx context.Context, match func(domain.Record) bool, commit func(ctx context.Context) error) domain.ActionResult {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.Fail("list is closed")
	}
	idx := -1
	for i, rec := range c.items {
		if match(rec) {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return domain.Fail("row not found")
	}
	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.total--
	c.mu.Unlock()

	if err := commit(ctx); err != nil {
		c.mu.Lock()
		if !c.closed {
			if idx > len(c.items) {
				idx = len(c.items)
			}
			c.items = append(c.items[:idx], append([]domain.Record{removed}, c.items[idx:]...)...)
			c.total++
		}
		c.mu.Unlock()
		return domain.FailErr(err)
	}

	go c.RefreshStats(context.WithoutCancel(ctx))
	return domain.OK(nil)
}

// Close stops all future state writes from in-flight fetches.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
