package staged

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"warehouse/internal/domain"
)

// fakeListFetch serves a fixed dataset with server-side paging, recording
// every query it receives.
type fakeListFetch struct {
	rows    []domain.Record
	calls   int32
	lastQ   domain.ListQuery
	failing bool
}

func (f *fakeListFetch) fetch(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	atomic.AddInt32(&f.calls, 1)
	f.lastQ = q
	if f.failing {
		return domain.ListResult{}, errors.New("upstream unavailable")
	}
	start := (q.Page - 1) * q.Limit
	if start < 0 {
		start = 0
	}
	end := start + q.Limit
	if start > len(f.rows) {
		start = len(f.rows)
	}
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return domain.ListResult{Items: f.rows[start:end], Total: len(f.rows)}, nil
}

func seedRows(n int) []domain.Record {
	rows := make([]domain.Record, 0, n)
	for i := 0; i < n; i++ {
		status := "pending"
		if i%2 == 1 {
			status = "shipped"
		}
		rows = append(rows, domain.Record{
			"order_id":      string(rune('a' + i%26)),
			"order_status":  status,
			"customer_name": "Customer",
		})
	}
	return rows
}

func TestPaginationDerivation(t *testing.T) {
	f := &fakeListFetch{rows: seedRows(137)}
	c := NewListController(f.fetch, nil, 10, domain.ListQuery{})

	c.Load(context.Background())

	p := c.Pagination()
	if p.Total != 137 {
		t.Fatalf("total = %d, want 137", p.Total)
	}
	if p.TotalPages != 14 {
		t.Fatalf("totalPages = %d, want 14", p.TotalPages)
	}
	if p.Page != 1 {
		t.Fatalf("page = %d, want 1", p.Page)
	}
	if len(c.Items()) != 10 {
		t.Fatalf("items = %d, want 10", len(c.Items()))
	}
}

func TestGoToPageOutsideRangeIsNoOp(t *testing.T) {
	f := &fakeListFetch{rows: seedRows(30)}
	c := NewListController(f.fetch, nil, 10, domain.ListQuery{})
	c.Load(context.Background())

	before := atomic.LoadInt32(&f.calls)
	if c.GoToPage(context.Background(), 20) {
		t.Fatalf("GoToPage(20) = true on a 3-page list")
	}
	if c.GoToPage(context.Background(), 0) {
		t.Fatalf("GoToPage(0) = true")
	}
	if got := atomic.LoadInt32(&f.calls); got != before {
		t.Fatalf("out-of-range navigation issued %d fetches", got-before)
	}
	if p := c.Pagination(); p.Page != 1 {
		t.Fatalf("page moved to %d on rejected navigation", p.Page)
	}

	if !c.GoToPage(context.Background(), 3) {
		t.Fatalf("GoToPage(3) = false on a 3-page list")
	}
	if p := c.Pagination(); p.Page != 3 {
		t.Fatalf("page = %d after GoToPage(3)", p.Page)
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	f := &fakeListFetch{rows: seedRows(50)}
	c := NewListController(f.fetch, nil, 10, domain.ListQuery{})
	c.Load(context.Background())
	c.GoToPage(context.Background(), 4)

	c.SetStatus(context.Background(), "pending")

	if p := c.Pagination(); p.Page != 1 {
		t.Fatalf("page = %d after filter change, want 1", p.Page)
	}
	if f.lastQ.Page != 1 {
		t.Fatalf("fetch went out with page %d, want 1", f.lastQ.Page)
	}
	if f.lastQ.Status != "pending" {
		t.Fatalf("fetch went out with status %q", f.lastQ.Status)
	}
}

func TestLoadPageClampsToTotal(t *testing.T) {
	f := &fakeListFetch{rows: seedRows(25)}
	c := NewListController(f.fetch, nil, 10, domain.ListQuery{})

	c.LoadPage(context.Background(), 99)

	if p := c.Pagination(); p.Page != 3 {
		t.Fatalf("page = %d, want clamp to 3", p.Page)
	}
}

func TestVisibleIsPure(t *testing.T) {
	rows := []domain.Record{
		{"order_id": "1", "order_status": "pending", "customer_name": "Acme Works"},
		{"order_id": "2", "order_status": "shipped", "customer_name": "Beta Corp"},
		{"order_id": "3", "order_status": "pending", "customer_name": "Gamma LLC"},
	}
	fetched := false
	fetch := func(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
		fetched = true
		return domain.ListResult{Items: rows, Total: len(rows)}, nil
	}
	c := NewListController(fetch, nil, 10, domain.ListQuery{})
	c.Load(context.Background())
	fetched = false

	c.SetStatus(context.Background(), "pending")
	fetched = false

	vis := c.Visible()
	if len(vis) != 2 {
		t.Fatalf("visible = %d rows, want 2", len(vis))
	}
	for _, rec := range vis {
		if rec.String("order_status") != "pending" {
			t.Fatalf("visible row has status %q", rec.String("order_status"))
		}
	}
	if fetched {
		t.Fatalf("Visible issued a fetch")
	}
	if len(c.Items()) != 3 {
		t.Fatalf("canonical page shrank to %d rows", len(c.Items()))
	}

	c.SetSearch(context.Background(), "beta")
	c.SetStatus(context.Background(), "")
	vis = c.Visible()
	if len(vis) != 1 || vis[0].String("customer_name") != "Beta Corp" {
		t.Fatalf("search filter returned %v", vis)
	}
}

func TestMutateRowRollsBackOnCommitFailure(t *testing.T) {
	rows := []domain.Record{
		{"order_id": "42", "order_status": "pending"},
	}
	fetch := func(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
		return domain.ListResult{Items: rows, Total: 1}, nil
	}
	c := NewListController(fetch, nil, 10, domain.ListQuery{})
	c.Load(context.Background())

	match := func(rec domain.Record) bool { return rec.String("order_id") == "42" }
	res := c.MutateRow(context.Background(), match, domain.Record{"order_status": "confirmed"}, func(ctx context.Context) error {
		return errors.New("409 conflict")
	})

	if res.Success {
		t.Fatalf("mutation reported success despite commit failure")
	}
	if got := c.Items()[0].String("order_status"); got != "pending" {
		t.Fatalf("status = %q after rollback, want pending", got)
	}
}

func TestMutateRowAppliesPatchAndRefreshesStats(t *testing.T) {
	rows := []domain.Record{
		{"order_id": "42", "order_status": "pending"},
	}
	fetch := func(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
		return domain.ListResult{Items: rows, Total: 1}, nil
	}
	statsDone := make(chan struct{}, 2)
	stats := func(ctx context.Context) (domain.Record, error) {
		statsDone <- struct{}{}
		return domain.Record{"pending": 1}, nil
	}
	c := NewListController(fetch, stats, 10, domain.ListQuery{})
	c.Load(context.Background())
	<-statsDone

	match := func(rec domain.Record) bool { return rec.String("order_id") == "42" }
	res := c.MutateRow(context.Background(), match, domain.Record{"order_status": "confirmed"}, func(ctx context.Context) error {
		return nil
	})

	if !res.Success {
		t.Fatalf("mutation failed: %s", res.Error)
	}
	if got := c.Items()[0].String("order_status"); got != "confirmed" {
		t.Fatalf("status = %q, want confirmed", got)
	}
	<-statsDone
}

func TestRemoveRowRestoresOnFailure(t *testing.T) {
	rows := []domain.Record{
		{"order_id": "1"},
		{"order_id": "2"},
		{"order_id": "3"},
	}
	fetch := func(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
		return domain.ListResult{Items: rows, Total: 3}, nil
	}
	c := NewListController(fetch, nil, 10, domain.ListQuery{})
	c.Load(context.Background())

	match := func(rec domain.Record) bool { return rec.String("order_id") == "2" }
	res := c.RemoveRow(context.Background(), match, func(ctx context.Context) error {
		return errors.New("delete rejected")
	})

	if res.Success {
		t.Fatalf("remove reported success despite commit failure")
	}
	items := c.Items()
	if len(items) != 3 {
		t.Fatalf("items = %d after rollback, want 3", len(items))
	}
	if items[1].String("order_id") != "2" {
		t.Fatalf("restored row out of position: %v", items)
	}
	if p := c.Pagination(); p.Total != 3 {
		t.Fatalf("total = %d after rollback, want 3", p.Total)
	}
}

func TestListErrorKeepsLastGoodPage(t *testing.T) {
	f := &fakeListFetch{rows: seedRows(12)}
	c := NewListController(f.fetch, nil, 10, domain.ListQuery{})
	c.Load(context.Background())

	f.failing = true
	c.RefreshAll(context.Background())

	loading, errMsg := c.State()
	if loading {
		t.Fatalf("loading stuck after failed refresh")
	}
	if errMsg != "upstream unavailable" {
		t.Fatalf("error = %q", errMsg)
	}
	if len(c.Items()) != 10 {
		t.Fatalf("last good page dropped: %d rows", len(c.Items()))
	}
}
