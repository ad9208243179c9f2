package view

import (
	"testing"

	"warehouse/internal/domain"
	"warehouse/internal/staged"
)

func snapWith(mod func(s *staged.Snapshot)) staged.Snapshot {
	s := staged.Snapshot{
		Data: map[string]any{
			"basicInfo": domain.Record{"order_id": "42", "order_status": "pending"},
			"items":     []domain.Record{{"sku": "A-1"}},
			"actions":   []string{"confirm", "cancel", "edit"},
			"history":   nil,
		},
		Loading: map[string]bool{},
		Errors:  map[string]string{},
	}
	if mod != nil {
		mod(&s)
	}
	return s
}

func TestCriticalErrorShortCircuits(t *testing.T) {
	snap := snapWith(func(s *staged.Snapshot) {
		s.Errors["basicInfo"] = "order not found"
		s.Data["basicInfo"] = nil
	})

	page := Compose(snap, Components{}, Options{BackRoute: "/orders"})

	if page.CriticalError == nil {
		t.Fatalf("no critical panel for failed basic fetch")
	}
	if page.CriticalError.Message != "order not found" {
		t.Fatalf("panel message = %q", page.CriticalError.Message)
	}
	if page.CriticalError.BackRoute != "/orders" {
		t.Fatalf("panel back route = %q", page.CriticalError.BackRoute)
	}
	if page.Header != nil || len(page.Primary) != 0 || len(page.Sidebar) != 0 {
		t.Fatalf("sections rendered alongside the critical panel")
	}
}

func TestDetailErrorDoesNotShortCircuit(t *testing.T) {
	snap := snapWith(func(s *staged.Snapshot) {
		s.Errors["items"] = "upstream timeout"
		s.Data["items"] = nil
	})

	page := Compose(snap, Components{}, Options{})

	if page.CriticalError != nil {
		t.Fatalf("detail failure escalated to a critical panel")
	}
	for _, sec := range page.Primary {
		switch sec.Key {
		case KeyItemsList:
			if sec.State != StateError || sec.Error != "upstream timeout" {
				t.Fatalf("items section = %+v", sec)
			}
		case KeyStatus, KeyDetails:
			if sec.State != StateReady {
				t.Fatalf("%s state = %s, want ready", sec.Key, sec.State)
			}
		}
	}
}

func TestHeaderAlwaysRenders(t *testing.T) {
	snap := snapWith(func(s *staged.Snapshot) {
		s.Data["basicInfo"] = nil
		s.Loading["basicInfo"] = true
	})

	page := Compose(snap, Components{}, Options{})

	if page.Header == nil {
		t.Fatalf("header missing while basic loads")
	}
	if !page.Header.Loading {
		t.Fatalf("header loading flag not set")
	}
	if page.Header.Content != nil {
		t.Fatalf("header content = %v before basic resolves", page.Header.Content)
	}
}

func TestSectionOrderingIsFixed(t *testing.T) {
	page := Compose(snapWith(nil), Components{}, Options{
		Progress: func(data any) any { return "progress" },
		CustomSidebar: func(basic any, loading map[string]bool, errors map[string]string) any {
			return "sidebar"
		},
	})

	if len(page.Primary) != 3 {
		t.Fatalf("primary sections = %d", len(page.Primary))
	}
	wantPrimary := []SectionKey{KeyStatus, KeyDetails, KeyItemsList}
	for i, key := range wantPrimary {
		if page.Primary[i].Key != key {
			t.Fatalf("primary[%d] = %s, want %s", i, page.Primary[i].Key, key)
		}
	}

	if len(page.Sidebar) != 4 {
		t.Fatalf("sidebar sections = %d", len(page.Sidebar))
	}
	wantSidebar := []SectionKey{KeyActions, "Progress", "CustomSidebar", KeyHistory}
	for i, key := range wantSidebar {
		if page.Sidebar[i].Key != key {
			t.Fatalf("sidebar[%d] = %s, want %s", i, page.Sidebar[i].Key, key)
		}
	}
}

func TestLoadingSectionGetsSkeleton(t *testing.T) {
	snap := snapWith(func(s *staged.Snapshot) {
		s.Data["items"] = nil
		s.Loading["items"] = true
	})

	page := Compose(snap, Components{}, Options{})

	for _, sec := range page.Primary {
		if sec.Key != KeyItemsList {
			continue
		}
		if sec.State != StateLoading {
			t.Fatalf("items state = %s", sec.State)
		}
		if sec.Skeleton != "table-rows" {
			t.Fatalf("items skeleton = %q", sec.Skeleton)
		}
	}
}

func TestHistoryHiddenUntilEntriesExist(t *testing.T) {
	page := Compose(snapWith(nil), Components{}, Options{})

	last := page.Sidebar[len(page.Sidebar)-1]
	if last.Key != KeyHistory || last.State != StateHidden {
		t.Fatalf("history section = %+v", last)
	}
	if page.HistoryControl == nil || !page.HistoryControl.Visible {
		t.Fatalf("history control = %+v, want visible trigger", page.HistoryControl)
	}

	snap := snapWith(func(s *staged.Snapshot) {
		s.Data["history"] = []domain.Record{{"event": "created"}}
	})
	page = Compose(snap, Components{}, Options{})

	last = page.Sidebar[len(page.Sidebar)-1]
	if last.State != StateReady {
		t.Fatalf("history state = %s with entries present", last.State)
	}
	if page.HistoryControl.Visible {
		t.Fatalf("history trigger still visible after entries loaded")
	}

	snap = snapWith(func(s *staged.Snapshot) {
		s.Data["history"] = []domain.Record{}
	})
	page = Compose(snap, Components{}, Options{})
	if page.Sidebar[len(page.Sidebar)-1].State != StateHidden {
		t.Fatalf("empty history not hidden")
	}
}

func TestSectionDataOverride(t *testing.T) {
	snap := snapWith(func(s *staged.Snapshot) {
		s.Data["customerDetails"] = domain.Record{"customer_name": "Acme Works"}
	})

	page := Compose(snap, Components{}, Options{
		SectionData: map[SectionKey]string{KeyDetails: "customerDetails"},
	})

	for _, sec := range page.Primary {
		if sec.Key != KeyDetails {
			continue
		}
		rec, ok := sec.Content.(domain.Record)
		if !ok || rec.String("customer_name") != "Acme Works" {
			t.Fatalf("details content = %v", sec.Content)
		}
	}
}

func TestRenderersTransformContent(t *testing.T) {
	page := Compose(snapWith(nil), Components{
		Status: func(data any) any {
			rec, _ := data.(domain.Record)
			return rec.String("order_status")
		},
	}, Options{})

	if page.Primary[0].Content != "pending" {
		t.Fatalf("status content = %v", page.Primary[0].Content)
	}
}
