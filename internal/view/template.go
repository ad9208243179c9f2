// Package view composes a staged snapshot and a set of named section
// renderers into one page document. Sections reveal independently; a failed
// basic fetch short-circuits the whole page to an error panel.
package view

import (
	"warehouse/internal/domain"
	"warehouse/internal/staged"
)

type SectionKey string

const (
	KeyHeader    SectionKey = "Header"
	KeyStatus    SectionKey = "Status"
	KeyDetails   SectionKey = "Details"
	KeyActions   SectionKey = "Actions"
	KeyItemsList SectionKey = "ItemsList"
	KeyHistory   SectionKey = "History"
)

// Renderer maps a section's raw data to its view content. A nil Renderer
// passes the data through unchanged.
type Renderer func(data any) any

// Components holds the fixed renderer set of a detail page.
type Components struct {
	Header    Renderer
	Status    Renderer
	Details   Renderer
	Actions   Renderer
	ItemsList Renderer
	History   Renderer
}

// Options binds section keys to loader sections and carries the page chrome.
type Options struct {
	// BackRoute is the escape hatch shown on the critical error panel.
	BackRoute string
	// BasicSection names the loader's basic section. Default "basicInfo".
	BasicSection string
	// SectionData overrides which loader section backs a given key. By
	// default Status and Details read the basic section, ItemsList reads
	// "items", Actions reads "actions", History reads "history".
	SectionData map[SectionKey]string
	// Progress, when set, renders an extra sidebar panel from the basic data.
	Progress Renderer
	// CustomSidebar, when set, renders with full snapshot visibility.
	CustomSidebar func(basic any, loading map[string]bool, errors map[string]string) any
}

type SectionState string

const (
	StateReady   SectionState = "ready"
	StateLoading SectionState = "loading"
	StateError   SectionState = "error"
	StateHidden  SectionState = "hidden"
)

// Deterministic placeholder shape per section, so pending UI is stable
// across renders.
var skeletonKinds = map[SectionKey]string{
	KeyStatus:    "status-badge",
	KeyDetails:   "detail-grid",
	KeyItemsList: "table-rows",
	KeyActions:   "button-stack",
	KeyHistory:   "timeline",
}

type SectionView struct {
	Key      SectionKey   `json:"key"`
	State    SectionState `json:"state"`
	Skeleton string       `json:"skeleton,omitempty"`
	Content  any          `json:"content,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type HeaderView struct {
	Content any  `json:"content"`
	Loading bool `json:"loading"`
}

type CriticalPanel struct {
	Message   string `json:"message"`
	BackRoute string `json:"backRoute"`
}

// HistoryControl is the explicit trigger for the on-demand section. Visible
// while history has not produced entries; Loading mirrors the section flag.
type HistoryControl struct {
	Visible bool `json:"visible"`
	Loading bool `json:"loading"`
}

type PageView struct {
	CriticalError  *CriticalPanel `json:"criticalError,omitempty"`
	BackRoute      string         `json:"backRoute,omitempty"`
	Header         *HeaderView    `json:"header,omitempty"`
	Primary        []SectionView  `json:"primary,omitempty"`
	Sidebar        []SectionView  `json:"sidebar,omitempty"`
	HistoryControl *HistoryControl `json:"historyControl,omitempty"`
}

// Compose builds the page document. Section order is fixed (Status, Details,
// ItemsList in the primary column; Actions, progress, custom sidebar, History
// in the sidebar) regardless of data arrival order.
func Compose(snap staged.Snapshot, comps Components, opts Options) PageView {
	basic := opts.BasicSection
	if basic == "" {
		basic = "basicInfo"
	}

	// A failed basic fetch is fatal to the page: error panel only, no
	// sections, no matter what the other sections hold.
	if msg := snap.Errors[basic]; msg != "" {
		return PageView{CriticalError: &CriticalPanel{Message: msg, BackRoute: opts.BackRoute}}
	}

	source := func(key SectionKey, fallback string) string {
		if opts.SectionData != nil {
			if name, ok := opts.SectionData[key]; ok {
				return name
			}
		}
		return fallback
	}

	basicData := snap.Data[basic]

	page := PageView{
		BackRoute: opts.BackRoute,
		// Header always renders with whatever the basic record currently
		// holds, nil included; its loading flag travels alongside.
		Header: &HeaderView{
			Content: render(comps.Header, basicData),
			Loading: snap.Loading[basic],
		},
	}

	section := func(key SectionKey, r Renderer, name string) SectionView {
		data := snap.Data[name]
		loading := snap.Loading[name]
		errMsg := snap.Errors[name]
		switch {
		case errMsg != "":
			return SectionView{Key: key, State: StateError, Error: errMsg}
		case loading || data == nil:
			return SectionView{Key: key, State: StateLoading, Skeleton: skeletonKinds[key]}
		default:
			return SectionView{Key: key, State: StateReady, Content: render(r, data)}
		}
	}

	page.Primary = []SectionView{
		section(KeyStatus, comps.Status, source(KeyStatus, basic)),
		section(KeyDetails, comps.Details, source(KeyDetails, basic)),
		section(KeyItemsList, comps.ItemsList, source(KeyItemsList, "items")),
	}

	page.Sidebar = []SectionView{
		section(KeyActions, comps.Actions, source(KeyActions, "actions")),
	}
	if opts.Progress != nil {
		page.Sidebar = append(page.Sidebar, SectionView{
			Key:     "Progress",
			State:   StateReady,
			Content: opts.Progress(basicData),
		})
	}
	if opts.CustomSidebar != nil {
		page.Sidebar = append(page.Sidebar, SectionView{
			Key:     "CustomSidebar",
			State:   StateReady,
			Content: opts.CustomSidebar(basicData, snap.Loading, snap.Errors),
		})
	}

	historyName := source(KeyHistory, "history")
	page.Sidebar = append(page.Sidebar, historySection(snap, comps.History, historyName))
	page.HistoryControl = &HistoryControl{
		Visible: !historyHasEntries(snap.Data[historyName]),
		Loading: snap.Loading[historyName],
	}

	return page
}

// historySection stays hidden until the on-demand load produced entries.
func historySection(snap staged.Snapshot, r Renderer, name string) SectionView {
	if errMsg := snap.Errors[name]; errMsg != "" {
		return SectionView{Key: KeyHistory, State: StateError, Error: errMsg}
	}
	if snap.Loading[name] {
		return SectionView{Key: KeyHistory, State: StateLoading, Skeleton: skeletonKinds[KeyHistory]}
	}
	data := snap.Data[name]
	if !historyHasEntries(data) {
		return SectionView{Key: KeyHistory, State: StateHidden}
	}
	return SectionView{Key: KeyHistory, State: StateReady, Content: render(r, data)}
}

func historyHasEntries(data any) bool {
	switch t := data.(type) {
	case nil:
		return false
	case []any:
		return len(t) > 0
	case []map[string]any:
		return len(t) > 0
	default:
		if entries, ok := asRecordSlice(data); ok {
			return len(entries) > 0
		}
		return true
	}
}

func asRecordSlice(data any) ([]domain.Record, bool) {
	recs, ok := data.([]domain.Record)
	return recs, ok
}

func render(r Renderer, data any) any {
	if r == nil {
		return data
	}
	return r(data)
}
