// Package staged is the loading engine behind every detail and list page:
// named sections fetched in priority phases, each with its own loading flag
// and error slot, so one slow or failing section never holds up the rest.
package staged

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Phase int

const (
	// PhaseBasic is the minimal record needed for immediate display. Exactly
	// one section per loader carries it.
	PhaseBasic Phase = iota + 1
	// PhaseDetail sections load in parallel once the basic record resolved.
	PhaseDetail
	// PhaseOnDemand sections load only through an explicit LoadSection call.
	PhaseOnDemand
)

// FetchFunc produces one section's data. Errors are captured into the error
// map, never propagated to callers.
type FetchFunc func(ctx context.Context) (any, error)

type Section struct {
	Name     string
	Phase    Phase
	Critical bool
	Fetch    FetchFunc
}

type sectionState struct {
	Section
	data    any
	loading bool
	err     string
	seq     uint64
}

// Loader owns the section states of one page mount. Each mount gets its own
// Loader; there is no cross-instance sharing.
type Loader struct {
	mu       sync.Mutex
	sections map[string]*sectionState
	order    []string
	basic    string
	closed   bool
}

// NewLoader registers the fixed section set. Section names and phases are
// decided at construction and never change afterwards. Panics on duplicate
// names or a missing/duplicated basic section: that is a wiring bug, not a
// runtime condition.
func NewLoader(sections ...Section) *Loader {
	l := &Loader{sections: make(map[string]*sectionState, len(sections))}
	for _, s := range sections {
		if s.Name == "" || s.Fetch == nil {
			panic("staged: section needs a name and a fetch func")
		}
		if _, dup := l.sections[s.Name]; dup {
			panic("staged: duplicate section " + s.Name)
		}
		if s.Phase == PhaseBasic {
			if l.basic != "" {
				panic("staged: more than one basic section")
			}
			l.basic = s.Name
		}
		l.sections[s.Name] = &sectionState{Section: s}
		l.order = append(l.order, s.Name)
	}
	if l.basic == "" {
		panic("staged: no basic section registered")
	}
	return l
}

// Load runs the basic section and, only when it resolves to non-nil data,
// fans out every detail section in parallel. On-demand sections stay
// untouched.
func (l *Loader) Load(ctx context.Context) {
	if !l.fetchSection(ctx, l.basic) {
		return
	}
	if l.Data(l.basic) == nil {
		return
	}
	l.loadDetails(ctx)
}

func (l *Loader) loadDetails(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range l.order {
		l.mu.Lock()
		phase := l.sections[name].Phase
		l.mu.Unlock()
		if phase != PhaseDetail {
			continue
		}
		name := name
		g.Go(func() error {
			// Section failures land in the error map; siblings keep going.
			l.fetchSection(gctx, name)
			return nil
		})
	}
	_ = g.Wait()
}

// RefreshBasic re-runs only the basic section.
func (l *Loader) RefreshBasic(ctx context.Context) {
	l.fetchSection(ctx, l.basic)
}

// RefreshAll re-runs the basic phase and the detail fan-out. Idempotent;
// concurrent calls race safely because stale completions are discarded.
func (l *Loader) RefreshAll(ctx context.Context) {
	l.Load(ctx)
}

// LoadSection triggers one section explicitly (the on-demand phase, or a
// single-section retry). Reports whether the fetch committed successfully.
func (l *Loader) LoadSection(ctx context.Context, name string) bool {
	return l.fetchSection(ctx, name)
}

// fetchSection wraps one fetch: loading true before, false after, error slot
// set on failure and cleared on success. The per-section sequence number
// makes the last issued fetch authoritative; completions of older fetches
// are dropped without touching state.
func (l *Loader) fetchSection(ctx context.Context, name string) bool {
	l.mu.Lock()
	st, ok := l.sections[name]
	if !ok || l.closed {
		l.mu.Unlock()
		return false
	}
	st.seq++
	seq := st.seq
	st.loading = true
	fetch := st.Fetch
	l.mu.Unlock()

	data, err := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || st.seq != seq {
		return false
	}
	st.loading = false
	if err != nil {
		st.err = err.Error()
		return false
	}
	st.err = ""
	st.data = data
	return true
}

// Data returns a section's current data (nil until it first resolves).
func (l *Loader) Data(name string) any {
	l.mu.Lock()
	defer l.mu.Unlock()
	if st, ok := l.sections[name]; ok {
		return st.data
	}
	return nil
}

// Set replaces a section's data locally, returning the previous value so
// optimistic updates can be rolled back.
func (l *Loader) Set(name string, data any) (prev any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.sections[name]
	if !ok || l.closed {
		return nil
	}
	prev = st.data
	st.data = data
	return prev
}

// Update applies fn to a section's data under the lock and returns the value
// fn replaced.
func (l *Loader) Update(name string, fn func(old any) any) (prev any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.sections[name]
	if !ok || l.closed {
		return nil
	}
	prev = st.data
	st.data = fn(st.data)
	return prev
}

// Close stops all future state writes. In-flight fetches finish their network
// call but their completions are discarded, so nothing updates a torn-down
// page.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

// Basic returns the basic section's name.
func (l *Loader) Basic() string { return l.basic }

// Snapshot is an immutable copy of the loader state handed to composition.
type Snapshot struct {
	Data            map[string]any    `json:"data"`
	Loading         map[string]bool   `json:"loading"`
	Errors          map[string]string `json:"errors"`
	LoadingAny      bool              `json:"loadingAny"`
	LoadingCritical bool              `json:"loadingCritical"`
}

func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap := Snapshot{
		Data:    make(map[string]any, len(l.sections)),
		Loading: make(map[string]bool, len(l.sections)),
		Errors:  make(map[string]string, len(l.sections)),
	}
	for name, st := range l.sections {
		snap.Data[name] = st.data
		snap.Loading[name] = st.loading
		snap.Errors[name] = st.err
		if st.loading {
			snap.LoadingAny = true
			if st.Critical {
				snap.LoadingCritical = true
			}
		}
	}
	return snap
}
