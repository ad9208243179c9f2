package view

import "warehouse/internal/domain"

// ListPageView is the composed document of a list screen: one table section
// plus a stats panel, pagination, and the filter echo.
type ListPageView struct {
	CriticalError *CriticalPanel    `json:"criticalError,omitempty"`
	Items         []domain.Record   `json:"items,omitempty"`
	Pagination    domain.Pagination `json:"pagination"`
	Filters       domain.ListQuery  `json:"filters"`
	Loading       bool              `json:"loading"`
	Stats         *SectionView      `json:"stats,omitempty"`
}

// ComposeList mirrors Compose for collection pages. A list fetch error with
// no rows to fall back on short-circuits to the critical panel; with stale
// rows still in hand the page stays usable and carries no panel.
func ComposeList(items []domain.Record, p domain.Pagination, q domain.ListQuery, loading bool, errMsg, backRoute string, stats domain.Record, statsLoading bool, statsErr string) ListPageView {
	if errMsg != "" && len(items) == 0 {
		return ListPageView{CriticalError: &CriticalPanel{Message: errMsg, BackRoute: backRoute}}
	}

	page := ListPageView{
		Items:      items,
		Pagination: p,
		Filters:    q,
		Loading:    loading,
	}

	statsView := SectionView{Key: "Stats"}
	switch {
	case statsErr != "":
		statsView.State = StateError
		statsView.Error = statsErr
	case statsLoading || stats == nil:
		statsView.State = StateLoading
		statsView.Skeleton = "stat-cards"
	default:
		statsView.State = StateReady
		statsView.Content = stats
	}
	page.Stats = &statsView

	return page
}
