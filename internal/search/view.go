package search

import (
	"context"
	"sync"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/common/metrics"
)

// Gateway fetches profiles matching a criteria snapshot.
type Gateway interface {
	Search(ctx context.Context, c Criteria) ([]backend.Profile, error)
}

// View is one recruiter's search screen: a working criteria form, the last
// applied snapshot's results, and the column filters narrowing them.
// Editing criteria never fetches; only Apply does.
type View struct {
	gateway Gateway
	logger  logger.Logger

	mu       sync.Mutex
	criteria Criteria
	results  []backend.Profile
	filters  ColumnFilters
	loading  bool
	queryKey uint64
}

// NewView creates a search view with default criteria.
func NewView(gateway Gateway, log logger.Logger) *View {
	return &View{
		gateway:  gateway,
		logger:   log,
		criteria: NewCriteria(),
		filters:  ColumnFilters{},
	}
}

// Edit mutates the working criteria. Results stay as they are until the
// next Apply.
func (v *View) Edit(mutate func(*Criteria)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	mutate(&v.criteria)
}

// Criteria returns a copy of the working criteria.
func (v *View) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

// Loading reports whether a fetch is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Apply snapshots the working criteria and fetches. When several Applies
// overlap, only the latest one's answer lands; earlier answers are dropped
// on arrival. A failed fetch empties the results, matching a search that
// found nothing. Applying also resets the column filters, since their value
// sets belong to the previous result set.
func (v *View) Apply(ctx context.Context) error {
	v.mu.Lock()
	snapshot := v.criteria
	v.queryKey++
	key := v.queryKey
	v.loading = true
	v.mu.Unlock()

	rows, err := v.gateway.Search(ctx, snapshot)

	v.mu.Lock()
	defer v.mu.Unlock()

	if key != v.queryKey {
		// A newer Apply superseded this one while it was in flight.
		metrics.SearchFetches.WithLabelValues("stale").Inc()
		return nil
	}
	v.loading = false

	if err != nil {
		metrics.SearchFetches.WithLabelValues("error").Inc()
		v.logger.Error("profile search failed", map[string]interface{}{
			"error": err.Error(),
		})
		v.results = nil
		v.filters = ColumnFilters{}
		return err
	}

	metrics.SearchFetches.WithLabelValues("ok").Inc()
	v.results = rows
	v.filters = ColumnFilters{}
	return nil
}

// ClearGeneral resets the general criteria section without refetching; the
// current results stand until the next Apply.
func (v *View) ClearGeneral() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.ClearGeneral()
}

// Clear resets every criterion to its default and drops all column
// filters. No refetch happens until the next Apply.
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = NewCriteria()
	v.filters = ColumnFilters{}
}

// Results returns the applied snapshot's rows before column filtering.
func (v *View) Results() []backend.Profile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.results
}

// Rows returns the visible rows, column filters applied.
func (v *View) Rows() []backend.Profile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters.Apply(v.results)
}

// ColumnValues returns the filter options for one column, derived from the
// applied results.
func (v *View) ColumnValues(column string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return DistinctValues(v.results, column)
}

// SetColumnFilter applies a value selection to one column, tri-state rules
// included. No fetch happens.
func (v *View) SetColumnFilter(column string, selection []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters.Set(column, selection, v.results)
}

// ClearColumnFilter removes one column's filter.
func (v *View) ClearColumnFilter(column string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filters.Clear(column)
}

// ColumnFilter returns the applied value set for a column, nil when
// unfiltered.
func (v *View) ColumnFilter(column string) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filters[column]
}
