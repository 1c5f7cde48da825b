// internal/search/view_test.go
package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	rows    []backend.Profile
	err     error
	byCall  map[int][]backend.Profile // per-call answers for overlap tests
	release map[int]chan struct{}     // when set, call N blocks until closed
}

func (g *fakeGateway) Search(ctx context.Context, c Criteria) ([]backend.Profile, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	release := g.release[call]
	rows := g.rows
	if byCall, ok := g.byCall[call]; ok {
		rows = byCall
	}
	err := g.err
	g.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return rows, err
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func sampleProfiles() []backend.Profile {
	return []backend.Profile{
		{ID: "p1", Name: "Asha Verma", Experience: "6", CTC: "14", Location: "Pune", CurrentDesignation: "Engineer", CurrentCompany: "TCS", Skills: []string{"go", "sql"}},
		{ID: "p2", Name: "Rohan Iyer", Experience: "3", CTC: "8", Location: "Mumbai", CurrentDesignation: "Analyst", CurrentCompany: "Infosys", Skills: []string{"excel"}},
		{ID: "p3", Name: "Meera Nair", Experience: "6", CTC: "12", Location: "Pune", CurrentDesignation: "Engineer", CurrentCompany: "Wipro", Skills: []string{"go"}},
	}
}

// ==========================
// View
// ==========================

func TestView_EditDoesNotFetch(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))

	v.Edit(func(c *Criteria) { c.Keyword = "golang" })
	v.Edit(func(c *Criteria) { c.Gender = "Female" })
	v.Edit(func(c *Criteria) { c.MinExp = "2" })

	assert.Equal(t, 0, gateway.callCount(), "editing criteria must not fetch")
	assert.Empty(t, v.Results())
}

func TestView_ApplyFetchesOnce(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))

	v.Edit(func(c *Criteria) { c.Keyword = "golang" })
	require.NoError(t, v.Apply(context.Background()))

	assert.Equal(t, 1, gateway.callCount())
	assert.Len(t, v.Results(), 3)
	assert.False(t, v.Loading())
}

func TestView_ApplyFailureEmptiesResults(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))
	require.Len(t, v.Results(), 3)

	gateway.err = errors.New("backend down")
	err := v.Apply(context.Background())
	require.Error(t, err)
	assert.Empty(t, v.Results(), "failed fetch reads as no matches")
}

func TestView_OverlappingAppliesLatestWins(t *testing.T) {
	firstRelease := make(chan struct{})
	gateway := &fakeGateway{
		byCall: map[int][]backend.Profile{
			1: {{ID: "stale", Name: "Stale Row"}},
			2: sampleProfiles(),
		},
		release: map[int]chan struct{}{1: firstRelease},
	}
	v := NewView(gateway, logger.NewTestLogger(t))

	firstDone := make(chan error, 1)
	go func() { firstDone <- v.Apply(context.Background()) }()

	// Wait for the first fetch to be in flight, then apply again.
	for gateway.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, v.Apply(context.Background()))
	require.Len(t, v.Results(), 3)

	// The first fetch lands late; its rows must not replace the newer ones.
	close(firstRelease)
	assert.NoError(t, <-firstDone)
	rows := v.Results()
	require.Len(t, rows, 3)
	assert.NotEqual(t, "stale", rows[0].ID)
}

func TestView_ClearGeneralDoesNotFetch(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))

	v.Edit(func(c *Criteria) {
		c.Department = "Engineering"
		c.Countries = []string{"India"}
		c.KeySkill = "go"
		c.Keyword = "golang"
	})
	require.NoError(t, v.Apply(context.Background()))
	require.Equal(t, 1, gateway.callCount())

	v.ClearGeneral()

	assert.Equal(t, 1, gateway.callCount(), "clear must not refetch")
	assert.Len(t, v.Results(), 3, "results stand until the next Apply")

	c := v.Criteria()
	assert.Empty(t, c.Department)
	assert.Empty(t, c.Countries)
	assert.Empty(t, c.KeySkill)
	assert.Equal(t, "optional", c.BasicRequirement)
	assert.Equal(t, "golang", c.Keyword, "keyword is not part of the general section")
}

func TestView_ClearResetsEverything(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))

	v.Edit(func(c *Criteria) {
		c.Keyword = "golang"
		c.Department = "Engineering"
	})
	require.NoError(t, v.Apply(context.Background()))
	v.SetColumnFilter(ColumnLocation, []string{"Pune"})
	require.Len(t, v.Rows(), 2)

	v.Clear()

	assert.Equal(t, 1, gateway.callCount(), "clear must not refetch")
	c := v.Criteria()
	assert.Empty(t, c.Keyword)
	assert.Empty(t, c.Department)
	assert.Equal(t, ModeGeneral, c.Mode)
	assert.Len(t, v.Rows(), 3, "column filters are dropped")
}

// ==========================
// Column filters
// ==========================

func TestView_ColumnFilterNarrowsRows(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))

	v.SetColumnFilter(ColumnLocation, []string{"Pune"})

	rows := v.Rows()
	require.Len(t, rows, 2)
	for _, p := range rows {
		assert.Equal(t, "Pune", p.Location)
	}
	assert.Len(t, v.Results(), 3, "filtering never touches the fetched rows")
	assert.Equal(t, 1, gateway.callCount(), "filtering never fetches")
}

func TestView_ColumnFiltersCombineAcrossColumns(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))

	v.SetColumnFilter(ColumnLocation, []string{"Pune"})
	v.SetColumnFilter(ColumnCurrentCompany, []string{"TCS"})

	rows := v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0].ID)
}

func TestView_ColumnFilterTriState(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))

	// Empty selection deletes the filter.
	v.SetColumnFilter(ColumnLocation, []string{"Pune"})
	v.SetColumnFilter(ColumnLocation, nil)
	assert.Nil(t, v.ColumnFilter(ColumnLocation))
	assert.Len(t, v.Rows(), 3)

	// Selecting every distinct value also deletes it.
	v.SetColumnFilter(ColumnLocation, []string{"Mumbai", "Pune"})
	assert.Nil(t, v.ColumnFilter(ColumnLocation))
	assert.Len(t, v.Rows(), 3)

	// A proper subset sticks.
	v.SetColumnFilter(ColumnLocation, []string{"Mumbai"})
	assert.Equal(t, []string{"Mumbai"}, v.ColumnFilter(ColumnLocation))
	assert.Len(t, v.Rows(), 1)
}

func TestView_ColumnFilterDuplicateSelection(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))

	// Two distinct locations exist; a duplicated single value is still a
	// real filter and stores deduplicated.
	v.SetColumnFilter(ColumnLocation, []string{"Pune", "Pune"})
	assert.Equal(t, []string{"Pune"}, v.ColumnFilter(ColumnLocation))
	assert.Len(t, v.Rows(), 2)

	// Every distinct value plus a repeat still clears the filter.
	v.SetColumnFilter(ColumnLocation, []string{"Mumbai", "Pune", "Pune"})
	assert.Nil(t, v.ColumnFilter(ColumnLocation))
	assert.Len(t, v.Rows(), 3)
}

func TestView_ColumnValuesDistinctSorted(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))

	assert.Equal(t, []string{"Mumbai", "Pune"}, v.ColumnValues(ColumnLocation))
	assert.Equal(t, []string{"Infosys", "TCS", "Wipro"}, v.ColumnValues(ColumnCurrentCompany))
	assert.Equal(t, []string{"3", "6"}, v.ColumnValues(ColumnExperience))
}

func TestView_ApplyResetsColumnFilters(t *testing.T) {
	gateway := &fakeGateway{rows: sampleProfiles()}
	v := NewView(gateway, logger.NewTestLogger(t))
	require.NoError(t, v.Apply(context.Background()))

	v.SetColumnFilter(ColumnLocation, []string{"Pune"})
	require.Len(t, v.Rows(), 2)

	require.NoError(t, v.Apply(context.Background()))
	assert.Nil(t, v.ColumnFilter(ColumnLocation), "filters belong to the previous result set")
	assert.Len(t, v.Rows(), 3)
}

func TestColumnText_UnknownColumn(t *testing.T) {
	assert.Equal(t, "", ColumnText(backend.Profile{Name: "x"}, "email"))
}
