package search

import (
	"context"
	"strings"
	"sync"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/common/logger"
)

// StageLister fetches the candidates parked at one hiring stage of a job.
type StageLister interface {
	StageProfiles(ctx context.Context, jobID, token string) ([]backend.Profile, error)
}

// QuickFilters are the stage sheet's free-text narrowings, applied on top
// of the column filters.
type QuickFilters struct {
	Text     string
	Location string
	Skill    string
}

// StageSheet is one recruiter's per-stage candidate table.
type StageSheet struct {
	lister StageLister
	logger logger.Logger
	jobID  string

	mu       sync.Mutex
	profiles []backend.Profile
	quick    QuickFilters
	filters  ColumnFilters
}

// NewStageSheet creates a stage sheet for one job.
func NewStageSheet(lister StageLister, jobID string, log logger.Logger) *StageSheet {
	return &StageSheet{
		lister:  lister,
		logger:  log,
		jobID:   jobID,
		filters: ColumnFilters{},
	}
}

// Refresh reloads the stage's candidates. Filters survive a refresh; a
// column filter naming values the new rows lack simply matches nothing for
// them.
func (s *StageSheet) Refresh(ctx context.Context, token string) error {
	rows, err := s.lister.StageProfiles(ctx, s.jobID, token)
	if err != nil {
		s.logger.Error("stage sheet load failed", map[string]interface{}{
			"jobId": s.jobID,
			"error": err.Error(),
		})
		return err
	}

	s.mu.Lock()
	s.profiles = rows
	s.mu.Unlock()
	return nil
}

// SetQuickFilters replaces the free-text narrowings.
func (s *StageSheet) SetQuickFilters(q QuickFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quick = q
}

// SetColumnFilter applies a value selection to one column, same tri-state
// rules as the search view.
func (s *StageSheet) SetColumnFilter(column string, selection []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Set(column, selection, s.profiles)
}

// ClearColumnFilter removes one column's filter.
func (s *StageSheet) ClearColumnFilter(column string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Clear(column)
}

// ColumnValues returns the filter options for one column.
func (s *StageSheet) ColumnValues(column string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DistinctValues(s.profiles, column)
}

// Profiles returns the unfiltered candidate rows.
func (s *StageSheet) Profiles() []backend.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles
}

// Rows returns the visible candidates: quick filters first, then column
// filters.
func (s *StageSheet) Rows() []backend.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.profiles
	if needle := strings.ToLower(strings.TrimSpace(s.quick.Text)); needle != "" {
		rows = filterProfiles(rows, func(p backend.Profile) bool {
			return strings.Contains(strings.ToLower(p.Name), needle)
		})
	}
	if loc := strings.ToLower(strings.TrimSpace(s.quick.Location)); loc != "" {
		rows = filterProfiles(rows, func(p backend.Profile) bool {
			return strings.Contains(strings.ToLower(p.Location), loc)
		})
	}
	if skill := strings.ToLower(strings.TrimSpace(s.quick.Skill)); skill != "" {
		rows = filterProfiles(rows, func(p backend.Profile) bool {
			return strings.Contains(strings.ToLower(strings.Join(p.Skills, " ")), skill)
		})
	}
	return s.filters.Apply(rows)
}

func filterProfiles(rows []backend.Profile, keep func(backend.Profile) bool) []backend.Profile {
	out := make([]backend.Profile, 0, len(rows))
	for _, p := range rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
