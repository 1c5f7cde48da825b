package search

import (
	"sort"
	"strings"

	"recruitment-intake/internal/backend"
)

// Filterable result-table columns.
const (
	ColumnName               = "name"
	ColumnExperience         = "experience"
	ColumnCTC                = "ctc"
	ColumnLocation           = "location"
	ColumnCurrentDesignation = "current_designation"
	ColumnCurrentCompany     = "current_company"
)

// Columns lists the filterable columns in display order.
var Columns = []string{
	ColumnName,
	ColumnExperience,
	ColumnCTC,
	ColumnLocation,
	ColumnCurrentDesignation,
	ColumnCurrentCompany,
}

// ColumnText extracts the filterable text of one column from a profile.
// Unknown columns yield "".
func ColumnText(p backend.Profile, column string) string {
	switch column {
	case ColumnName:
		return p.Name
	case ColumnExperience:
		return p.Experience
	case ColumnCTC:
		return p.CTC
	case ColumnLocation:
		return p.Location
	case ColumnCurrentDesignation:
		return p.CurrentDesignation
	case ColumnCurrentCompany:
		return p.CurrentCompany
	default:
		return ""
	}
}

// DistinctValues returns the sorted distinct non-empty values of one column
// across the given rows. These are the checkbox options a column filter
// offers.
func DistinctValues(rows []backend.Profile, column string) []string {
	set := make(map[string]struct{})
	for _, p := range rows {
		v := strings.TrimSpace(ColumnText(p, column))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// ColumnFilters maps a column to the set of values kept. A column absent
// from the map is unfiltered.
type ColumnFilters map[string][]string

// Active reports whether any column has a non-empty value set applied.
func (f ColumnFilters) Active() bool {
	for _, values := range f {
		if len(values) > 0 {
			return true
		}
	}
	return false
}

// Match reports whether a profile passes every applied column filter.
func (f ColumnFilters) Match(p backend.Profile) bool {
	for column, values := range f {
		if len(values) == 0 {
			continue
		}
		v := ColumnText(p, column)
		found := false
		for _, keep := range values {
			if keep == v {
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

// Apply narrows rows to those passing every filter. With no active filter
// the input slice comes back untouched.
func (f ColumnFilters) Apply(rows []backend.Profile) []backend.Profile {
	if !f.Active() {
		return rows
	}
	kept := make([]backend.Profile, 0, len(rows))
	for _, p := range rows {
		if f.Match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Set applies a value selection to one column with the tri-state rule: an
// empty selection or a selection covering every distinct value removes the
// filter instead of storing it. The selection is deduplicated first so
// repeated values cannot fake full coverage.
func (f ColumnFilters) Set(column string, selection []string, rows []backend.Profile) {
	seen := make(map[string]struct{}, len(selection))
	deduped := make([]string, 0, len(selection))
	for _, v := range selection {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		deduped = append(deduped, v)
	}

	if len(deduped) == 0 || coversAll(seen, DistinctValues(rows, column)) {
		delete(f, column)
		return
	}
	f[column] = deduped
}

func coversAll(selected map[string]struct{}, all []string) bool {
	if len(all) == 0 {
		return false
	}
	for _, v := range all {
		if _, ok := selected[v]; !ok {
			return false
		}
	}
	return true
}

// Clear removes the filter on one column.
func (f ColumnFilters) Clear(column string) {
	delete(f, column)
}
