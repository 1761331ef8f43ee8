// Package explore holds the table explorer's filter and pagination state
// and the pure recompute step every frontend drives. Displays (terminal UI,
// console REPL) own a State, mutate it on user input, and re-render from
// the View that Recompute returns; nothing here knows how rows are drawn.
package explore

import (
	"fmt"
	"strings"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// State is one explorer instance's mutable state: per-column substring
// patterns, the current 1-indexed page, and a fixed page size.
type State struct {
	Filters  map[string]string
	Page     int
	PageSize int
}

// NewState returns the initial state: no filters, page 1.
func NewState(pageSize int) *State {
	if pageSize < 1 {
		pageSize = 1
	}
	return &State{
		Filters:  make(map[string]string),
		Page:     1,
		PageSize: pageSize,
	}
}

// SetFilter sets the pattern for a column. An empty pattern deactivates
// the filter. Patterns on columns the table does not have match nothing;
// SetFilter itself never fails so UI callers can wire it directly.
func (s *State) SetFilter(col, pattern string) {
	if pattern == "" {
		delete(s.Filters, col)
		return
	}
	s.Filters[col] = pattern
}

// ClearFilters removes every filter.
func (s *State) ClearFilters() {
	s.Filters = make(map[string]string)
}

// SetPage stores the requested page. It is clamped on the next Recompute,
// so callers may pass any value.
func (s *State) SetPage(n int) { s.Page = n }

// View is the result of one recompute: the row indices of the current page
// window (in table order), the pagination summary, and the status line.
type View struct {
	Rows          []int
	Page          int
	TotalPages    int
	FilteredCount int
	Status        string
}

// Recompute applies the active filters, reclamps the page, and slices the
// current window. Matching is a case-insensitive substring test against
// the stringified cell (null stringifies empty), ANDed across all active
// filters. An empty result is a valid view with one empty page, not an
// error. The clamped page is written back into the state.
func (s *State) Recompute(tbl *tabular.Table) View {
	active := make(map[int]string, len(s.Filters))
	unmatchable := false
	for col, pattern := range s.Filters {
		if pattern == "" {
			continue
		}
		idx, ok := tbl.Column(col)
		if !ok {
			unmatchable = true
			break
		}
		active[idx] = strings.ToLower(pattern)
	}

	var matched []int
	if !unmatchable {
		for row := 0; row < tbl.Len(); row++ {
			keep := true
			for idx, pattern := range active {
				if !strings.Contains(strings.ToLower(tbl.ValueAt(row, idx).String()), pattern) {
					keep = false
					break
				}
			}
			if keep {
				matched = append(matched, row)
			}
		}
	}

	totalPages := (len(matched) + s.PageSize - 1) / s.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := s.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	s.Page = page

	start := (page - 1) * s.PageSize
	end := start + s.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return View{
		Rows:          matched[start:end],
		Page:          page,
		TotalPages:    totalPages,
		FilteredCount: len(matched),
		Status:        fmt.Sprintf("Page %d/%d | %d rows found", page, totalPages, len(matched)),
	}
}
