package explore

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

func exploreFixture(t *testing.T, n int) *tabular.Table {
	t.Helper()
	tbl := tabular.MustNew("code", "city")
	for i := 0; i < n; i++ {
		city := "Aberdeen"
		if i%3 == 0 {
			city = "Boston"
		}
		tbl.AppendRow(tabular.String(fmt.Sprintf("APT%02d", i)), tabular.String(city))
	}
	return tbl
}

func TestRecompute_EndToEnd(t *testing.T) {
	tbl := exploreFixture(t, 45)
	s := NewState(20)

	v := s.Recompute(tbl)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, 45, v.FilteredCount)
	assert.Len(t, v.Rows, 20)
	assert.Equal(t, 0, v.Rows[0])
	assert.Equal(t, 19, v.Rows[19])
	assert.Equal(t, "Page 1/3 | 45 rows found", v.Status)

	s.SetPage(3)
	v = s.Recompute(tbl)
	assert.Len(t, v.Rows, 5)
	assert.Equal(t, "Page 3/3 | 45 rows found", v.Status)

	// A filter shrinking the result clamps the page back down.
	s.SetFilter("code", "apt0")
	v = s.Recompute(tbl)
	assert.Equal(t, 10, v.FilteredCount, "APT00..APT09 match case-insensitively")
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 1, s.Page, "clamped page persists in state")
	assert.Equal(t, "Page 1/1 | 10 rows found", v.Status)
}

func TestRecompute_FiltersAreANDed(t *testing.T) {
	tbl := exploreFixture(t, 45)
	s := NewState(20)

	s.SetFilter("city", "boston")
	first := s.Recompute(tbl).FilteredCount

	s.SetFilter("code", "APT0")
	second := s.Recompute(tbl).FilteredCount
	assert.LessOrEqual(t, second, first, "adding a filter never grows the result")

	s.SetFilter("code", "")
	assert.NotContains(t, s.Filters, "code", "empty pattern deactivates the filter")
	assert.Equal(t, first, s.Recompute(tbl).FilteredCount)
}

func TestRecompute_EmptyResultIsNotAnError(t *testing.T) {
	tbl := exploreFixture(t, 10)
	s := NewState(5)
	s.SetFilter("city", "no such city")

	v := s.Recompute(tbl)
	assert.Empty(t, v.Rows)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, "Page 1/1 | 0 rows found", v.Status)
}

func TestRecompute_UnknownFilterColumnMatchesNothing(t *testing.T) {
	tbl := exploreFixture(t, 10)
	s := NewState(5)
	s.SetFilter("ghost", "x")

	v := s.Recompute(tbl)
	assert.Equal(t, 0, v.FilteredCount)
}

func TestRecompute_NullMatchesOnlyEmptyPatternlessFilters(t *testing.T) {
	tbl := tabular.MustNew("a")
	tbl.AppendRow(tabular.Null())
	tbl.AppendRow(tabular.String("value"))

	s := NewState(10)
	s.SetFilter("a", "val")
	v := s.Recompute(tbl)
	require.Equal(t, 1, v.FilteredCount)
	assert.Equal(t, []int{1}, v.Rows, "null stringifies empty and cannot contain a pattern")
}

func TestRecompute_PageClampBounds(t *testing.T) {
	tbl := exploreFixture(t, 7)
	s := NewState(3)

	for _, page := range []int{-5, 0, 1, 2, 3, 4, 99} {
		s.SetPage(page)
		v := s.Recompute(tbl)
		assert.GreaterOrEqual(t, v.Page, 1)
		assert.LessOrEqual(t, v.Page, v.TotalPages)
		assert.Equal(t, 3, v.TotalPages)
	}
}

func TestNewState_PageSizeFloor(t *testing.T) {
	s := NewState(0)
	assert.Equal(t, 1, s.PageSize)
}
