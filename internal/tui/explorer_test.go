package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

func explorerFixture() *tabular.Table {
	tbl := tabular.MustNew("SEASON", "ORIGIN")
	tbl.AppendRow(tabular.String("summer"), tabular.String("BOS"))
	tbl.AppendRow(tabular.String("summer"), tabular.String("JFK"))
	tbl.AppendRow(tabular.String("winter"), tabular.String("BOS"))
	tbl.AppendRow(tabular.String("winter"), tabular.String("ORD"))
	tbl.AppendRow(tabular.String("spring"), tabular.String("BOS"))
	return tbl
}

func press(e *Explorer, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case "ctrl+l":
			msg = tea.KeyMsg{Type: tea.KeyCtrlL}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = e.Update(msg)
	}
	return cmd
}

func TestExplorer_PagingKeys(t *testing.T) {
	e := NewExplorer(explorerFixture(), 2)
	require.Equal(t, 1, e.view.Page)
	require.Equal(t, 3, e.view.TotalPages)
	require.Len(t, e.grid.Rows(), 2)

	press(e, "]")
	assert.Equal(t, 2, e.view.Page)
	press(e, "]")
	assert.Equal(t, 3, e.view.Page)
	assert.Len(t, e.grid.Rows(), 1, "last page holds the remainder")
	press(e, "]")
	assert.Equal(t, 3, e.view.Page, "paging past the end clamps")
	press(e, "[")
	assert.Equal(t, 2, e.view.Page)
}

func TestExplorer_FilterTyping(t *testing.T) {
	e := NewExplorer(explorerFixture(), 10)

	press(e, "tab") // focus SEASON filter
	require.Equal(t, 0, e.focused)
	press(e, "sum")

	assert.Equal(t, 2, e.view.FilteredCount)
	assert.Equal(t, "sum", e.filters[0].Value())
	assert.Contains(t, e.statusLine(), "Page 1/1 | 2 rows found")
	assert.Contains(t, e.statusLine(), "filters: SEASON~sum")

	press(e, "ctrl+l")
	assert.Equal(t, 5, e.view.FilteredCount)
	assert.Empty(t, e.filters[0].Value())
	assert.NotContains(t, e.statusLine(), "filters:")
}

func TestExplorer_FiltersAcrossColumnsAnd(t *testing.T) {
	e := NewExplorer(explorerFixture(), 10)

	press(e, "tab")
	press(e, "winter")
	press(e, "tab") // ORIGIN filter
	require.Equal(t, 1, e.focused)
	press(e, "bos")

	assert.Equal(t, 1, e.view.FilteredCount, "filters AND across columns")
}

func TestExplorer_TabCyclesFocus(t *testing.T) {
	e := NewExplorer(explorerFixture(), 10)
	require.Equal(t, -1, e.focused)

	press(e, "tab")
	assert.Equal(t, 0, e.focused)
	press(e, "tab")
	assert.Equal(t, 1, e.focused)
	press(e, "tab")
	assert.Equal(t, 0, e.focused, "tab wraps")
	press(e, "shift+tab")
	assert.Equal(t, 1, e.focused, "shift+tab wraps backwards")

	press(e, "esc")
	assert.Equal(t, -1, e.focused)
}

func TestExplorer_QuitKeys(t *testing.T) {
	e := NewExplorer(explorerFixture(), 10)

	cmd := press(e, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// While a filter is focused, q types instead of quitting; ctrl+c
	// still quits.
	e = NewExplorer(explorerFixture(), 10)
	press(e, "tab")
	press(e, "q")
	assert.Equal(t, "q", e.filters[0].Value())

	cmd = press(e, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestExplorer_WindowResize(t *testing.T) {
	e := NewExplorer(explorerFixture(), 10)
	e.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 30-chromeHeight-gridHeaderHeight, e.grid.Height(),
		"Height() reports the data viewport left after the grid's own header")

	e.Update(tea.WindowSizeMsg{Width: 100, Height: 5})
	assert.Equal(t, 1, e.grid.Height(), "tiny terminals keep one data row visible")
}

func TestExplorer_ViewRenders(t *testing.T) {
	e := NewExplorer(explorerFixture(), 2)
	out := e.View()

	assert.Contains(t, out, "SEASON")
	assert.Contains(t, out, "ORIGIN")
	assert.Contains(t, out, "Page 1/3 | 5 rows found")
}

func TestColumnWidths(t *testing.T) {
	tbl := tabular.MustNew("A", "LONG_HEADER_NAME_PAST_THE_CAP")
	tbl.AppendRow(tabular.String("x"), tabular.String("y"))
	w := columnWidths(tbl)

	assert.Equal(t, minColWidth, w[0], "narrow columns pad up to the floor")
	assert.Equal(t, maxColWidth, w[1], "wide columns clamp to the cap")
}
