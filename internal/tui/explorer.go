// Package tui is the terminal frontend for the table explorer. The model
// owns an explore.State and a tabular.Table and re-renders whatever
// window Recompute hands back; all filter and paging semantics live in
// internal/explore.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gridlens-labs/gridlens/internal/explore"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

const (
	minColWidth = 6
	maxColWidth = 24
	// Lines around the grid: filter row, status bar, hint bar.
	chromeHeight = 4
	// Lines the grid spends on its own header row and border. SetHeight
	// budgets for them; Height() reports only the data viewport left over.
	gridHeaderHeight = 2
)

// Explorer is the bubbletea model. Keys: tab/shift-tab cycle the filter
// inputs, esc leaves filter mode, [ and ] (or left/right while no input
// is focused) page, ctrl+l clears every filter, q or ctrl+c quits.
type Explorer struct {
	tbl   *tabular.Table
	state *explore.State
	view  explore.View

	grid    table.Model
	filters []textinput.Model
	focused int // index into filters, -1 while browsing

	height int
	styles styles
}

// NewExplorer builds the model around tbl with the given page size.
func NewExplorer(tbl *tabular.Table, pageSize int) *Explorer {
	e := &Explorer{
		tbl:     tbl,
		state:   explore.NewState(pageSize),
		focused: -1,
		styles:  newStyles(),
	}

	cols := tbl.Columns()
	widths := columnWidths(tbl)
	gridCols := make([]table.Column, len(cols))
	e.filters = make([]textinput.Model, len(cols))
	for i, col := range cols {
		gridCols[i] = table.Column{Title: col, Width: widths[i]}
		ti := textinput.New()
		ti.Placeholder = "filter"
		ti.Prompt = ""
		ti.CharLimit = 64
		ti.Width = widths[i]
		e.filters[i] = ti
	}

	e.grid = table.New(table.WithColumns(gridCols), table.WithFocused(true), table.WithHeight(pageSize+gridHeaderHeight))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	e.grid.SetStyles(ts)

	e.recompute()
	return e
}

// Run drives the explorer to completion on the caller's terminal.
func Run(ctx context.Context, tbl *tabular.Table, pageSize int) error {
	p := tea.NewProgram(NewExplorer(tbl, pageSize), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (e *Explorer) Init() tea.Cmd {
	return textinput.Blink
}

func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.height = msg.Height
		h := msg.Height - chromeHeight
		if h < gridHeaderHeight+1 {
			// Keep one data row visible on tiny terminals.
			h = gridHeaderHeight + 1
		}
		e.grid.SetHeight(h)
		return e, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return e, tea.Quit
		case "ctrl+l":
			e.state.ClearFilters()
			for i := range e.filters {
				e.filters[i].SetValue("")
			}
			e.recompute()
			return e, nil
		case "tab":
			e.focusFilter(e.focused + 1)
			return e, textinput.Blink
		case "shift+tab":
			e.focusFilter(e.focused - 1)
			return e, textinput.Blink
		}
		if e.focused >= 0 {
			return e.updateFilter(msg)
		}
		return e.updateGrid(msg)
	}

	return e, nil
}

// updateFilter routes keys into the focused input and reapplies that
// column's pattern on every edit.
func (e *Explorer) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		e.blurFilter()
		return e, nil
	}
	var cmd tea.Cmd
	e.filters[e.focused], cmd = e.filters[e.focused].Update(msg)
	e.state.SetFilter(e.tbl.Columns()[e.focused], e.filters[e.focused].Value())
	e.recompute()
	return e, cmd
}

func (e *Explorer) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return e, tea.Quit
	case "[", "left":
		e.state.SetPage(e.view.Page - 1)
		e.recompute()
		return e, nil
	case "]", "right":
		e.state.SetPage(e.view.Page + 1)
		e.recompute()
		return e, nil
	}
	var cmd tea.Cmd
	e.grid, cmd = e.grid.Update(msg)
	return e, cmd
}

func (e *Explorer) focusFilter(i int) {
	if len(e.filters) == 0 {
		return
	}
	if e.focused >= 0 {
		e.filters[e.focused].Blur()
	}
	if i < 0 {
		i = len(e.filters) - 1
	}
	e.focused = i % len(e.filters)
	e.filters[e.focused].Focus()
}

func (e *Explorer) blurFilter() {
	if e.focused >= 0 {
		e.filters[e.focused].Blur()
	}
	e.focused = -1
}

// recompute is the single path from state to screen.
func (e *Explorer) recompute() {
	e.view = e.state.Recompute(e.tbl)
	rows := make([]table.Row, len(e.view.Rows))
	for i, rowIdx := range e.view.Rows {
		row := make(table.Row, e.tbl.Width())
		for c := 0; c < e.tbl.Width(); c++ {
			row[c] = e.tbl.ValueAt(rowIdx, c).String()
		}
		rows[i] = row
	}
	e.grid.SetRows(rows)
}

func (e *Explorer) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		e.filterRow(),
		e.grid.View(),
		e.styles.status.Render(e.statusLine()),
		e.styles.hint.Render("tab: filters  [/]: page  ctrl+l: clear  q: quit"),
	)
}

func (e *Explorer) filterRow() string {
	parts := make([]string, len(e.filters))
	for i, ti := range e.filters {
		label := e.styles.filterLabel.Render(e.tbl.Columns()[i])
		if i == e.focused {
			label = e.styles.filterFocused.Render(e.tbl.Columns()[i])
		}
		parts[i] = label + " " + ti.View()
	}
	return strings.Join(parts, "  ")
}

func (e *Explorer) statusLine() string {
	status := e.view.Status
	if len(e.state.Filters) > 0 {
		cols := make([]string, 0, len(e.state.Filters))
		for col, pat := range e.state.Filters {
			cols = append(cols, fmt.Sprintf("%s~%s", col, pat))
		}
		sort.Strings(cols)
		status += " | filters: " + strings.Join(cols, " ")
	}
	return status
}

// columnWidths sizes each column to its widest value, clamped so one
// long cell cannot push the rest off screen.
func columnWidths(tbl *tabular.Table) []int {
	widths := make([]int, tbl.Width())
	for i, col := range tbl.Columns() {
		w := len(col)
		if w < minColWidth {
			w = minColWidth
		}
		widths[i] = w
	}
	for row := 0; row < tbl.Len(); row++ {
		for i := range widths {
			if w := len(tbl.ValueAt(row, i).String()); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}
