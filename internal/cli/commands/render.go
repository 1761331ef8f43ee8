package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderTabular writes tbl to w in the given output mode. Text mode uses
// a box-drawn go-pretty table, markdown a pipe table, JSON an array of
// row objects.
func renderTabular(w io.Writer, tbl *tabular.Table, mode output.OutputMode) error {
	switch mode {
	case output.ModeJSON:
		return renderTabularJSON(w, tbl)
	case output.ModeMarkdown:
		writePrettyTable(w, tbl, true)
		return nil
	default:
		writePrettyTable(w, tbl, false)
		return nil
	}
}

func writePrettyTable(w io.Writer, tbl *tabular.Table, markdown bool) {
	if tbl.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, tbl.Width())
	for i, col := range tbl.Columns() {
		header[i] = col
	}
	t.AppendHeader(header)

	for row := 0; row < tbl.Len(); row++ {
		r := make(table.Row, tbl.Width())
		for i := 0; i < tbl.Width(); i++ {
			r[i] = tbl.ValueAt(row, i).String()
		}
		t.AppendRow(r)
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	_, _ = fmt.Fprintf(w, "(%d rows)\n", tbl.Len())
}

func renderTabularJSON(w io.Writer, tbl *tabular.Table) error {
	cols := tbl.Columns()
	rows := make([]map[string]any, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		row := make(map[string]any, len(cols))
		for j, col := range cols {
			row[col] = cellJSON(tbl.ValueAt(i, j))
		}
		rows = append(rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func cellJSON(c tabular.Cell) any {
	switch {
	case c.IsNull():
		return nil
	case c.Kind() == tabular.KindNumber:
		f, _ := c.Float()
		return f
	default:
		return c.String()
	}
}

// pageTable copies the rows a view selected into a standalone table.
func pageTable(tbl *tabular.Table, rows []int) *tabular.Table {
	page := tabular.MustNew(tbl.Columns()...)
	for _, row := range rows {
		page.AppendRow(tbl.Row(row)...)
	}
	return page
}
