package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

func renderFixture(t *testing.T) *tabular.Table {
	t.Helper()
	tbl := tabular.MustNew("CODE", "RATING")
	tbl.AppendRow(tabular.String("BOS"), tabular.Number(4.2))
	tbl.AppendRow(tabular.String("JFK"), tabular.Null())
	return tbl
}

func TestRenderTabular_Text(t *testing.T) {
	buf := new(bytes.Buffer)
	err := renderTabular(buf, renderFixture(t), output.ModeText)
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, "CODE")
	assert.Contains(t, got, "BOS")
	assert.Contains(t, got, "(2 rows)")
	// Box-drawing style, not a pipe table.
	assert.NotContains(t, got, "| CODE |")
}

func TestRenderTabular_Markdown(t *testing.T) {
	buf := new(bytes.Buffer)
	err := renderTabular(buf, renderFixture(t), output.ModeMarkdown)
	require.NoError(t, err)

	got := buf.String()
	assert.Contains(t, got, "| CODE | RATING |")
	assert.Contains(t, got, "| BOS | 4.2 |")
	assert.Contains(t, got, "(2 rows)")
}

func TestRenderTabular_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	err := renderTabular(buf, renderFixture(t), output.ModeJSON)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "BOS", rows[0]["CODE"])
	assert.Equal(t, 4.2, rows[0]["RATING"])
	assert.Nil(t, rows[1]["RATING"])
}

func TestRenderTabular_Empty(t *testing.T) {
	buf := new(bytes.Buffer)
	err := renderTabular(buf, tabular.MustNew("A"), output.ModeText)
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestPageTable(t *testing.T) {
	tbl := tabular.MustNew("N")
	for i := 0; i < 5; i++ {
		tbl.AppendRow(tabular.Number(float64(i)))
	}

	page := pageTable(tbl, []int{1, 3})
	require.Equal(t, 2, page.Len())
	assert.Equal(t, []string{"N"}, page.Columns())
	assert.Equal(t, "1", page.ValueAt(0, 0).String())
	assert.Equal(t, "3", page.ValueAt(1, 0).String())

	empty := pageTable(tbl, nil)
	assert.Equal(t, 0, empty.Len())
}

func TestCellJSON(t *testing.T) {
	assert.Nil(t, cellJSON(tabular.Null()))
	assert.Equal(t, 7.5, cellJSON(tabular.Number(7.5)))
	assert.Equal(t, "x", cellJSON(tabular.String("x")))
}
