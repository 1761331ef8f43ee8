package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec(` delay_bin = bin(row["DELAY"], [0, 15, 60]) `)
	require.NoError(t, err)
	assert.Equal(t, "delay_bin", spec.Name)
	assert.Equal(t, `bin(row["DELAY"], [0, 15, 60])`, spec.Expr)

	for _, bad := range []string{"", "noequals", "=expr", "name="} {
		_, err := ParseSpec(bad)
		assert.Error(t, err, "spec %q", bad)
	}
}

func TestApply_AppendsDerivedColumns(t *testing.T) {
	tbl := tabular.MustNew("SEASON", "DELAY")
	tbl.AppendRow(tabular.String("summer"), tabular.Number(5))
	tbl.AppendRow(tabular.String("winter"), tabular.Number(30))
	tbl.AppendRow(tabular.String("spring"), tabular.Null())

	out, err := Apply(tbl, []ColumnSpec{
		{Name: "delay_bin", Expr: `bin(row["DELAY"], [0, 15, 60])`},
		{Name: "season_uc", Expr: `upper(row["SEASON"])`},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"SEASON", "DELAY", "delay_bin", "season_uc"}, out.Columns())
	assert.Equal(t, "0-15", out.Value(0, "delay_bin").String())
	assert.Equal(t, "15-60", out.Value(1, "delay_bin").String())
	assert.True(t, out.Value(2, "delay_bin").IsNull(), "null delay stays null")
	assert.Equal(t, "WINTER", out.Value(1, "season_uc").String())

	assert.Equal(t, 2, tbl.Width(), "input table is not modified")
}

func TestApply_NoSpecsReturnsInput(t *testing.T) {
	tbl := tabular.MustNew("A")
	out, err := Apply(tbl, nil)
	require.NoError(t, err)
	assert.Same(t, tbl, out)
}

func TestApply_ArithmeticOnRowValues(t *testing.T) {
	tbl := tabular.MustNew("DELAY")
	tbl.AppendRow(tabular.Number(12.5))

	out, err := Apply(tbl, []ColumnSpec{{Name: "doubled", Expr: `row["DELAY"] * 2`}})
	require.NoError(t, err)

	f, ok := out.Value(0, "doubled").Float()
	require.True(t, ok)
	assert.Equal(t, 25.0, f)
}

func TestApply_BoolResultRendersAsString(t *testing.T) {
	tbl := tabular.MustNew("DELAY")
	tbl.AppendRow(tabular.Number(5))

	out, err := Apply(tbl, []ColumnSpec{{Name: "late", Expr: `row["DELAY"] > 1`}})
	require.NoError(t, err)
	assert.Equal(t, "true", out.Value(0, "late").String())
}

func TestApply_ErrorNamesColumnAndRow(t *testing.T) {
	tbl := tabular.MustNew("DELAY")
	tbl.AppendRow(tabular.Number(5))
	tbl.AppendRow(tabular.Null())

	_, err := Apply(tbl, []ColumnSpec{{Name: "late", Expr: `row["DELAY"] > 15`}})
	require.Error(t, err, "ordering None against a number fails")
	assert.Contains(t, err.Error(), "derive late: row 1")
}

func TestApply_CompileErrorNamesColumn(t *testing.T) {
	tbl := tabular.MustNew("DELAY")
	tbl.AppendRow(tabular.Number(5))

	_, err := Apply(tbl, []ColumnSpec{{Name: "broken", Expr: `bin(`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "derive broken")
}

func TestApply_ColumnCollision(t *testing.T) {
	tbl := tabular.MustNew("SEASON")
	tbl.AppendRow(tabular.String("summer"))

	_, err := Apply(tbl, []ColumnSpec{{Name: "SEASON", Expr: `1`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column already exists")
}
