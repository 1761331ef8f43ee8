package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// evalCell runs one expression against a fixed single-row table:
// N null, D 12.5, S "Boston".
func evalCell(t *testing.T, expr string) tabular.Cell {
	t.Helper()
	tbl := tabular.MustNew("N", "D", "S")
	tbl.AppendRow(tabular.Null(), tabular.Number(12.5), tabular.String("Boston"))
	out, err := Apply(tbl, []ColumnSpec{{Name: "derived", Expr: expr}})
	require.NoError(t, err)
	return out.Value(0, "derived")
}

func evalErr(t *testing.T, expr string) error {
	t.Helper()
	tbl := tabular.MustNew("N", "D", "S")
	tbl.AppendRow(tabular.Null(), tabular.Number(12.5), tabular.String("Boston"))
	_, err := Apply(tbl, []ColumnSpec{{Name: "derived", Expr: expr}})
	require.Error(t, err)
	return err
}

func TestBin(t *testing.T) {
	cases := map[string]string{
		`bin(5, [0, 15, 60])`:     "0-15",
		`bin(15, [0, 15, 60])`:    "15-60",
		`bin(-1, [0, 15, 60])`:    "<0",
		`bin(60, [0, 15, 60])`:    ">=60",
		`bin(0.5, [0, 0.5, 1])`:   "0.5-1",
		`bin(row["D"], [0, 100])`: "0-100",
	}
	for expr, want := range cases {
		assert.Equal(t, want, evalCell(t, expr).String(), expr)
	}

	assert.True(t, evalCell(t, `bin(row["N"], [0, 1])`).IsNull(), "null in, null out")
}

func TestBin_Errors(t *testing.T) {
	assert.Contains(t, evalErr(t, `bin("x", [0, 1])`).Error(), "want number")
	assert.Contains(t, evalErr(t, `bin(1, [3, 2])`).Error(), "ascending")
	assert.Contains(t, evalErr(t, `bin(1, [])`).Error(), "no edges")
}

func TestCoalesce(t *testing.T) {
	f, ok := evalCell(t, `coalesce(row["N"], row["D"])`).Float()
	require.True(t, ok)
	assert.Equal(t, 12.5, f)

	assert.True(t, evalCell(t, `coalesce(row["N"], None)`).IsNull())
	assert.True(t, evalCell(t, `coalesce()`).IsNull())
	assert.Equal(t, "fallback", evalCell(t, `coalesce(row["N"], "fallback")`).String())
}

func TestNum(t *testing.T) {
	f, ok := evalCell(t, `num("1,234.5")`).Float()
	require.True(t, ok)
	assert.Equal(t, 1234.5, f, "thousands separators are stripped")

	f, ok = evalCell(t, `num(7)`).Float()
	require.True(t, ok)
	assert.Equal(t, 7.0, f)

	assert.True(t, evalCell(t, `num("(NA)")`).IsNull(), "unparseable coerces to null")
	assert.True(t, evalCell(t, `num(row["N"])`).IsNull())
}

func TestStr(t *testing.T) {
	got := evalCell(t, `str(row["N"])`)
	assert.Equal(t, tabular.KindString, got.Kind(), "null stringifies to an empty string cell")
	assert.Equal(t, "", got.String())

	assert.Equal(t, "12.5", evalCell(t, `str(row["D"])`).String())
	assert.Equal(t, "true", evalCell(t, `str(True)`).String())
}

func TestLowerUpper(t *testing.T) {
	assert.Equal(t, "boston", evalCell(t, `lower(row["S"])`).String())
	assert.Equal(t, "OK", evalCell(t, `upper("ok")`).String())
	assert.True(t, evalCell(t, `lower(row["N"])`).IsNull())
	assert.Contains(t, evalErr(t, `lower(5)`).Error(), "want string")
}

func TestIif(t *testing.T) {
	assert.Equal(t, "late", evalCell(t, `iif(row["D"] > 10, "late", "ontime")`).String())
	f, ok := evalCell(t, `iif(False, 1, 2)`).Float()
	require.True(t, ok)
	assert.Equal(t, 2.0, f)
}
