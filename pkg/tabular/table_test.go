package tabular

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New("a", "b", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate column "a"`)
}

func TestTable_AppendRow_PadsAndTruncates(t *testing.T) {
	tbl := MustNew("a", "b", "c")

	tbl.AppendRow(String("x"))
	tbl.AppendRow(String("1"), String("2"), String("3"), String("dropped"))

	require.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Value(0, "b").IsNull())
	assert.True(t, tbl.Value(0, "c").IsNull())
	assert.Equal(t, "3", tbl.Value(1, "c").String())
}

func TestCell_NullDistinctFromZeroAndEmpty(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.False(t, Number(0).IsNull())
	assert.False(t, String("").IsNull())

	// Null stringifies to "" but remains distinguishable by kind.
	assert.Equal(t, "", Null().String())
	assert.Equal(t, KindString, String("").Kind())
	assert.Equal(t, KindNull, Null().Kind())
}

func TestCell_StringFormatsNumbers(t *testing.T) {
	assert.Equal(t, "3.5", Number(3.5).String())
	assert.Equal(t, "42", Number(42).String())
}

func TestTable_DistinctValues_FirstObservedOrder(t *testing.T) {
	tbl := MustNew("grp")
	for _, v := range []string{"b", "a", "b", "c", "a"} {
		tbl.AppendRow(String(v))
	}
	tbl.AppendRow(Null())

	assert.Equal(t, []string{"b", "a", "c"}, tbl.DistinctValues("grp"))
	assert.Nil(t, tbl.DistinctValues("missing"))
}

func TestTable_Select(t *testing.T) {
	tbl := MustNew("a", "b", "c")
	tbl.AppendRow(String("1"), String("2"), String("3"))

	sub, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sub.Columns())
	assert.Equal(t, "3", sub.Value(0, "c").String())
	assert.Equal(t, "1", sub.Value(0, "a").String())

	_, err = tbl.Select("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "nope"`)
}

func TestTable_Filter(t *testing.T) {
	tbl := MustNew("n")
	for i := 0; i < 10; i++ {
		tbl.AppendRow(Number(float64(i)))
	}

	even := tbl.Filter(func(row int) bool {
		f, _ := tbl.Value(row, "n").Float()
		return int(f)%2 == 0
	})
	assert.Equal(t, 5, even.Len())
	assert.Equal(t, 10, tbl.Len(), "source table unchanged")
}

func TestTable_ColumnFloats(t *testing.T) {
	tbl := MustNew("v")
	tbl.AppendRow(Number(1.5))
	tbl.AppendRow(String("2.5"))
	tbl.AppendRow(String("not a number"))
	tbl.AppendRow(Null())

	assert.Equal(t, []float64{1.5, 2.5}, tbl.ColumnFloats("v"))
}

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 4.0, Quantile(values, 1))
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-9)
	assert.InDelta(t, 1.75, Quantile(values, 0.25), 1e-9)

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	// Input order must not matter and the slice must not be mutated.
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}
