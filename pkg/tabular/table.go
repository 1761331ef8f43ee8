// Package tabular provides the in-memory record table shared by every
// gridlens component: an ordered set of named columns over rows of cells,
// where a cell is a string, a number, or null. Null is distinct from the
// empty string and from zero throughout.
package tabular

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies what a Cell holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
)

// Cell is a single table value. The zero Cell is null.
type Cell struct {
	kind Kind
	s    string
	f    float64
}

// Null returns the null cell.
func Null() Cell { return Cell{} }

// String returns a string cell.
func String(s string) Cell { return Cell{kind: KindString, s: s} }

// Number returns a numeric cell.
func Number(f float64) Cell { return Cell{kind: KindNumber, f: f} }

// Kind reports what the cell holds.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell is null.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Float returns the numeric value and whether the cell holds one.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.f, true
}

// String returns the stringified cell value. Null stringifies to the
// empty string; numbers use the shortest representation that round-trips.
func (c Cell) String() string {
	switch c.kind {
	case KindString:
		return c.s
	case KindNumber:
		return strconv.FormatFloat(c.f, 'f', -1, 64)
	default:
		return ""
	}
}

// Table is an ordered sequence of rows over named columns. Row and column
// order is insertion order; no operation reorders either.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty table with the given columns.
// Duplicate column names are an error.
func New(columns ...string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		index[col] = i
	}
	return &Table{
		columns: append([]string(nil), columns...),
		index:   index,
	}, nil
}

// MustNew is New for statically known column lists; it panics on error.
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the column names in order. The caller must not mutate it.
func (t *Table) Columns() []string { return t.columns }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// AppendRow adds a row. Short rows are padded with nulls; long rows are
// truncated to the table width.
func (t *Table) AppendRow(cells ...Cell) {
	row := make([]Cell, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Value returns the cell at (row, named column). Unknown columns and
// out-of-range rows return null.
func (t *Table) Value(row int, col string) Cell {
	i, ok := t.index[col]
	if !ok {
		return Cell{}
	}
	return t.ValueAt(row, i)
}

// ValueAt returns the cell at (row, column index).
func (t *Table) ValueAt(row, idx int) Cell {
	if row < 0 || row >= len(t.rows) || idx < 0 || idx >= len(t.columns) {
		return Cell{}
	}
	return t.rows[row][idx]
}

// Row returns the cells of one row. The caller must not mutate it.
func (t *Table) Row(row int) []Cell {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	return t.rows[row]
}

// DistinctValues returns the distinct non-null stringified values of the
// named column in first-observed order.
func (t *Table) DistinctValues(col string) []string {
	idx, ok := t.index[col]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.rows {
		c := row[idx]
		if c.IsNull() {
			continue
		}
		s := c.String()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Select returns a new table holding only the named columns, in the given
// order. Row order is preserved.
func (t *Table) Select(cols ...string) (*Table, error) {
	idxs := make([]int, len(cols))
	for i, col := range cols {
		idx, ok := t.index[col]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", col)
		}
		idxs[i] = idx
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		cells := make([]Cell, len(idxs))
		for i, idx := range idxs {
			cells[i] = row[idx]
		}
		out.AppendRow(cells...)
	}
	return out, nil
}

// Filter returns a new table with the same columns holding the rows for
// which pred returns true. Row order is preserved.
func (t *Table) Filter(pred func(row int) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for i := range t.rows {
		if pred(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// ColumnFloats returns the non-null numeric values of the named column, in
// row order. String cells that parse as numbers are included; other strings
// and nulls are skipped.
func (t *Table) ColumnFloats(col string) []float64 {
	idx, ok := t.index[col]
	if !ok {
		return nil
	}
	var out []float64
	for _, row := range t.rows {
		c := row[idx]
		switch c.kind {
		case KindNumber:
			out = append(out, c.f)
		case KindString:
			if f, err := strconv.ParseFloat(c.s, 64); err == nil {
				out = append(out, f)
			}
		}
	}
	return out
}

// Quantile returns the q-quantile (0 ≤ q ≤ 1) of values using linear
// interpolation between closest ranks. values need not be sorted.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
