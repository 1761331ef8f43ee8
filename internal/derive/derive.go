// Package derive adds computed columns to record tables by evaluating
// Starlark expressions once per row. Its main use is pre-binning
// continuous columns before a table reaches the heatmap builder, which
// treats axes as categorical.
package derive

import (
	"fmt"
	"strconv"
	"strings"

	"go.starlark.net/starlark"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// ColumnSpec names one derived column and the expression producing it.
type ColumnSpec struct {
	Name string
	Expr string
}

// ParseSpec parses a "name=expr" specification as passed on the command
// line.
func ParseSpec(s string) (ColumnSpec, error) {
	name, expr, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	expr = strings.TrimSpace(expr)
	if !ok || name == "" || expr == "" {
		return ColumnSpec{}, fmt.Errorf("invalid derive spec %q, want name=expr", s)
	}
	return ColumnSpec{Name: name, Expr: expr}, nil
}

// Apply evaluates every spec against every row and returns a new table
// with the derived columns appended after the original ones. The input
// table is not modified. Each expression is compiled once and sees a
// "row" dict keyed by column name, with null cells as None and numbers
// as floats, plus the builtins bin, coalesce, num, str, lower, upper
// and iif.
func Apply(tbl *tabular.Table, specs []ColumnSpec) (*tabular.Table, error) {
	if len(specs) == 0 {
		return tbl, nil
	}

	cols := tbl.Columns()
	outCols := make([]string, 0, len(cols)+len(specs))
	outCols = append(outCols, cols...)
	for _, spec := range specs {
		if _, ok := tbl.Column(spec.Name); ok {
			return nil, fmt.Errorf("derive %s: column already exists", spec.Name)
		}
		outCols = append(outCols, spec.Name)
	}
	out, err := tabular.New(outCols...)
	if err != nil {
		return nil, err
	}

	// The expressions close over one shared row dict; refilling it
	// between rows is what makes compile-once work.
	row := starlark.NewDict(len(cols))
	env := builtins()
	env["row"] = row

	fns := make([]*starlark.Function, len(specs))
	for i, spec := range specs {
		fn, err := starlark.ExprFunc(spec.Name, spec.Expr, env) //nolint:staticcheck // SA1019: will migrate to ExprFuncOptions later
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", spec.Name, err)
		}
		fns[i] = fn
	}

	thread := threads.get("derive")
	defer threads.put(thread)

	for r := 0; r < tbl.Len(); r++ {
		row.Clear()
		for _, col := range cols {
			_ = row.SetKey(starlark.String(col), cellValue(tbl.Value(r, col)))
		}
		cells := append([]tabular.Cell(nil), tbl.Row(r)...)
		for i, fn := range fns {
			v, err := starlark.Call(thread, fn, nil, nil)
			if err != nil {
				return nil, fmt.Errorf("derive %s: row %d: %w", specs[i].Name, r, err)
			}
			cell, err := toCell(v)
			if err != nil {
				return nil, fmt.Errorf("derive %s: row %d: %w", specs[i].Name, r, err)
			}
			cells = append(cells, cell)
		}
		out.AppendRow(cells...)
	}
	return out, nil
}

func cellValue(c tabular.Cell) starlark.Value {
	switch c.Kind() {
	case tabular.KindNumber:
		f, _ := c.Float()
		return starlark.Float(f)
	case tabular.KindString:
		return starlark.String(c.String())
	default:
		return starlark.None
	}
}

func toCell(v starlark.Value) (tabular.Cell, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return tabular.Null(), nil
	case starlark.String:
		return tabular.String(string(val)), nil
	case starlark.Float:
		return tabular.Number(float64(val)), nil
	case starlark.Int:
		f, _ := starlark.AsFloat(val)
		return tabular.Number(f), nil
	case starlark.Bool:
		return tabular.String(strconv.FormatBool(bool(val))), nil
	default:
		return tabular.Cell{}, fmt.Errorf("unsupported result type %s", v.Type())
	}
}
