package derive

import (
	"fmt"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
)

// builtins returns the predeclared environment derive expressions see.
// A fresh dict is built per Apply call because the row binding is added
// to it.
func builtins() starlark.StringDict {
	return starlark.StringDict{
		"bin":      starlark.NewBuiltin("bin", binFn),
		"coalesce": starlark.NewBuiltin("coalesce", coalesceFn),
		"num":      starlark.NewBuiltin("num", numFn),
		"str":      starlark.NewBuiltin("str", strFn),
		"lower":    starlark.NewBuiltin("lower", lowerFn),
		"upper":    starlark.NewBuiltin("upper", upperFn),
		"iif":      starlark.NewBuiltin("iif", iifFn),
	}
}

// binFn labels a numeric value by the half-open interval of edges it
// falls in: "lo-hi" for edges[i] <= x < edges[i+1], "<lo" below the
// first edge, ">=hi" at or above the last. None stays None.
func binFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	var edges starlark.Iterable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &edges); err != nil {
		return nil, err
	}
	if x == starlark.None {
		return starlark.None, nil
	}
	f, ok := starlark.AsFloat(x)
	if !ok {
		return nil, fmt.Errorf("bin: want number, got %s", x.Type())
	}

	var vals []float64
	iter := edges.Iterate()
	defer iter.Done()
	var ev starlark.Value
	for iter.Next(&ev) {
		e, ok := starlark.AsFloat(ev)
		if !ok {
			return nil, fmt.Errorf("bin: edge %d is not a number", len(vals))
		}
		vals = append(vals, e)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("bin: no edges")
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return nil, fmt.Errorf("bin: edges must be ascending")
		}
	}

	if f < vals[0] {
		return starlark.String("<" + formatEdge(vals[0])), nil
	}
	for i := 0; i+1 < len(vals); i++ {
		if f < vals[i+1] {
			return starlark.String(formatEdge(vals[i]) + "-" + formatEdge(vals[i+1])), nil
		}
	}
	return starlark.String(">=" + formatEdge(vals[len(vals)-1])), nil
}

func formatEdge(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// coalesceFn returns its first argument that is not None.
func coalesceFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("coalesce: unexpected keyword arguments")
	}
	for _, a := range args {
		if a != starlark.None {
			return a, nil
		}
	}
	return starlark.None, nil
}

// numFn coerces a value to a float. Strings parse with surrounding
// space and thousands separators stripped; anything unparseable
// becomes None rather than an error so dirty columns coerce row by
// row.
func numFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case starlark.Int, starlark.Float:
		f, _ := starlark.AsFloat(x)
		return starlark.Float(f), nil
	case starlark.String:
		s := strings.ReplaceAll(strings.TrimSpace(string(v)), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return starlark.None, nil
		}
		return starlark.Float(f), nil
	default:
		return starlark.None, nil
	}
}

// strFn stringifies a value the way table cells do: None becomes the
// empty string, numbers use the shortest round-tripping form.
func strFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case starlark.NoneType:
		return starlark.String(""), nil
	case starlark.String:
		return v, nil
	case starlark.Bool:
		return starlark.String(strconv.FormatBool(bool(v))), nil
	case starlark.Int, starlark.Float:
		f, _ := starlark.AsFloat(x)
		return starlark.String(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return starlark.String(x.String()), nil
	}
}

func lowerFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return mapString(b, args, kwargs, strings.ToLower)
}

func upperFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	return mapString(b, args, kwargs, strings.ToUpper)
}

func mapString(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, f func(string) string) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}
	if x == starlark.None {
		return starlark.None, nil
	}
	s, ok := starlark.AsString(x)
	if !ok {
		return nil, fmt.Errorf("%s: want string, got %s", b.Name(), x.Type())
	}
	return starlark.String(f(s)), nil
}

// iifFn picks between two values on a condition's truthiness.
func iifFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cond, a, alt starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &cond, &a, &alt); err != nil {
		return nil, err
	}
	if cond.Truth() {
		return a, nil
	}
	return alt, nil
}
