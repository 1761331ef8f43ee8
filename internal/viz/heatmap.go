// Package viz builds figure configurations from record tables: grouped
// cross-tabulation heatmaps and faceted distribution plots. Builders are
// pure; rendering is the caller's concern.
package viz

import (
	"fmt"

	"github.com/gridlens-labs/gridlens/pkg/figure"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// HeatmapOptions selects the columns and metric for BuildHeatmap.
type HeatmapOptions struct {
	GroupCol   string
	XCol       string
	YCol       string
	Normalize  bool   // per-group percentage instead of raw counts
	ColorScale string // defaults to figure.DefaultColorScale
}

// BuildHeatmap cross-tabulates XCol against YCol per GroupCol value and
// returns one panel per group. Every panel shares the same x/y value sets
// and ordering, collected across the whole table, so panels are directly
// comparable. Cells never observed in a group stay "no data" (nil), which
// is distinct from an observed count of zero after normalization.
//
// With Normalize set, each panel's cells are rescaled to percentages of
// that panel's total. A group with a zero total keeps raw counts; the
// fallback is per panel, not global.
func BuildHeatmap(tbl *tabular.Table, opt HeatmapOptions) (*figure.Heatmap, error) {
	for _, col := range []string{opt.GroupCol, opt.XCol, opt.YCol} {
		if _, ok := tbl.Column(col); !ok {
			return nil, fmt.Errorf("unknown column %q", col)
		}
	}
	if tbl.Len() == 0 {
		return nil, fmt.Errorf("no rows to tabulate")
	}

	// One linear pass: counts keyed group -> y -> x, plus first-observed
	// orderings for the group set and the global axis unions.
	counts := make(map[string]map[string]map[string]float64)
	var groups, xVals, yVals []string
	seenGroup := make(map[string]struct{})
	seenX := make(map[string]struct{})
	seenY := make(map[string]struct{})

	for row := 0; row < tbl.Len(); row++ {
		g := tbl.Value(row, opt.GroupCol)
		x := tbl.Value(row, opt.XCol)
		y := tbl.Value(row, opt.YCol)
		if g.IsNull() || x.IsNull() || y.IsNull() {
			continue
		}
		gs, xs, ys := g.String(), x.String(), y.String()

		if _, ok := seenGroup[gs]; !ok {
			seenGroup[gs] = struct{}{}
			groups = append(groups, gs)
			counts[gs] = make(map[string]map[string]float64)
		}
		if _, ok := seenX[xs]; !ok {
			seenX[xs] = struct{}{}
			xVals = append(xVals, xs)
		}
		if _, ok := seenY[ys]; !ok {
			seenY[ys] = struct{}{}
			yVals = append(yVals, ys)
		}
		byY := counts[gs]
		if byY[ys] == nil {
			byY[ys] = make(map[string]float64)
		}
		byY[ys][xs]++
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("no rows with non-null %q, %q and %q", opt.GroupCol, opt.XCol, opt.YCol)
	}

	metric := figure.MetricCount
	if opt.Normalize {
		metric = figure.MetricPercent
	}
	colorScale := opt.ColorScale
	if colorScale == "" {
		colorScale = figure.DefaultColorScale
	}

	fig := &figure.Heatmap{
		GroupCol:   opt.GroupCol,
		XCol:       opt.XCol,
		YCol:       opt.YCol,
		XValues:    xVals,
		YValues:    yVals,
		Metric:     metric,
		ColorScale: colorScale,
		Panels:     make([]figure.HeatmapPanel, 0, len(groups)),
	}

	for _, g := range groups {
		fig.Panels = append(fig.Panels, buildPanel(g, counts[g], opt, xVals, yVals))
	}
	return fig, nil
}

func buildPanel(group string, byY map[string]map[string]float64, opt HeatmapOptions, xVals, yVals []string) figure.HeatmapPanel {
	cells := make([][]*float64, len(yVals))
	var total float64
	for yi, y := range yVals {
		cells[yi] = make([]*float64, len(xVals))
		for xi, x := range xVals {
			if n, ok := byY[y][x]; ok {
				v := n
				cells[yi][xi] = &v
				total += n
			}
		}
	}

	normalized := opt.Normalize && total > 0
	if normalized {
		for _, row := range cells {
			for _, cell := range row {
				if cell != nil {
					*cell = *cell / total * 100
				}
			}
		}
	}

	zMin, zMax, present := 0.0, 0.0, false
	for _, row := range cells {
		for _, cell := range row {
			if cell == nil {
				continue
			}
			if !present || *cell < zMin {
				zMin = *cell
			}
			if !present || *cell > zMax {
				zMax = *cell
			}
			present = true
		}
	}

	return figure.HeatmapPanel{
		Group:      group,
		Title:      fmt.Sprintf("%s=%s", opt.GroupCol, group),
		Cells:      cells,
		ZMin:       zMin,
		ZMax:       zMax,
		Total:      total,
		Normalized: normalized,
	}
}
