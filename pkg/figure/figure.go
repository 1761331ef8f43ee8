// Package figure defines render-agnostic figure configurations. Builders
// produce these values and renderers (HTML, JSON) consume them; nothing
// here knows how a figure is ultimately displayed.
package figure

import (
	"encoding/json"
	"fmt"
	"io"
)

// Metric labels for heatmap cell values.
const (
	MetricCount   = "COUNT"
	MetricPercent = "PERCENT"
)

// DefaultColorScale is used when the caller does not pick one.
const DefaultColorScale = "Cividis"

// DefaultPalette is the category color cycle shared by builders.
var DefaultPalette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

// Heatmap is a multi-panel cross-tabulation figure: one panel per group
// value, every panel sharing the same x/y axis values and ordering.
type Heatmap struct {
	GroupCol   string         `json:"groupCol"`
	XCol       string         `json:"xCol"`
	YCol       string         `json:"yCol"`
	XValues    []string       `json:"xValues"`
	YValues    []string       `json:"yValues"`
	Metric     string         `json:"metric"` // COUNT or PERCENT
	ColorScale string         `json:"colorScale"`
	Panels     []HeatmapPanel `json:"panels"`
}

// HeatmapPanel is one group's dense grid. Cells is indexed [y][x] following
// the parent's YValues/XValues order; a nil cell means "no data", which is
// distinct from zero. ZMin/ZMax span this panel's present cells only.
type HeatmapPanel struct {
	Group      string       `json:"group"`
	Title      string       `json:"title"`
	Cells      [][]*float64 `json:"cells"`
	ZMin       float64      `json:"zMin"`
	ZMax       float64      `json:"zMax"`
	Total      float64      `json:"total"`
	Normalized bool         `json:"normalized"`
}

// HoverTemplate returns the per-cell hover text template for the figure's
// metric, in plotly placeholder syntax.
func (h *Heatmap) HoverTemplate() string {
	if h.Metric == MetricPercent {
		return fmt.Sprintf("%s=%%{x}<br>%s=%%{y}<br>PERCENT=%%{z:.2f}%%", h.XCol, h.YCol)
	}
	return fmt.Sprintf("%s=%%{x}<br>%s=%%{y}<br>COUNT=%%{z:.0f}", h.XCol, h.YCol)
}

// Distribution is a faceted distribution figure: one facet per value
// column, overlaid per-category histograms with a marginal box plot.
// Facet x-axes are independent; only the category legend is shared.
type Distribution struct {
	CategoryCol string            `json:"categoryCol"`
	Categories  []string          `json:"categories"` // display order
	Colors      map[string]string `json:"colors"`
	Norm        string            `json:"norm"` // count, probability, percent, density
	Bins        int               `json:"bins"`
	Opacity     float64           `json:"opacity"`
	BarMode     string            `json:"barMode"`  // overlay
	Marginal    string            `json:"marginal"` // box; marginal axes render stripped
	Facets      []DistFacet       `json:"facets"`
}

// DistFacet is one value column's distribution panel. All series share
// BinEdges (len = bins+1); Series and Boxes follow the parent's category
// display order, with categories absent from the facet omitted.
type DistFacet struct {
	ValueCol string       `json:"valueCol"`
	BinEdges []float64    `json:"binEdges"`
	Series   []HistSeries `json:"series"`
	Boxes    []BoxStats   `json:"boxes"`
}

// HistSeries is one category's binned counts within a facet, already
// normalized per the figure's Norm mode.
type HistSeries struct {
	Category string    `json:"category"`
	Counts   []float64 `json:"counts"`
}

// BoxStats summarizes one category's values within a facet.
type BoxStats struct {
	Category string  `json:"category"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	N        int     `json:"n"`
}

// Color returns the category's configured color, falling back to the
// default palette cycle by display-order position.
func (d *Distribution) Color(category string) string {
	if c, ok := d.Colors[category]; ok {
		return c
	}
	for i, cat := range d.Categories {
		if cat == category {
			return DefaultPalette[i%len(DefaultPalette)]
		}
	}
	return DefaultPalette[0]
}

// WriteJSON writes any figure as indented JSON.
func WriteJSON(w io.Writer, fig any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fig); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return nil
}
