package viz

import (
	"fmt"
	"strconv"

	"github.com/gridlens-labs/gridlens/pkg/figure"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// NormMode selects how histogram counts are rescaled, per series.
type NormMode string

const (
	NormCount       NormMode = "count"
	NormProbability NormMode = "probability"
	NormPercent     NormMode = "percent"
	NormDensity     NormMode = "density"
)

// DefaultBins is the histogram bin count when the caller does not set one.
const DefaultBins = 50

// DistOptions configures BuildDistribution.
type DistOptions struct {
	CategoryCol   string
	ValueCols     []string
	Colors        map[string]string // category value -> color, optional
	Bins          int               // defaults to DefaultBins
	Norm          NormMode          // defaults to NormProbability
	CategoryOrder []string          // display order, optional
}

// BuildDistribution melts the value columns into one facet each and builds
// overlaid per-category histograms with marginal box stats. Facet x-ranges
// are independent: each facet bins over its own observed min/max. Only the
// category legend (order and colors) is shared across facets.
func BuildDistribution(tbl *tabular.Table, opt DistOptions) (*figure.Distribution, error) {
	if len(opt.ValueCols) == 0 {
		return nil, fmt.Errorf("no value columns given")
	}
	if _, ok := tbl.Column(opt.CategoryCol); !ok {
		return nil, fmt.Errorf("unknown column %q", opt.CategoryCol)
	}
	for _, col := range opt.ValueCols {
		if _, ok := tbl.Column(col); !ok {
			return nil, fmt.Errorf("unknown column %q", col)
		}
	}

	bins := opt.Bins
	if bins <= 0 {
		bins = DefaultBins
	}
	norm := opt.Norm
	if norm == "" {
		norm = NormProbability
	}
	switch norm {
	case NormCount, NormProbability, NormPercent, NormDensity:
	default:
		return nil, fmt.Errorf("unknown norm mode %q", norm)
	}

	categories := displayOrder(tbl.DistinctValues(opt.CategoryCol), opt.CategoryOrder)

	fig := &figure.Distribution{
		CategoryCol: opt.CategoryCol,
		Categories:  categories,
		Colors:      opt.Colors,
		Norm:        string(norm),
		Bins:        bins,
		Opacity:     0.5,
		BarMode:     "overlay",
		Marginal:    "box",
		Facets:      make([]figure.DistFacet, 0, len(opt.ValueCols)),
	}

	for _, col := range opt.ValueCols {
		fig.Facets = append(fig.Facets, buildFacet(tbl, opt.CategoryCol, col, categories, bins, norm))
	}
	return fig, nil
}

// displayOrder applies the requested category order: requested values that
// were observed come first in requested order, then remaining observed
// values in first-observed order. Requested values never observed are
// dropped.
func displayOrder(observed, requested []string) []string {
	if len(requested) == 0 {
		return observed
	}
	observedSet := make(map[string]struct{}, len(observed))
	for _, v := range observed {
		observedSet[v] = struct{}{}
	}
	used := make(map[string]struct{}, len(requested))
	var out []string
	for _, v := range requested {
		if _, ok := observedSet[v]; !ok {
			continue
		}
		if _, dup := used[v]; dup {
			continue
		}
		used[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range observed {
		if _, ok := used[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func buildFacet(tbl *tabular.Table, catCol, valCol string, categories []string, bins int, norm NormMode) figure.DistFacet {
	facet := figure.DistFacet{ValueCol: valCol}

	// Melt step for this facet: category -> observed numeric values.
	byCat := make(map[string][]float64, len(categories))
	var lo, hi float64
	var n int
	for row := 0; row < tbl.Len(); row++ {
		cat := tbl.Value(row, catCol)
		if cat.IsNull() {
			continue
		}
		v, ok := cellFloat(tbl.Value(row, valCol))
		if !ok {
			continue
		}
		cs := cat.String()
		byCat[cs] = append(byCat[cs], v)
		if n == 0 || v < lo {
			lo = v
		}
		if n == 0 || v > hi {
			hi = v
		}
		n++
	}
	if n == 0 {
		return facet
	}

	// Shared bin edges across the facet's categories. A degenerate range
	// (all values equal) widens so every value lands in a real bin.
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi
	facet.BinEdges = edges

	for _, cat := range categories {
		values := byCat[cat]
		if len(values) == 0 {
			continue
		}
		counts := make([]float64, bins)
		for _, v := range values {
			idx := int((v - lo) / width)
			if idx >= bins { // right edge of the last bin is inclusive
				idx = bins - 1
			}
			counts[idx]++
		}
		normalize(counts, float64(len(values)), width, norm)
		facet.Series = append(facet.Series, figure.HistSeries{Category: cat, Counts: counts})
		facet.Boxes = append(facet.Boxes, figure.BoxStats{
			Category: cat,
			Min:      tabular.Quantile(values, 0),
			Q1:       tabular.Quantile(values, 0.25),
			Median:   tabular.Quantile(values, 0.5),
			Q3:       tabular.Quantile(values, 0.75),
			Max:      tabular.Quantile(values, 1),
			N:        len(values),
		})
	}
	return facet
}

func normalize(counts []float64, total, width float64, norm NormMode) {
	switch norm {
	case NormProbability:
		for i := range counts {
			counts[i] /= total
		}
	case NormPercent:
		for i := range counts {
			counts[i] = counts[i] / total * 100
		}
	case NormDensity:
		for i := range counts {
			counts[i] /= width
		}
	}
}

func cellFloat(c tabular.Cell) (float64, bool) {
	if f, ok := c.Float(); ok {
		return f, true
	}
	if c.Kind() == tabular.KindString {
		if f, err := strconv.ParseFloat(c.String(), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
