package echarts

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gridlens-labs/gridlens/pkg/figure"
)

// renderDistribution lays one histogram chart per facet onto a flex
// page, each followed by its marginal box strip when the figure asks
// for one. Category colors and series names are shared between the
// pair so the two read as one panel.
func renderDistribution(fig *figure.Distribution, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "gridlens distribution"
	page.SetLayout(components.PageFlexLayout)

	for _, facet := range fig.Facets {
		page.AddCharts(histChart(fig, facet))
		if fig.Marginal == "box" && len(facet.Boxes) > 0 {
			page.AddCharts(boxChart(fig, facet))
		}
	}
	return page.Render(w)
}

func histChart(fig *figure.Distribution, facet figure.DistFacet) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: facet.ValueCol}),
		charts.WithInitializationOpts(opts.Initialization{Width: "480px", Height: "360px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: facet.ValueCol}),
		charts.WithYAxisOpts(opts.YAxis{Name: fig.Norm}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(binLabels(facet.BinEdges))
	for _, s := range facet.Series {
		data := make([]opts.BarData, len(s.Counts))
		for i, c := range s.Counts {
			data[i] = opts.BarData{Value: c}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color:   fig.Color(s.Category),
				Opacity: float32(fig.Opacity),
			}),
		}
		if fig.BarMode == "overlay" {
			// Negative gap stacks the bars on the same slot instead of
			// side by side; translucency keeps the overlap readable.
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{BarGap: "-100%"}))
		}
		bar.AddSeries(s.Category, data, seriesOpts...)
	}
	return bar
}

// boxChart draws one series per category so each box carries the same
// name and color as its histogram. Every series spans all slots, with
// only its own slot holding stats, which keeps each box over its own
// position on the hidden category axis.
func boxChart(fig *figure.Distribution, facet figure.DistFacet) *charts.BoxPlot {
	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "480px", Height: "180px"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	cats := make([]string, len(facet.Boxes))
	for i, box := range facet.Boxes {
		cats[i] = box.Category
	}
	bp.SetXAxis(cats)

	for i, box := range facet.Boxes {
		data := make([]opts.BoxPlotData, len(facet.Boxes))
		for j := range data {
			data[j] = opts.BoxPlotData{Value: "-"}
		}
		data[i] = opts.BoxPlotData{
			Name:  box.Category,
			Value: []float64{box.Min, box.Q1, box.Median, box.Q3, box.Max},
		}
		bp.AddSeries(box.Category, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: fig.Color(box.Category)}))
	}
	return bp
}

func binLabels(edges []float64) []string {
	if len(edges) < 2 {
		return nil
	}
	labels := make([]string, len(edges)-1)
	for i := range labels {
		labels[i] = formatEdge(edges[i]) + "-" + formatEdge(edges[i+1])
	}
	return labels
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
