package echarts

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gridlens-labs/gridlens/pkg/figure"
)

// renderHeatmap lays the figure's panels out on one flex page, one
// chart per group. Axis values and ordering are identical across
// panels; the visualmap range is each panel's own.
func renderHeatmap(fig *figure.Heatmap, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = "gridlens heatmap"
	page.SetLayout(components.PageFlexLayout)

	for _, panel := range fig.Panels {
		page.AddCharts(heatmapChart(fig, panel))
	}
	return page.Render(w)
}

func heatmapChart(fig *figure.Heatmap, panel figure.HeatmapPanel) *charts.HeatMap {
	hm := charts.NewHeatMap()

	zmin, zmax := panel.ZMin, panel.ZMax
	if zmin == zmax {
		// A zero-width visualmap range renders every cell the same;
		// widen it so the single value sits mid-scale.
		zmin, zmax = zmin-1, zmax+1
	}

	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: panel.Title}),
		charts.WithInitializationOpts(opts.Initialization{Width: "480px", Height: "420px"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Name:      fig.XCol,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Name:      fig.YCol,
			Data:      fig.YValues,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(zmin),
			Max:        float32(zmax),
			InRange:    &opts.VisualMapInRange{Color: colorRamp(fig.ColorScale)},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Formatter: opts.FuncOpts(heatmapTooltip(fig)),
		}),
	)

	hm.SetXAxis(fig.XValues).AddSeries(panel.Group, heatmapData(fig, panel))
	return hm
}

// heatmapData emits one item per present cell; nil cells stay absent so
// "no data" renders blank instead of as zero.
func heatmapData(fig *figure.Heatmap, panel figure.HeatmapPanel) []opts.HeatMapData {
	var data []opts.HeatMapData
	for yi, yv := range fig.YValues {
		for xi, xv := range fig.XValues {
			cell := panel.Cells[yi][xi]
			if cell == nil {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]any{xv, yv, *cell}})
		}
	}
	return data
}

func heatmapTooltip(fig *figure.Heatmap) string {
	value := strconv.Quote(fig.Metric+"=") + ` + (+p.value[2]).toFixed(0)`
	if fig.Metric == figure.MetricPercent {
		value = strconv.Quote(fig.Metric+"=") + ` + (+p.value[2]).toFixed(2) + "%"`
	}
	return `function (p) { return ` +
		strconv.Quote(fig.XCol+"=") + ` + p.value[0] + "<br>" + ` +
		strconv.Quote(fig.YCol+"=") + ` + p.value[1] + "<br>" + ` +
		value + `; }`
}

func colorRamp(name string) []string {
	if ramp, ok := colorRamps[strings.ToLower(name)]; ok {
		return ramp
	}
	return colorRamps["cividis"]
}
