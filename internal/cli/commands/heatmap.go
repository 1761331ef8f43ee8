package commands

import (
	"fmt"

	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/viz"
	"github.com/spf13/cobra"
)

// HeatmapOptions holds options for the heatmap command.
type HeatmapOptions struct {
	Group      string
	X          string
	Y          string
	Normalize  bool
	ColorScale string
	Derive     []string
	Format     string
	Out        string
}

// NewHeatmapCommand creates the heatmap command.
func NewHeatmapCommand() *cobra.Command {
	opts := &HeatmapOptions{}

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Render a grouped cross-tabulation heatmap",
		Long: `Cross-tabulate two columns per group value and render one heatmap
panel per group.

All panels share the same x and y value sets, collected across the whole
table, so they are directly comparable. Cells a group never produced stay
blank; with --normalize each panel shows percentages of its own total.`,
		Example: `  # Count MONTH x ORIGIN cells per SEASON from a CSV file
  gridlens heatmap --driver csv --path flights.csv --group SEASON --x MONTH --y ORIGIN

  # Percentages per panel, written as standalone figure JSON
  gridlens heatmap --driver sqlite --path flights.db --query "SELECT * FROM flights" \
    --group SEASON --x MONTH --y ORIGIN --normalize --format json --out out/heatmap.json

  # Derive the grouping column first
  gridlens heatmap --driver csv --path flights.csv \
    --derive 'SEASON=iif(num(row["MONTH"]) >= 6, "summer", "winter")' \
    --group SEASON --x MONTH --y ORIGIN`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHeatmap(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Group, "group", "", "column whose values select panels (required)")
	cmd.Flags().StringVar(&opts.X, "x", "", "column for the x axis (required)")
	cmd.Flags().StringVar(&opts.Y, "y", "", "column for the y axis (required)")
	cmd.Flags().BoolVar(&opts.Normalize, "normalize", false, "per-panel percentages instead of raw counts")
	cmd.Flags().StringVar(&opts.ColorScale, "colorscale", "", "color ramp name (default from config)")
	cmd.Flags().StringArrayVar(&opts.Derive, "derive", nil, "derived column NAME=EXPR (repeatable)")
	cmd.Flags().StringVar(&opts.Format, "format", "html", "figure format: html or json")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file (default <out-dir>/heatmap.<format>)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func runHeatmap(cmd *cobra.Command, opts *HeatmapOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	tbl, err := cmdCtx.LoadTable(ctx, opts.Derive)
	if err != nil {
		return err
	}

	colorScale := opts.ColorScale
	if colorScale == "" {
		colorScale = cmdCtx.Cfg.ColorScale
	}

	fig, err := viz.BuildHeatmap(tbl, viz.HeatmapOptions{
		GroupCol:   opts.Group,
		XCol:       opts.X,
		YCol:       opts.Y,
		Normalize:  opts.Normalize,
		ColorScale: colorScale,
	})
	if err != nil {
		return err
	}

	outPath, err := writeFigure(cmdCtx.Cfg, fig, "heatmap", opts.Format, opts.Out)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.FigureOutput{
			Kind:   "heatmap",
			Path:   outPath,
			Panels: len(fig.Panels),
		})
	}
	r.StatusLine(outPath, "written", fmt.Sprintf("%d panels", len(fig.Panels)))
	return nil
}
