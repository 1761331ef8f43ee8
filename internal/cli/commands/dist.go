package commands

import (
	"fmt"
	"strings"

	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/viz"
	"github.com/spf13/cobra"
)

// DistOptions holds options for the dist command.
type DistOptions struct {
	Category string
	Values   []string
	Bins     int
	Norm     string
	Colors   []string
	Order    []string
	Derive   []string
	Format   string
	Out      string
}

// NewDistCommand creates the dist command.
func NewDistCommand() *cobra.Command {
	opts := &DistOptions{}

	cmd := &cobra.Command{
		Use:   "dist",
		Short: "Render per-category distribution facets",
		Long: `Build one histogram facet per value column, overlaying the categories
in translucent color, with a marginal box strip above each facet.

Facets bin independently over their own value range; only the category
legend (order and colors) is shared.`,
		Example: `  # Distribution of two measures split by SEASON
  gridlens dist --driver csv --path flights.csv --category SEASON \
    --values DEP_DELAY --values AIR_TIME

  # Fixed category order and colors, density-normalized
  gridlens dist --driver duckdb --path flights.db --query "SELECT * FROM flights" \
    --category SEASON --values DEP_DELAY \
    --order summer --order winter \
    --color summer=#d62728 --color winter=#1f77b4 --norm density`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDist(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "column whose values split the histograms (required)")
	cmd.Flags().StringArrayVar(&opts.Values, "values", nil, "numeric column to facet (repeatable, required)")
	cmd.Flags().IntVar(&opts.Bins, "bins", 0, "histogram bin count (default from config)")
	cmd.Flags().StringVar(&opts.Norm, "norm", "", "normalization: count, probability, percent, or density")
	cmd.Flags().StringArrayVar(&opts.Colors, "color", nil, "category color CATEGORY=COLOR (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Order, "order", nil, "category display order (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Derive, "derive", nil, "derived column NAME=EXPR (repeatable)")
	cmd.Flags().StringVar(&opts.Format, "format", "html", "figure format: html or json")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file (default <out-dir>/dist.<format>)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}

func runDist(cmd *cobra.Command, opts *DistOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	colors, err := parseColorFlags(opts.Colors)
	if err != nil {
		return err
	}

	tbl, err := cmdCtx.LoadTable(ctx, opts.Derive)
	if err != nil {
		return err
	}

	bins := opts.Bins
	if bins <= 0 {
		bins = cmdCtx.Cfg.Bins
	}
	norm := opts.Norm
	if norm == "" {
		norm = cmdCtx.Cfg.Norm
	}

	fig, err := viz.BuildDistribution(tbl, viz.DistOptions{
		CategoryCol:   opts.Category,
		ValueCols:     opts.Values,
		Colors:        colors,
		Bins:          bins,
		Norm:          viz.NormMode(norm),
		CategoryOrder: opts.Order,
	})
	if err != nil {
		return err
	}

	outPath, err := writeFigure(cmdCtx.Cfg, fig, "dist", opts.Format, opts.Out)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.FigureOutput{
			Kind:   "dist",
			Path:   outPath,
			Facets: len(fig.Facets),
		})
	}
	r.StatusLine(outPath, "written", fmt.Sprintf("%d facets", len(fig.Facets)))
	return nil
}

// parseColorFlags turns CATEGORY=COLOR pairs into a lookup map.
func parseColorFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	colors := make(map[string]string, len(pairs))
	for _, p := range pairs {
		cat, color, ok := strings.Cut(p, "=")
		if !ok || cat == "" || color == "" {
			return nil, fmt.Errorf("invalid color %q (want CATEGORY=COLOR)", p)
		}
		colors[cat] = color
	}
	return colors, nil
}
