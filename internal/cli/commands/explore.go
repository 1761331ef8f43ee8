package commands

import (
	"fmt"

	"github.com/gridlens-labs/gridlens/internal/tui"
	"github.com/spf13/cobra"
)

// ExploreOptions holds options for the explore command.
type ExploreOptions struct {
	PageSize int
	Console  bool
	Derive   []string
}

// NewExploreCommand creates the explore command.
func NewExploreCommand() *cobra.Command {
	opts := &ExploreOptions{}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse a table interactively",
		Long: `Open the source table in an interactive pager with per-column
substring filters and page navigation.

The default frontend is a full-screen terminal UI. With --console, or
when stdout is not a terminal, explore falls back to a line-oriented
REPL driven by dot-commands.`,
		Example: `  # Full-screen explorer over a CSV file
  gridlens explore --driver csv --path flights.csv

  # Console REPL over a DuckDB query, 50 rows per page
  gridlens explore --driver duckdb --path flights.db \
    --query "SELECT * FROM flights WHERE ORIGIN = 'BOS'" --console --page-size 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "rows per page (default from config)")
	cmd.Flags().BoolVar(&opts.Console, "console", false, "line-oriented REPL instead of the full-screen UI")
	cmd.Flags().StringArrayVar(&opts.Derive, "derive", nil, "derived column NAME=EXPR (repeatable)")

	return cmd
}

func runExplore(cmd *cobra.Command, opts *ExploreOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	tbl, err := cmdCtx.LoadTable(ctx, opts.Derive)
	if err != nil {
		return err
	}
	if tbl.Len() == 0 {
		return fmt.Errorf("source returned no rows")
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = cmdCtx.Cfg.PageSize
	}

	if opts.Console || !cmdCtx.Renderer.IsTTY() {
		return runExploreREPL(cmd, tbl, pageSize, cmdCtx.Renderer.EffectiveMode())
	}
	return tui.Run(ctx, tbl, pageSize)
}
