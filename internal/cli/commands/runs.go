package commands

import (
	"os"
	"strconv"
	"time"

	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/state"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
	"github.com/spf13/cobra"
)

// NewRunsCommand creates the runs command group.
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the fetch journal",
		Long: `Every ratings and bea fetch is journaled in the state database.
list shows recent runs, show prints one run in full.`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

func newRunsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent fetch runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			// A missing journal means nothing has been fetched yet;
			// don't create it just to read zero rows.
			if _, err := os.Stat(cmdCtx.Cfg.StatePath); os.IsNotExist(err) {
				if r.EffectiveMode() == output.ModeJSON {
					return r.JSON(output.RunsOutput{Runs: []output.RunInfo{}})
				}
				r.Println("No runs recorded yet")
				return nil
			}

			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}

			if r.EffectiveMode() == output.ModeJSON {
				out := output.RunsOutput{Runs: []output.RunInfo{}, Count: len(runs)}
				for _, run := range runs {
					out.Runs = append(out.Runs, runInfo(run))
				}
				return r.JSON(out)
			}

			if len(runs) == 0 {
				r.Println("No runs recorded yet")
				return nil
			}

			tbl := tabular.MustNew("ID", "KIND", "STATUS", "ROWS", "STARTED", "DURATION")
			for _, run := range runs {
				tbl.AppendRow(
					tabular.String(run.ID),
					tabular.String(string(run.Kind)),
					tabular.String(string(run.Status)),
					tabular.Number(float64(run.Rows)),
					tabular.String(run.StartedAt.UTC().Format(time.RFC3339)),
					tabular.String(runDuration(run)),
				)
			}
			return renderTabular(r.Writer(), tbl, r.EffectiveMode())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum runs to list (default 50)")

	return cmd
}

func newRunsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one fetch run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			store, cleanup, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer cleanup()

			run, err := store.GetRun(args[0])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(runInfo(run))
			}
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatHeader(1, "Run "+run.ID))
				r.Println(output.FormatKeyValue("Kind", string(run.Kind)))
				r.Println(output.FormatKeyValue("Status", string(run.Status)))
				r.Println(output.FormatKeyValue("Rows", strconv.FormatInt(run.Rows, 10)))
				r.Println(output.FormatKeyValue("Started", run.StartedAt.UTC().Format(time.RFC3339)))
				r.Println(output.FormatKeyValue("Duration", runDuration(run)))
				if run.Params != "" {
					r.Println(output.FormatKeyValue("Params", run.Params))
				}
				if run.Error != "" {
					r.Println(output.FormatKeyValue("Error", run.Error))
				}
				return nil
			}

			r.Header(1, "Run "+run.ID)
			r.Printf("Kind:     %s\n", run.Kind)
			r.Printf("Status:   %s\n", run.Status)
			r.Printf("Rows:     %d\n", run.Rows)
			r.Printf("Started:  %s\n", run.StartedAt.UTC().Format(time.RFC3339))
			r.Printf("Duration: %s\n", runDuration(run))
			if run.Params != "" {
				r.Printf("Params:   %s\n", run.Params)
			}
			if run.Error != "" {
				r.Printf("Error:    %s\n", run.Error)
			}
			return nil
		},
	}
}

// runInfo converts a journal row to its output envelope.
func runInfo(run *state.Run) output.RunInfo {
	info := output.RunInfo{
		ID:        run.ID,
		Kind:      string(run.Kind),
		Params:    run.Params,
		Status:    string(run.Status),
		Rows:      run.Rows,
		StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
		Error:     run.Error,
	}
	if run.CompletedAt != nil {
		info.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}
	return info
}

// runDuration formats the run's wall time, or "-" while it is still
// running.
func runDuration(run *state.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
