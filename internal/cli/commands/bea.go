package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridlens-labs/gridlens/internal/bea"
	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/state"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BEAOptions holds options shared by the bea subcommands.
type BEAOptions struct {
	APIKey string
}

// NewBEACommand creates the bea command group.
func NewBEACommand() *cobra.Command {
	opts := &BEAOptions{}

	cmd := &cobra.Command{
		Use:   "bea",
		Short: "Query the BEA regional statistics API",
		Long: `Browse and fetch regional economic statistics from the Bureau of
Economic Analysis API.

datasets lists the API's datasets, tables the Regional dataset's tables,
linecodes the statistic lines within one table, and fetch downloads one
statistic line for all states and years as CSV.`,
		Example: `  # What tables does the Regional dataset have?
  gridlens bea tables

  # Which statistic lines does CAINC1 carry?
  gridlens bea linecodes CAINC1

  # Fetch per-capita personal income for all states, all years
  gridlens bea fetch CAINC1 3 --out out/income.csv`,
	}

	cmd.PersistentFlags().StringVar(&opts.APIKey, "api-key", "", "BEA API key (default from config)")

	cmd.AddCommand(newBEADatasetsCommand(opts))
	cmd.AddCommand(newBEATablesCommand(opts))
	cmd.AddCommand(newBEALineCodesCommand(opts))
	cmd.AddCommand(newBEAFetchCommand(opts))

	return cmd
}

func newBEADatasetsCommand(opts *BEAOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the API's datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			client, err := beaClient(cmdCtx, opts)
			if err != nil {
				return err
			}

			datasets, err := client.Datasets(cmd.Context())
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				out := output.DatasetsOutput{Count: len(datasets)}
				for _, d := range datasets {
					out.Datasets = append(out.Datasets, output.DatasetInfo{Name: d.Name, Description: d.Description})
				}
				return r.JSON(out)
			}

			r.Header(1, "BEA datasets")
			tbl := tabular.MustNew("NAME", "DESCRIPTION")
			for _, d := range datasets {
				tbl.AppendRow(tabular.String(d.Name), tabular.String(d.Description))
			}
			return renderTabular(r.Writer(), tbl, r.EffectiveMode())
		},
	}
}

func newBEATablesCommand(opts *BEAOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the Regional dataset's tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			client, err := beaClient(cmdCtx, opts)
			if err != nil {
				return err
			}

			tables, err := client.TableNames(cmd.Context())
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				out := output.TablesOutput{Dataset: "Regional", Count: len(tables)}
				for _, t := range tables {
					out.Tables = append(out.Tables, output.TableInfo{Name: t.Key, Description: t.Description})
				}
				return r.JSON(out)
			}

			r.Header(1, "Regional tables")
			tbl := tabular.MustNew("TABLE", "DESCRIPTION")
			for _, t := range tables {
				tbl.AppendRow(tabular.String(t.Key), tabular.String(t.Description))
			}
			return renderTabular(r.Writer(), tbl, r.EffectiveMode())
		},
	}
}

func newBEALineCodesCommand(opts *BEAOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "linecodes <table>",
		Short: "List the statistic lines within a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			client, err := beaClient(cmdCtx, opts)
			if err != nil {
				return err
			}

			codes, err := client.LineCodes(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				out := output.LineCodesOutput{Table: args[0], Count: len(codes)}
				for _, c := range codes {
					out.LineCodes = append(out.LineCodes, output.LineCodeInfo{Code: c.Code, Description: c.Description})
				}
				return r.JSON(out)
			}

			r.Header(1, fmt.Sprintf("Line codes in %s", args[0]))
			tbl := tabular.MustNew("CODE", "DESCRIPTION")
			for _, c := range codes {
				tbl.AppendRow(tabular.String(c.Code), tabular.String(c.Description))
			}
			return renderTabular(r.Writer(), tbl, r.EffectiveMode())
		},
	}
}

func newBEAFetchCommand(opts *BEAOptions) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "fetch <table> <linecode>",
		Short: "Fetch one statistic line for all states and years",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBEAFetch(cmd, opts, args[0], args[1], outFlag)
		},
	}

	cmd.Flags().StringVar(&outFlag, "out", "", "output CSV (default <out-dir>/bea_<table>_<linecode>.csv)")

	return cmd
}

func runBEAFetch(cmd *cobra.Command, opts *BEAOptions, tableName, lineCode, outFlag string) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	client, err := beaClient(cmdCtx, opts)
	if err != nil {
		return err
	}

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	params, _ := json.Marshal(map[string]any{"table": tableName, "linecode": lineCode})
	run, err := store.StartRun(state.KindBEA, string(params))
	if err != nil {
		return err
	}

	spinner := cmdCtx.Renderer.NewSpinner(fmt.Sprintf("Fetching %s line %s...", tableName, lineCode))
	spinner.Start()

	tbl, stat, err := client.StateData(ctx, tableName, lineCode)
	if err != nil {
		spinner.Fail("Fetch failed")
		_ = store.FinishRun(run.ID, 0, state.RunStatusError, err.Error())
		return err
	}

	outPath := outFlag
	if outPath == "" {
		outPath = filepath.Join(cmdCtx.Cfg.OutDir, fmt.Sprintf("bea_%s_%s.csv", tableName, lineCode))
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			spinner.Fail("Fetch failed")
			_ = store.FinishRun(run.ID, 0, state.RunStatusError, err.Error())
			return err
		}
	}
	if err := tbl.SaveCSV(outPath); err != nil {
		spinner.Fail("Fetch failed")
		_ = store.FinishRun(run.ID, 0, state.RunStatusError, err.Error())
		return err
	}

	if err := store.FinishRun(run.ID, int64(tbl.Len()), state.RunStatusSuccess, ""); err != nil {
		return err
	}
	spinner.Success(fmt.Sprintf("Fetched %d rows", tbl.Len()))

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.FetchOutput{
			RunID:     run.ID,
			Kind:      string(state.KindBEA),
			Rows:      tbl.Len(),
			OutPath:   outPath,
			Statistic: stat.Name,
			Unit:      stat.Unit,
			Notes:     stat.Notes,
		})
	}

	r.StatusLine(outPath, "written", fmt.Sprintf("%d rows", tbl.Len()))
	if stat.Name != "" {
		title := statisticTitle(stat.Name)
		if stat.Unit != "" {
			title = fmt.Sprintf("%s (%s)", title, stat.Unit)
		}
		r.Println(title)
	}
	for _, note := range stat.Notes {
		r.Muted(note)
	}
	return nil
}

// beaClient builds a client from the flag or configured API key.
func beaClient(cmdCtx *CommandContext, opts *BEAOptions) (*bea.Client, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = cmdCtx.Cfg.BEAAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no BEA API key (use --api-key, bea_api_key, or GRIDLENS_BEA_API_KEY)")
	}
	return bea.New(apiKey), nil
}

// statisticTitle title-cases statistic names the API reports in all
// caps; mixed-case names pass through untouched.
func statisticTitle(name string) string {
	if name != strings.ToUpper(name) {
		return name
	}
	return cases.Title(language.AmericanEnglish).String(strings.ToLower(name))
}
