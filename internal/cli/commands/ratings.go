package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/places"
	"github.com/gridlens-labs/gridlens/internal/state"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
	"github.com/spf13/cobra"
)

// newPlacesClient builds the ratings client for the given key. Tests
// swap it to point at a local server.
var newPlacesClient = func(apiKey string) *places.Client {
	return places.New(apiKey)
}

// RatingsOptions holds options for the ratings command.
type RatingsOptions struct {
	In     string
	Out    string
	APIKey string
}

// NewRatingsCommand creates the ratings command.
func NewRatingsCommand() *cobra.Command {
	opts := &RatingsOptions{}

	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Fetch Google ratings for a list of airports",
		Long: `Look up each airport from the input CSV in the Google Places API and
write a CSV with the place name, rating, and review count appended.

Airports the API cannot find keep their row with null Google columns.
Every fetch is journaled; see "gridlens runs".`,
		Example: `  # Fetch ratings for the airports in airports.csv
  gridlens ratings --in airports.csv --out out/ratings.csv

  # Key from the environment
  GRIDLENS_PLACES_API_KEY=... gridlens ratings --in airports.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRatings(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.In, "in", "", "input CSV with APT_CODE and APT_NAME columns (required)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output CSV (default <out-dir>/ratings.csv)")
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "Places API key (default from config)")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runRatings(cmd *cobra.Command, opts *RatingsOptions) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = cmdCtx.Cfg.PlacesAPIKey
	}
	if apiKey == "" {
		return fmt.Errorf("no Places API key (use --api-key, places_api_key, or GRIDLENS_PLACES_API_KEY)")
	}

	in, err := tabular.LoadCSV(opts.In)
	if err != nil {
		return err
	}
	airports, err := places.AirportsFromTable(in)
	if err != nil {
		return err
	}
	if len(airports) == 0 {
		return fmt.Errorf("no airports in %s", opts.In)
	}

	store, cleanup, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer cleanup()

	params, _ := json.Marshal(map[string]any{"in": opts.In, "airports": len(airports)})
	run, err := store.StartRun(state.KindPlaces, string(params))
	if err != nil {
		return err
	}

	spinner := cmdCtx.Renderer.NewSpinner(fmt.Sprintf("Fetching ratings for %d airports...", len(airports)))
	spinner.Start()

	tbl, err := newPlacesClient(apiKey).FetchRatings(ctx, airports, cmdCtx.Logger)
	if err != nil {
		spinner.Fail("Fetch failed")
		_ = store.FinishRun(run.ID, 0, state.RunStatusError, err.Error())
		return err
	}

	outPath := opts.Out
	if outPath == "" {
		outPath = filepath.Join(cmdCtx.Cfg.OutDir, "ratings.csv")
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

	misses := ratingMisses(tbl)
	spinner.Success(fmt.Sprintf("Fetched %d airports (%d not found)", tbl.Len(), len(misses)))

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.FetchOutput{
			RunID:   run.ID,
			Kind:    string(state.KindPlaces),
			Rows:    tbl.Len(),
			OutPath: outPath,
			Misses:  misses,
		})
	}
	r.StatusLine(outPath, "written", fmt.Sprintf("%d rows", tbl.Len()))
	for _, code := range misses {
		r.Muted(fmt.Sprintf("no place found for %s", code))
	}
	return nil
}

// ratingMisses returns the airport codes whose lookup produced no place.
func ratingMisses(tbl *tabular.Table) []string {
	var misses []string
	for i := 0; i < tbl.Len(); i++ {
		if tbl.Value(i, "GOOGLE_NAME").IsNull() {
			misses = append(misses, tbl.Value(i, "APT_CODE").String())
		}
	}
	return misses
}
