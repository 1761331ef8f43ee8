package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gridlens-labs/gridlens/internal/cli/config"
	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/derive"
	"github.com/gridlens-labs/gridlens/internal/source"
	"github.com/gridlens-labs/gridlens/internal/state"
	"github.com/gridlens-labs/gridlens/internal/viz/echarts"
	"github.com/gridlens-labs/gridlens/pkg/figure"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's
// configuration and context logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenSource opens the configured data source. The caller must close it.
func (c *CommandContext) OpenSource(ctx context.Context) (source.Source, error) {
	return source.Open(ctx, source.Config{
		Driver: c.Cfg.Source.Driver,
		Path:   c.Cfg.Source.Path,
		DSN:    c.Cfg.Source.DSN,
	})
}

// LoadTable opens the source, reads the configured table, and applies
// any derived-column specs in order.
func (c *CommandContext) LoadTable(ctx context.Context, deriveSpecs []string) (*tabular.Table, error) {
	src, err := c.OpenSource(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	tbl, err := src.Table(ctx, c.Cfg.Source.Query)
	if err != nil {
		return nil, err
	}
	return applyDerived(tbl, deriveSpecs)
}

// OpenStore opens the fetch journal, creating its directory and schema as
// needed. Returns the store and a cleanup function that must be called
// (typically via defer).
func (c *CommandContext) OpenStore() (*state.Store, func(), error) {
	stateDir := filepath.Dir(c.Cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, nil, err
		}
	}

	st := state.NewStore()
	if err := st.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	cleanup := func() { _ = st.Close() }
	return st, cleanup, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	pageSize := config.DefaultPageSize
	if v := os.Getenv("GRIDLENS_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}

	return &config.Config{
		OutDir:       getEnvOrDefault("GRIDLENS_OUT_DIR", config.DefaultOutDir),
		StatePath:    getEnvOrDefault("GRIDLENS_STATE_PATH", config.DefaultStateFile),
		OutputFormat: os.Getenv("GRIDLENS_OUTPUT"),
		LogLevel:     getEnvOrDefault("GRIDLENS_LOG_LEVEL", config.DefaultLogLevel),
		Verbose:      os.Getenv("GRIDLENS_VERBOSE") == "true",
		PageSize:     pageSize,
		PlacesAPIKey: os.Getenv("GRIDLENS_PLACES_API_KEY"),
		BEAAPIKey:    os.Getenv("GRIDLENS_BEA_API_KEY"),
		Source: config.SourceConfig{
			Driver: os.Getenv("GRIDLENS_SOURCE_DRIVER"),
			Path:   os.Getenv("GRIDLENS_SOURCE_PATH"),
			DSN:    os.Getenv("GRIDLENS_SOURCE_DSN"),
			Query:  os.Getenv("GRIDLENS_SOURCE_QUERY"),
		},
		Serve: config.ServeConfig{
			Addr: getEnvOrDefault("GRIDLENS_SERVE_ADDR", config.DefaultServeAddr),
		},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// applyDerived parses NAME=EXPR specs and appends the derived columns.
func applyDerived(tbl *tabular.Table, specs []string) (*tabular.Table, error) {
	if len(specs) == 0 {
		return tbl, nil
	}

	parsed := make([]derive.ColumnSpec, 0, len(specs))
	for _, s := range specs {
		spec, err := derive.ParseSpec(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, spec)
	}
	return derive.Apply(tbl, parsed)
}

// writeFigure renders fig to outPath, or to <out-dir>/<name>.<format>
// when outPath is empty, and returns the path written.
func writeFigure(cfg *config.Config, fig any, name, format, outPath string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", "html":
		format = "html"
	case "json":
	default:
		return "", fmt.Errorf("unknown figure format %q (want html or json)", format)
	}

	if outPath == "" {
		outPath = filepath.Join(cfg.OutDir, name+"."+format)
	}
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", err
		}
	}

	if format == "json" {
		f, err := os.Create(outPath)
		if err != nil {
			return "", fmt.Errorf("create %s: %w", outPath, err)
		}
		defer func() { _ = f.Close() }()
		if err := figure.WriteJSON(f, fig); err != nil {
			return "", err
		}
		return outPath, nil
	}

	if err := echarts.RenderFile(fig, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}
