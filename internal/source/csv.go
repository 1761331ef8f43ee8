package source

import (
	"context"
	"errors"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

func init() {
	Register("csv", openCSV)
}

// csvSource reads a CSV file on every Table call. The query argument is
// ignored.
type csvSource struct {
	path string
}

func openCSV(_ context.Context, cfg Config) (Source, error) {
	if cfg.Path == "" {
		return nil, errors.New("csv source requires a path")
	}
	return &csvSource{path: cfg.Path}, nil
}

func (s *csvSource) Table(_ context.Context, _ string) (*tabular.Table, error) {
	return tabular.LoadCSV(s.path)
}

func (s *csvSource) Close() error { return nil }
