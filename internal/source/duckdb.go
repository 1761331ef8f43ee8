package source

import (
	"context"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register("duckdb", openDuckDB)
}

// openDuckDB opens a DuckDB database file, or an in-memory database
// when no path is set. DuckDB's read_csv_auto makes it the driver of
// choice for querying CSV files with SQL instead of loading them raw.
func openDuckDB(ctx context.Context, cfg Config) (Source, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := openDB(ctx, "duckdb", path)
	if err != nil {
		return nil, err
	}
	return &sqlSource{db: db, driver: "duckdb"}, nil
}
