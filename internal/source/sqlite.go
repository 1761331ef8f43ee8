package source

import (
	"context"
	"errors"

	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	Register("sqlite", openSQLite)
}

func openSQLite(ctx context.Context, cfg Config) (Source, error) {
	path := cfg.Path
	if path == "" {
		path = cfg.DSN
	}
	if path == "" {
		return nil, errors.New("sqlite source requires a path")
	}
	db, err := openDB(ctx, "sqlite", path)
	if err != nil {
		return nil, err
	}
	return &sqlSource{db: db, driver: "sqlite"}, nil
}
