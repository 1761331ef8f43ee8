package source

import (
	"context"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
)

func init() {
	Register("postgres", openPostgres)
}

func openPostgres(ctx context.Context, cfg Config) (Source, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres source requires a dsn")
	}
	db, err := openDB(ctx, "pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &sqlSource{db: db, driver: "postgres"}, nil
}
