package source

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// sqlSource adapts a database/sql handle to the Source interface. All
// SQL drivers share it; only the open path differs per driver.
type sqlSource struct {
	db     *sql.DB
	driver string
}

func (s *sqlSource) Table(ctx context.Context, query string) (*tabular.Table, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%s source requires a query", s.driver)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s source: %w", s.driver, err)
	}
	defer func() { _ = rows.Close() }()

	return scanTable(rows)
}

func (s *sqlSource) Close() error {
	return s.db.Close()
}

// openDB opens and pings a database/sql handle, closing it again when
// the ping fails.
func openDB(ctx context.Context, driverName, dataSource string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}
	return db, nil
}

// scanTable converts a SQL result set into a record table. Every value
// is scanned through sql.NullString so database NULLs stay null cells;
// values that parse as numbers become number cells.
func scanTable(rows *sql.Rows) (*tabular.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}
	tbl, err := tabular.New(cols...)
	if err != nil {
		return nil, fmt.Errorf("shape result: %w", err)
	}

	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		cells := make([]tabular.Cell, len(cols))
		for i, v := range vals {
			cells[i] = scanCell(v)
		}
		tbl.AppendRow(cells...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tbl, nil
}

func scanCell(v sql.NullString) tabular.Cell {
	if !v.Valid {
		return tabular.Null()
	}
	if f, err := strconv.ParseFloat(v.String, 64); err == nil {
		return tabular.Number(f)
	}
	return tabular.String(v.String)
}
