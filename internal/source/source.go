// Package source loads record tables from pluggable data backends: flat
// CSV files and SQL databases. Drivers self-register at init time and
// are opened by name through a shared registry.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// Source yields record tables. SQL-backed sources run the given query;
// file-backed ones ignore it and read their configured path.
type Source interface {
	Table(ctx context.Context, query string) (*tabular.Table, error)
	Close() error
}

// Config holds the configuration for opening a source.
type Config struct {
	// Driver selects the registered driver (e.g. "csv", "sqlite").
	Driver string

	// Path is the file path for file-based drivers. SQL drivers that
	// work on a single file (sqlite, duckdb) accept it too;
	// ":memory:" opens an in-memory database.
	Path string

	// DSN is the connection string for network databases.
	DSN string
}

// Factory opens a Source from its configuration.
type Factory func(ctx context.Context, cfg Config) (Source, error)

var (
	mu      sync.RWMutex
	drivers = make(map[string]Factory)
)

// Register adds a driver factory under the given name. Later
// registrations replace earlier ones.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	drivers[name] = factory
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := drivers[name]
	return f, ok
}

// IsRegistered reports whether a driver is registered under name.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownDriverError is returned when Open is asked for a driver name
// nothing registered.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown source driver %q (available: %s); set driver in gridlens.yaml or pass --driver",
		e.Driver, strings.Join(e.Available, ", "))
}

// Open creates and opens a source for the configured driver.
func Open(ctx context.Context, cfg Config) (Source, error) {
	if cfg.Driver == "" {
		return nil, errors.New("source driver not specified")
	}
	factory, ok := Get(cfg.Driver)
	if !ok {
		return nil, &UnknownDriverError{Driver: cfg.Driver, Available: Drivers()}
	}
	return factory(ctx, cfg)
}
