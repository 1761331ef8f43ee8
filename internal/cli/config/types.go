// Package config provides configuration management for the gridlens CLI.
//
// Values layer in precedence order: flags > environment variables
// (GRIDLENS_ prefix) > gridlens.yaml > defaults. Nested source and serve
// keys map from flags (--driver, --path, --dsn, --query) and from env
// vars (GRIDLENS_SOURCE_DRIVER, GRIDLENS_SERVE_ADDR).
package config

// SourceConfig selects where tables come from. Driver names a registered
// source driver; Path serves file-backed drivers and DSN server-backed
// ones. Query is the optional SQL to run against SQL drivers.
type SourceConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	DSN    string `koanf:"dsn"`
	Query  string `koanf:"query"`
}

// ServeConfig holds the figure server settings.
type ServeConfig struct {
	Addr  string `koanf:"addr"`
	Watch bool   `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	OutDir       string `koanf:"out_dir"`
	StatePath    string `koanf:"state_path"`
	OutputFormat string `koanf:"output"`
	LogLevel     string `koanf:"log_level"`
	Verbose      bool   `koanf:"verbose"`

	PageSize   int    `koanf:"page_size"`
	Bins       int    `koanf:"bins"`
	Norm       string `koanf:"norm"`
	ColorScale string `koanf:"colorscale"`

	PlacesAPIKey string `koanf:"places_api_key"`
	BEAAPIKey    string `koanf:"bea_api_key"`

	Source SourceConfig `koanf:"source"`
	Serve  ServeConfig  `koanf:"serve"`

	// ProjectRoot anchors relative path resolution; set during load,
	// never read from the file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutDir    = "out"
	DefaultStateFile = ".gridlens/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPageSize  = 25
	DefaultLogLevel  = "info"
	DefaultServeAddr = "127.0.0.1:8765"
)
