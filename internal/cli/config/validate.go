package config

import "fmt"

// validNorms are the histogram normalization modes `dist` accepts.
var validNorms = map[string]bool{
	"":            true, // builder default
	"count":       true,
	"probability": true,
	"percent":     true,
	"density":     true,
}

// Validate checks if the configuration is valid. Source-specific checks
// happen when a source is opened, so commands that never touch a source
// keep working on a partial config.
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	if c.Bins < 0 {
		return fmt.Errorf("bins must not be negative, got %d", c.Bins)
	}
	if !validNorms[c.Norm] {
		return fmt.Errorf("unknown norm %q (want count, probability, percent, or density)", c.Norm)
	}
	return nil
}
