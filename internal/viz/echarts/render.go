// Package echarts renders figure configurations to self-contained
// interactive HTML pages.
package echarts

import (
	"fmt"
	"io"
	"os"

	"github.com/gridlens-labs/gridlens/pkg/figure"
)

// Render writes fig as an HTML page. fig must be a *figure.Heatmap or a
// *figure.Distribution.
func Render(fig any, w io.Writer) error {
	switch f := fig.(type) {
	case *figure.Heatmap:
		return renderHeatmap(f, w)
	case *figure.Distribution:
		return renderDistribution(f, w)
	default:
		return fmt.Errorf("unsupported figure type %T", fig)
	}
}

// RenderFile renders fig into the file at path, creating or truncating
// it.
func RenderFile(fig any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := Render(fig, f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// colorRamps maps color scale names to visualmap gradient stops.
var colorRamps = map[string][]string{
	"cividis": {"#00204d", "#31446b", "#666970", "#958f78", "#cbba69", "#ffea46"},
	"viridis": {"#440154", "#414487", "#2a788e", "#22a884", "#7ad151", "#fde725"},
	"blues":   {"#f7fbff", "#c6dbef", "#6baed6", "#2171b5", "#08306b"},
}
