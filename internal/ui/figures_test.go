package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFigureFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestListFigures(t *testing.T) {
	dir := t.TempDir()
	writeFigureFile(t, dir, "zeta.html", "<html>z</html>")
	writeFigureFile(t, dir, "alpha.html", "<html>a</html>")
	writeFigureFile(t, dir, "data.csv", "A,B\n1,2\n")
	writeFigureFile(t, dir, "figure.json", "{}")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.html"), 0750))

	figures, err := listFigures(dir)
	require.NoError(t, err)
	require.Len(t, figures, 2)

	// Sorted by name, non-HTML files and directories skipped.
	assert.Equal(t, "alpha.html", figures[0].Name)
	assert.Equal(t, "zeta.html", figures[1].Name)
	assert.Equal(t, int64(len("<html>a</html>")), figures[0].Size)
	assert.False(t, figures[0].ModTime.IsZero())
}

func TestListFigures_MissingDir(t *testing.T) {
	_, err := listFigures(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestNeighbors(t *testing.T) {
	figures := []figureEntry{{Name: "a.html"}, {Name: "b.html"}, {Name: "c.html"}}

	prev, next := neighbors(figures, "a.html")
	assert.Empty(t, prev)
	assert.Equal(t, "b.html", next)

	prev, next = neighbors(figures, "b.html")
	assert.Equal(t, "a.html", prev)
	assert.Equal(t, "c.html", next)

	prev, next = neighbors(figures, "c.html")
	assert.Equal(t, "b.html", prev)
	assert.Empty(t, next)

	prev, next = neighbors(figures, "missing.html")
	assert.Empty(t, prev)
	assert.Empty(t, next)
}

func TestFindFigure(t *testing.T) {
	figures := []figureEntry{{Name: "a.html"}}
	assert.True(t, findFigure(figures, "a.html"))
	assert.False(t, findFigure(figures, "b.html"))
}

func TestValidFigureName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"heatmap.html", true},
		{"dist_2026.html", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../secret.html", false},
		{"sub/figure.html", false},
		{`sub\figure.html`, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validFigureName(tt.name), "name %q", tt.name)
	}
}
