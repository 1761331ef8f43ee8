package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// figureEntry is one listed figure file.
type figureEntry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// listFigures scans the figures directory for built figure pages,
// sorted by name so prev/next navigation is stable.
func listFigures(dir string) ([]figureEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read figures directory: %w", err)
	}

	var figures []figureEntry
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		figures = append(figures, figureEntry{
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(figures, func(i, j int) bool { return figures[i].Name < figures[j].Name })
	return figures, nil
}

// findFigure reports whether name is in the listing.
func findFigure(figures []figureEntry, name string) bool {
	for _, f := range figures {
		if f.Name == name {
			return true
		}
	}
	return false
}

// neighbors returns the names before and after the given figure in
// listing order, empty at either end.
func neighbors(figures []figureEntry, name string) (prev, next string) {
	for i, f := range figures {
		if f.Name != name {
			continue
		}
		if i > 0 {
			prev = figures[i-1].Name
		}
		if i < len(figures)-1 {
			next = figures[i+1].Name
		}
		return prev, next
	}
	return "", ""
}

// validFigureName rejects anything that could escape the figures
// directory when joined onto it.
func validFigureName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}
