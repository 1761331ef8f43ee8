// Package main fetches the BEA API user guide and saves it as markdown
// for offline reference while working on internal/bea.
//
// Usage:
//
//	go run ./scripts/syncbeadocs
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// Configuration.
const (
	guideURL = "https://apps.bea.gov/API/docs/index.htm"
	outFile  = "docs/bea-api.md"
)

// Pre-compiled regex patterns.
var (
	reAnchorLinks       = regexp.MustCompile(`\s*\[#\]\(#[\w-]*\)`)
	reExcessiveNewlines = regexp.MustCompile(`\n{4,}`)
)

func main() {
	body, err := fetch(guideURL)
	if err != nil {
		log.Fatalf("Failed to fetch %s: %v", guideURL, err)
	}

	content, err := extractMain(body)
	if err != nil {
		log.Fatalf("Failed to extract content: %v", err)
	}

	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		log.Fatalf("Failed to convert to markdown: %v", err)
	}
	md = cleanup(md)

	header := fmt.Sprintf("<!-- Synced from %s on %s by scripts/syncbeadocs -->\n\n",
		guideURL, time.Now().Format("2006-01-02"))

	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := os.WriteFile(outFile, []byte(header+md), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", outFile, err)
	}
	log.Printf("Wrote %s (%d bytes)", outFile, len(md))
}

func fetch(url string) (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractMain returns the inner HTML of the page's main content element,
// falling back to the whole body when the guide has no <main> wrapper.
func extractMain(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", err
	}

	var target *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if target != nil {
			return
		}
		if n.Type == html.ElementNode && (n.Data == "main" || n.Data == "article") {
			target = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if target == nil {
		return page, nil
	}

	var sb strings.Builder
	for c := target.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func cleanup(md string) string {
	md = reAnchorLinks.ReplaceAllString(md, "")
	md = reExcessiveNewlines.ReplaceAllString(md, "\n\n\n")
	return strings.TrimSpace(md) + "\n"
}
