// Package main provides a generator that fetches the census ANSI/FIPS
// state code list and generates the lookup table used by internal/bea.
//
// Usage:
//
//	go run ./scripts/genstates -out=internal/bea/states_gen.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const sourceURL = "https://www.census.gov/library/reference/code-lists/ansi/ansi-codes-for-states.html"

var outFlag = flag.String("out", "", "output file path (required)")

var reFIPS = regexp.MustCompile(`^\d{2}$`)

func main() {
	flag.Parse()
	if *outFlag == "" {
		log.Fatal("missing required -out flag")
	}

	states, err := fetchStates()
	if err != nil {
		log.Fatalf("Failed to fetch state codes: %v", err)
	}
	if len(states) < 50 {
		log.Fatalf("Suspiciously few states parsed (%d); page layout may have changed", len(states))
	}

	src, err := generate(states)
	if err != nil {
		log.Fatalf("Failed to generate code: %v", err)
	}

	if err := os.WriteFile(*outFlag, src, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFlag, err)
	}
	log.Printf("Generated %s (%d states)", *outFlag, len(states))
}

// fetchStates downloads the census page and extracts FIPS code -> name
// pairs from its state table. The table lists one state or territory
// per row with the name in the first cell and the two-digit code in the
// second.
func fetchStates() (map[string]string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", sourceURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, sourceURL)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	states := make(map[string]string)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			cells := cellTexts(n)
			if len(cells) >= 2 && reFIPS.MatchString(cells[1]) && cells[0] != "" {
				states[cells[1]] = cells[0]
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return states, nil
}

// cellTexts collects the trimmed text content of every td/th under a row.
func cellTexts(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(textContent(c)))
		}
	}
	return cells
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func generate(states map[string]string) ([]byte, error) {
	codes := make([]string, 0, len(states))
	for code := range states {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by scripts/genstates. DO NOT EDIT.\n")
	fmt.Fprintf(&buf, "// Source: %s\n", sourceURL)
	fmt.Fprintf(&buf, "// Generated: %s\n\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&buf, "package bea\n\n")
	fmt.Fprintf(&buf, "// stateNames maps two-digit ANSI/FIPS state codes to census state names.\n")
	fmt.Fprintf(&buf, "var stateNames = map[string]string{\n")
	for _, code := range codes {
		fmt.Fprintf(&buf, "\t%q: %q,\n", code, states[code])
	}
	fmt.Fprintf(&buf, "}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}
