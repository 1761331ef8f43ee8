package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/explore"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
	"github.com/spf13/cobra"
)

func runExploreREPL(cmd *cobra.Command, tbl *tabular.Table, pageSize int, mode output.OutputMode) error {
	st := explore.NewState(pageSize)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gridlens> ",
		HistoryFile:     exploreHistoryFile(),
		AutoComplete:    newExploreCompleter(tbl.Columns()),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "gridlens explorer (%d rows, %d columns)\n", tbl.Len(), tbl.Width())
	_, _ = fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(out)

	renderExplorePage(out, st, tbl, mode)

	// REPL loop
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := handleExploreCommand(cmd, st, tbl, line, mode); quit {
			break
		}
	}

	return nil
}

// handleExploreCommand runs one dot-command against the explorer state.
// Returns true when the REPL should exit.
func handleExploreCommand(cmd *cobra.Command, st *explore.State, tbl *tabular.Table, line string, mode output.OutputMode) bool {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printExploreHelp(out)

	case ".filter":
		if len(parts) < 3 {
			_, _ = fmt.Fprintln(errOut, "Usage: .filter <column> <pattern>")
			return false
		}
		if _, ok := tbl.Column(parts[1]); !ok {
			_, _ = fmt.Fprintf(errOut, "Warning: no column %q; filter will match nothing\n", parts[1])
		}
		st.SetFilter(parts[1], strings.Join(parts[2:], " "))
		renderExplorePage(out, st, tbl, mode)

	case ".clear":
		if len(parts) > 1 {
			st.SetFilter(parts[1], "")
		} else {
			st.ClearFilters()
		}
		renderExplorePage(out, st, tbl, mode)

	case ".page":
		n, err := strconv.Atoi(parts[len(parts)-1])
		if len(parts) < 2 || err != nil {
			_, _ = fmt.Fprintln(errOut, "Usage: .page <n>")
			return false
		}
		st.SetPage(n)
		renderExplorePage(out, st, tbl, mode)

	case ".next":
		st.SetPage(st.Page + 1)
		renderExplorePage(out, st, tbl, mode)

	case ".prev":
		st.SetPage(st.Page - 1)
		renderExplorePage(out, st, tbl, mode)

	case ".size":
		n, err := strconv.Atoi(parts[len(parts)-1])
		if len(parts) < 2 || err != nil || n < 1 {
			_, _ = fmt.Fprintln(errOut, "Usage: .size <n>")
			return false
		}
		st.PageSize = n
		renderExplorePage(out, st, tbl, mode)

	case ".cols":
		for _, col := range tbl.Columns() {
			marker := " "
			if st.Filters[col] != "" {
				marker = "*"
			}
			_, _ = fmt.Fprintf(out, " %s %s\n", marker, col)
		}
		_, _ = fmt.Fprintln(out)

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// renderExplorePage recomputes the view and prints the page window plus
// the status line.
func renderExplorePage(w io.Writer, st *explore.State, tbl *tabular.Table, mode output.OutputMode) {
	view := st.Recompute(tbl)
	if err := renderTabular(w, pageTable(tbl, view.Rows), mode); err != nil {
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(w, view.Status)
	_, _ = fmt.Fprintln(w)
}

func printExploreHelp(w io.Writer) {
	help := `
Commands:
  .filter <col> <pattern>  Keep rows whose column contains pattern
  .clear [col]             Drop one filter, or all of them
  .page <n>                Jump to page n
  .next / .prev            Page forward or back
  .size <n>                Set rows per page
  .cols                    List columns (* marks filtered ones)
  .help                    Show this help message
  .quit / .exit            Exit the explorer

Tips:
  - Filters are case-insensitive substrings, ANDed across columns
  - Use arrow keys to navigate history
  - Tab completion works for commands and column names
`
	_, _ = fmt.Fprintln(w, help)
}

// exploreHistoryFile returns the per-user history path, or "" to run
// without history.
func exploreHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "gridlens")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "explore_history")
}

// newExploreCompleter creates a readline completer for dot-commands and
// column names.
func newExploreCompleter(cols []string) *readline.PrefixCompleter {
	colItems := make([]readline.PrefixCompleterInterface, 0, len(cols))
	for _, col := range cols {
		colItems = append(colItems, readline.PcItem(col))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".filter", colItems...),
		readline.PcItem(".clear", colItems...),
		readline.PcItem(".page"),
		readline.PcItem(".next"),
		readline.PcItem(".prev"),
		readline.PcItem(".size"),
		readline.PcItem(".cols"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
