// Package output renders command results in one of three modes: styled
// text for interactive terminals, plain markdown for pipes and docs, and
// JSON for tooling. Commands resolve the mode once via EffectiveMode and
// branch on it; auto picks text on a TTY and markdown everywhere else.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode normalizes a config string into an OutputMode. Unknown values
// fall back to auto rather than erroring so a bad config stays usable.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	default:
		return ModeAuto
	}
}

// Renderer writes command output. It owns the two writers, the requested
// mode, and the style set matching the terminal's capabilities.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles Styles
}

// NewRenderer builds a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY builds a renderer with an explicit TTY state, which
// tests use to pin the auto-mode resolution.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(isTTY),
	}
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the output writer is attached to a terminal.
// Commands that pick a frontend by terminal presence share this one
// detection instead of probing os.Stdout themselves.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer exposes the output writer for encoders that stream directly.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter exposes the error writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the renderer's style set. Off-TTY the styles are zero
// values, so Render calls pass text through unchanged.
func (r *Renderer) Styles() Styles { return r.styles }

func (r *Renderer) Println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// JSON writes v to the output writer as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Header prints a section header: styled in text mode, a markdown
// heading otherwise.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		style := r.styles.Header1
		if level > 1 {
			style = r.styles.Header2
		}
		fmt.Fprintln(r.out, style.Render(text))
		return
	}
	fmt.Fprintln(r.out, FormatHeader(level, text))
}

// Muted prints a de-emphasized line.
func (r *Renderer) Muted(s string) {
	if r.EffectiveMode() == ModeText {
		fmt.Fprintln(r.out, r.styles.Muted.Render(s))
		return
	}
	fmt.Fprintln(r.out, s)
}

// StatusLine prints one per-item result row, glyph-styled in text mode.
func (r *Renderer) StatusLine(name, status, detail string) {
	if r.EffectiveMode() == ModeText {
		glyph := r.styles.Muted.Render("-")
		switch status {
		case "success":
			glyph = r.styles.Success.Render("✓")
		case "error":
			glyph = r.styles.Error.Render("✗")
		}
		line := fmt.Sprintf("  %s %s", glyph, name)
		if detail != "" {
			line += " " + r.styles.Muted.Render("("+detail+")")
		}
		fmt.Fprintln(r.out, line)
		return
	}
	line := fmt.Sprintf("- %s: %s", name, status)
	if detail != "" {
		line += " (" + detail + ")"
	}
	fmt.Fprintln(r.out, line)
}
