// Package output renders CLI results for terminals, pipes, and scripts.
// The renderer adapts to the requested mode: styled text for interactive
// use, markdown for piped output, and JSON for machine consumption.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Mode selects the rendering mode.
type Mode string

// Rendering modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Renderer writes rendered output to a pair of streams.
type Renderer struct {
	out  io.Writer
	err  io.Writer
	mode Mode
}

// NewRenderer creates a renderer. ModeAuto resolves to text when stdout is
// a terminal and markdown otherwise.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = resolveAuto(out)
	}
	return &Renderer{out: out, err: errOut, mode: mode}
}

func resolveAuto(out io.Writer) Mode {
	if f, ok := out.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return ModeText
		}
	}
	return ModeMarkdown
}

// Mode returns the resolved rendering mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// IsJSON reports whether output is machine-readable. Commands use this to
// suppress decorative output.
func (r *Renderer) IsJSON() bool {
	return r.mode == ModeJSON
}

// Header writes a section header.
func (r *Renderer) Header(text string) {
	switch r.mode {
	case ModeJSON:
	case ModeMarkdown:
		fmt.Fprintf(r.out, "## %s\n\n", text)
	default:
		fmt.Fprintln(r.out, headerStyle.Render(text))
	}
}

// Success writes a success line.
func (r *Renderer) Success(format string, args ...any) {
	if r.mode == ModeJSON {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if r.mode == ModeText {
		msg = successStyle.Render("✓ " + msg)
	}
	fmt.Fprintln(r.out, msg)
}

// Warning writes a warning line to the error stream.
func (r *Renderer) Warning(format string, args ...any) {
	if r.mode == ModeJSON {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if r.mode == ModeText {
		msg = warnStyle.Render("! " + msg)
	}
	fmt.Fprintln(r.err, msg)
}

// Error writes an error line to the error stream.
func (r *Renderer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.mode == ModeText {
		msg = errorStyle.Render("✗ " + msg)
	}
	fmt.Fprintln(r.err, msg)
}

// Info writes a plain informational line.
func (r *Renderer) Info(format string, args ...any) {
	if r.mode == ModeJSON {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Detail writes a de-emphasized line.
func (r *Renderer) Detail(format string, args ...any) {
	if r.mode == ModeJSON {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if r.mode == ModeText {
		msg = dimStyle.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
}

// Table renders a table with the given header and rows.
func (r *Renderer) Table(header []string, rows [][]string) {
	if r.mode == ModeJSON {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// JSON writes v as indented JSON. In non-JSON modes it is a no-op so
// commands can call it unconditionally.
func (r *Renderer) JSON(v any) error {
	if r.mode != ModeJSON {
		return nil
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Rule writes a horizontal rule.
func (r *Renderer) Rule() {
	switch r.mode {
	case ModeJSON:
	case ModeMarkdown:
		fmt.Fprintln(r.out, "\n---")
	default:
		fmt.Fprintln(r.out, dimStyle.Render(strings.Repeat("─", 40)))
	}
}
