package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// contextLines is the number of source lines shown above and below the
// reported line, matching the teacher's FormatWithContext default.
const contextLines = 2

// Renderer writes Diagnostics to an output stream, with source
// snippets, caret/tilde underlines, and contextual hints (spec.md
// §4.G). Construct one with NewRenderer per compile run; it is not
// safe for concurrent use from multiple goroutines writing the same
// stream.
type Renderer struct {
	out     io.Writer
	noColor bool

	errorLabel, warnLabel, noteLabel *color.Color
	bold, dim, caret                 *color.Color
}

// NewRenderer wraps w (typically os.Stderr) in a Renderer honoring
// opts.NoColor and the stream's terminal-ness. Pass a
// github.com/mattn/go-colorable-wrapped writer on Windows consoles by
// calling NewRendererAuto instead.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	r := &Renderer{out: w, noColor: opts.NoColor}
	r.errorLabel = color.New(color.FgRed, color.Bold)
	r.warnLabel = color.New(color.FgYellow, color.Bold)
	r.noteLabel = color.New(color.FgCyan, color.Bold)
	r.bold = color.New(color.Bold)
	r.dim = color.New(color.Faint)
	if opts.NoColor {
		r.errorLabel.DisableColor()
		r.warnLabel.DisableColor()
		r.noteLabel.DisableColor()
		r.bold.DisableColor()
		r.dim.DisableColor()
	}
	return r
}

// NewRendererAuto wraps w in go-colorable (for ANSI support on legacy
// Windows consoles) and disables color when opts.NoColor is set or w
// is not a terminal, mirroring how ailang's repl package gates color
// on isatty before building its color.Color values.
func NewRendererAuto(w io.Writer, fd uintptr, opts Options) *Renderer {
	out := colorable.NewColorable(asFile(w))
	noColor := opts.NoColor || !isatty.IsTerminal(fd)
	return NewRenderer(out, Options{NoColor: noColor, Verbose: opts.Verbose, LintMode: opts.LintMode})
}

func asFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// Render writes one Diagnostic as a header line, an optional numbered
// source snippet with a caret/tilde underline, and a hint line, the
// way the teacher's CompilerError.FormatWithContext lays out a frame.
func (r *Renderer) Render(d Diagnostic, source string) {
	label := r.labelFor(d.Severity)

	if d.Path != "" {
		fmt.Fprintf(r.out, "%s: %s: %s\n", d.Path+r.posSuffix(d), label.Sprint(d.Severity.String()), d.Message)
	} else {
		fmt.Fprintf(r.out, "%s: %s\n", label.Sprint(d.Severity.String()), d.Message)
	}

	if source != "" && d.Pos.Line > 0 {
		r.renderSnippet(d, source)
	}

	if hint := Hint(d.Message); hint != "" {
		fmt.Fprintf(r.out, "  %s %s\n", r.dim.Sprint("hint:"), hint)
	}
}

// RenderAll renders every diagnostic in ds, looking up each one's
// source text via sources (keyed by Diagnostic.Path).
func (r *Renderer) RenderAll(ds []Diagnostic, sources map[string]string) {
	for _, d := range ds {
		r.Render(d, sources[d.Path])
	}
}

func (r *Renderer) labelFor(sev Severity) *color.Color {
	switch sev {
	case SeverityError:
		return r.errorLabel
	case SeverityWarning:
		return r.warnLabel
	default:
		return r.noteLabel
	}
}

func (r *Renderer) posSuffix(d Diagnostic) string {
	return fmt.Sprintf(":%d:%d", d.Pos.Line, d.Pos.Column)
}

func (r *Renderer) renderSnippet(d Diagnostic, source string) {
	lines := strings.Split(source, "\n")
	line := d.Pos.Line
	if line < 1 || line > len(lines) {
		return
	}

	start := line - contextLines
	if start < 1 {
		start = 1
	}
	end := line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	gutterWidth := len(fmt.Sprintf("%d", end))

	for n := start; n <= end; n++ {
		gutter := fmt.Sprintf("%*d | ", gutterWidth, n)
		fmt.Fprintf(r.out, "%s%s\n", r.dim.Sprint(gutter), lines[n-1])

		if n == line {
			underline := r.underline(d, lines[n-1])
			fmt.Fprintf(r.out, "%s%s\n", strings.Repeat(" ", len(gutter)), r.labelFor(d.Severity).Sprint(underline))
		}
	}
}

// underline renders a caret under the offending column, extended into
// tildes to EndPos when the diagnostic spans more than one token
// (spec.md §4.G "caret at the single column, or a caret-then-tildes
// span when an end position is known").
func (r *Renderer) underline(d Diagnostic, lineText string) string {
	col := d.Pos.Column
	if col < 1 {
		col = 1
	}
	pad := strings.Repeat(" ", col-1)

	width := 1
	if d.EndPos.Line == d.Pos.Line && d.EndPos.Column > d.Pos.Column {
		width = d.EndPos.Column - d.Pos.Column
	}
	if width < 1 {
		width = 1
	}
	if col-1+width > len(lineText) && len(lineText) >= col-1 {
		width = len(lineText) - (col - 1)
		if width < 1 {
			width = 1
		}
	}

	mark := "^" + strings.Repeat("~", width-1)
	return pad + mark
}
