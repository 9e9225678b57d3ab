package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jet/internal/diag"
	"jet/internal/source"
)

type palette struct {
	err, warn, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что diags уже отсортированы.
// Для каждой диагностики печатает
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем Context строк до позиции, строку с подчёркиванием ^~~~ по Span
// и заметки в том же формате.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i := range diags {
		d := &diags[i]
		sev := pal.err
		if d.IsWarning() {
			sev = pal.warn
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprint(location(fs, d.Primary, opts.PathMode)),
			sev.Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		writeContext(w, fs, d.Primary, opts, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
			writeContext(w, fs, n.Span, opts, pal)
		}
	}
}

// Short prints one line per diagnostic without source context.
func Short(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, mode PathMode) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s %s: %s\n", location(fs, d.Primary, mode), d.Severity, d.Code.ID(), d.Message)
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	return f.FormatPath(mode.formatMode(), fs.BaseDir())
}

func writeContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for line := first; line <= start.Line; line++ {
		text := clip(expandTabs(f.GetLine(line)), opts.Width)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, line), text)
	}

	raw := f.GetLine(start.Line)
	from := min(int(start.Col-1), len(raw))
	to := len(raw)
	if end.Line == start.Line {
		to = min(int(end.Col-1), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:from]))
	width := max(runewidth.StringWidth(expandTabs(raw[from:max(from, to)])), 1)
	if opts.Width > 0 {
		limit := int(opts.Width)
		if pad >= limit {
			return
		}
		width = min(width, limit-pad)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
