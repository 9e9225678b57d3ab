package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"jet/internal/source"
)

type goldenLine struct {
	path string
	pos  source.LineCol
	diag *Diagnostic
}

// FormatGoldenDiagnostics renders diagnostics one per line for golden files
// and test assertions:
//
//	src/shapes.jetd:4:3: error SEM1097: message
//	  src/shape.jetd:5:3: note: declared in Shape
//
// Paths are relative to the file set's base directory and lines are sorted
// by path and position, so the output does not depend on check order.
// Notes follow their diagnostic when includeNotes is set; diagnostics and
// notes pointing at unknown files are skipped.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	lines := make([]goldenLine, 0, len(diags))
	for i := range diags {
		path, pos, ok := goldenPosition(fs, diags[i].Primary)
		if ok {
			lines = append(lines, goldenLine{path: path, pos: pos, diag: &diags[i]})
		}
	}
	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		if c := strings.Compare(a.path, b.path); c != 0 {
			return c
		}
		if c := cmp.Compare(a.pos.Line, b.pos.Line); c != 0 {
			return c
		}
		if c := cmp.Compare(a.pos.Col, b.pos.Col); c != 0 {
			return c
		}
		if c := cmp.Compare(a.diag.Code, b.diag.Code); c != 0 {
			return c
		}
		return strings.Compare(a.diag.Message, b.diag.Message)
	})

	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "%s:%s: %s %s: %s\n", l.path, l.pos, severityLabel(l.diag.Severity), l.diag.Code.ID(), flatten(l.diag.Message))
		if !includeNotes {
			continue
		}
		for _, n := range l.diag.Notes {
			if path, pos, ok := goldenPosition(fs, n.Span); ok {
				fmt.Fprintf(&sb, "  %s:%s: note: %s\n", path, pos, flatten(n.Msg))
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func goldenPosition(fs *source.FileSet, span source.Span) (string, source.LineCol, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return "", source.LineCol{}, false
	}
	start, _ := fs.Resolve(span)
	path := strings.TrimPrefix(f.FormatPath("relative", fs.BaseDir()), "./")
	return path, start, true
}

func severityLabel(sev Severity) string {
	return strings.ToLower(sev.String())
}

// flatten folds a multi-line message onto one line.
func flatten(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
