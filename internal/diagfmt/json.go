package diagfmt

import (
	"encoding/json"
	"io"

	"jet/internal/diag"
	"jet/internal/source"
)

// PositionJSON is a 1-based line and byte column.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LocationJSON points at a byte range; Start and End are present only
// when positions were requested.
type LocationJSON struct {
	File  string        `json:"file"`
	Bytes [2]uint32     `json:"bytes"`
	Start *PositionJSON `json:"start,omitempty"`
	End   *PositionJSON `json:"end,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FileJSON counts the diagnostics whose primary span lies in one file.
type FileJSON struct {
	File     string `json:"file"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

// DiagnosticsOutput is the root of `jet check --format json`. The counters
// and Files cover every diagnostic, including those left out by Max.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Files       []FileJSON       `json:"files"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Omitted     int              `json:"omitted,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, withPositions bool) LocationJSON {
	loc := LocationJSON{Bytes: [2]uint32{span.Start, span.End}}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(fs, f, pathMode)
	if withPositions {
		start, end := fs.Resolve(span)
		loc.Start = &PositionJSON{Line: start.Line, Col: start.Col}
		loc.End = &PositionJSON{Line: end.Line, Col: end.Col}
	}
	return loc
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, n),
		Files:       []FileJSON{},
		Omitted:     len(diags) - n,
	}

	// файлы в порядке первого появления
	fileIdx := make(map[source.FileID]int)
	for i := range diags {
		d := &diags[i]
		idx, ok := fileIdx[d.Primary.File]
		if !ok {
			idx = len(out.Files)
			fileIdx[d.Primary.File] = idx
			name := ""
			if f := fs.Get(d.Primary.File); f != nil {
				name = formatPath(fs, f, opts.PathMode)
			}
			out.Files = append(out.Files, FileJSON{File: name})
		}
		if d.IsWarning() {
			out.Warnings++
			out.Files[idx].Warnings++
		} else {
			out.Errors++
			out.Files[idx].Errors++
		}
	}

	for _, d := range diags[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON encodes the diagnostics document with two-space indentation.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(diags, fs, opts))
}
