// Package unit models a compilation unit: one source file's text plus the
// diagnostics and state accumulated while it is verified.
package unit

import (
	"jet/internal/diag"
	"jet/internal/options"
	"jet/internal/source"
)

// Comment is a source comment collected while the unit is scanned.
type Comment struct {
	Span      source.Span `msgpack:"span"`
	Content   string      `msgpack:"content"`
	MultiLine bool        `msgpack:"multiline"`
}

// CompilationUnit owns the Ledger of one file. It is mutated only by the
// verification pass currently holding it.
type CompilationUnit struct {
	file      *source.File
	opts      *options.CompilerOptions
	ledger    *diag.Ledger
	comments  []Comment
	tokenized bool
}

func New(file *source.File, opts *options.CompilerOptions) *CompilationUnit {
	return &CompilationUnit{
		file:   file,
		opts:   opts,
		ledger: diag.NewLedger(),
	}
}

func (u *CompilationUnit) FileID() source.FileID { return u.file.ID }

func (u *CompilationUnit) File() *source.File { return u.file }

// Path returns the file path; virtual units may carry a synthetic name.
func (u *CompilationUnit) Path() string { return u.file.Path }

func (u *CompilationUnit) Text() []byte { return u.file.Content }

func (u *CompilationUnit) Options() *options.CompilerOptions { return u.opts }

// Reporter returns the sink phases should report into.
func (u *CompilationUnit) Reporter() diag.Reporter { return u.ledger }

func (u *CompilationUnit) AddDiagnostic(d diag.Diagnostic) { u.ledger.Add(d) }

// Diagnostics returns a snapshot copy of the diagnostics.
func (u *CompilationUnit) Diagnostics() []diag.Diagnostic { return u.ledger.Diagnostics() }

func (u *CompilationUnit) SortDiagnostics() { u.ledger.Sort() }

func (u *CompilationUnit) ErrorCount() uint32 { return u.ledger.ErrorCount() }

func (u *CompilationUnit) WarningCount() uint32 { return u.ledger.WarningCount() }

// Invalidated reports whether an error was recorded; such a unit must not
// reach code generation.
func (u *CompilationUnit) Invalidated() bool { return u.ledger.Invalidated() }

// AddComment records a comment in source order.
func (u *CompilationUnit) AddComment(c Comment) {
	u.comments = append(u.comments, c)
}

// Comments returns a snapshot copy of the collected comments.
func (u *CompilationUnit) Comments() []Comment {
	out := make([]Comment, len(u.comments))
	copy(out, u.comments)
	return out
}

// AlreadyTokenized reports whether the unit was already scanned.
func (u *CompilationUnit) AlreadyTokenized() bool { return u.tokenized }

// MarkTokenized flags the unit as scanned and reports whether it was the
// first call; comment collection runs only once.
func (u *CompilationUnit) MarkTokenized() bool {
	if u.tokenized {
		return false
	}
	u.tokenized = true
	return true
}

// LineNumber returns the 1-based line of off.
func (u *CompilationUnit) LineNumber(off uint32) uint32 {
	return u.file.Position(off).Line
}

// Column returns the 0-based byte column of off.
func (u *CompilationUnit) Column(off uint32) uint32 {
	return u.file.Position(off).Col - 1
}

// LineOffset returns the offset at which the 1-based line starts.
func (u *CompilationUnit) LineOffset(line uint32) (uint32, bool) {
	return u.file.LineStart(line)
}

// LineIndent returns the count of leading spaces and tabs on the 1-based line.
func (u *CompilationUnit) LineIndent(line uint32) uint32 {
	start, ok := u.LineOffset(line)
	if !ok {
		return 0
	}
	var n uint32
	for _, b := range u.file.Content[start:] {
		if b != ' ' && b != '\t' {
			break
		}
		n++
	}
	return n
}
