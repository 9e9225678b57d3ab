package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/unit"
)

// Evaluator processes raw metadata of one compilation unit. Failures are
// reported into the unit's ledger and the failing value is dropped; the
// raw form is never modified.
type Evaluator struct {
	unit      *unit.CompilationUnit
	outputDir string
}

// NewEvaluator binds the evaluator to a unit and the configured output
// directory used by output file references.
func NewEvaluator(u *unit.CompilationUnit, outputDir string) *Evaluator {
	return &Evaluator{unit: u, outputDir: outputDir}
}

// Process resolves every entry; failed entries are skipped.
func (e *Evaluator) Process(md *ast.UnprocessedMetadata) Metadata {
	return Metadata{Name: md.Name, Entries: e.processEntries(md.Entries)}
}

// ProcessEntry resolves one entry; ok is false when its value failed.
func (e *Evaluator) ProcessEntry(entry *ast.UnprocessedMetadataEntry) (Entry, bool) {
	v, ok := e.ProcessValue(&entry.Value)
	if !ok {
		return Entry{}, false
	}
	return Entry{HasKey: entry.HasKey, Key: entry.Key, Value: v}, true
}

// ProcessValue resolves one raw value.
func (e *Evaluator) ProcessValue(v *ast.UnprocessedMetadataValue) (Value, bool) {
	switch v.Kind {
	case ast.MetaIdentString, ast.MetaString:
		return Value{Kind: ValueString, String: v.Text}, true
	case ast.MetaBool:
		return Value{Kind: ValueBool, Bool: v.Bool}, true
	case ast.MetaNumber:
		return e.processNumber(v)
	case ast.MetaFile:
		return e.processFile(v)
	case ast.MetaList:
		return Value{Kind: ValueList, List: e.processEntries(v.List)}, true
	}
	diag.ReportError(e.unit.Reporter(), diag.UnrecognizedMetadataSyntax, v.Span,
		fmt.Sprintf("unrecognized metadata value kind %d", v.Kind)).Emit()
	return Value{}, false
}

func (e *Evaluator) processEntries(entries []ast.UnprocessedMetadataEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if entry, ok := e.ProcessEntry(&entries[i]); ok {
			out = append(out, entry)
		}
	}
	return out
}

func (e *Evaluator) processNumber(v *ast.UnprocessedMetadataValue) (Value, bool) {
	text, negative := strings.CutPrefix(v.Text, "-")
	n, err := parseNumber(text)
	if err != nil {
		diag.ReportError(e.unit.Reporter(), diag.FailedParsingNumericLiteral, v.Span,
			fmt.Sprintf("failed parsing numeric literal %q", v.Text)).Emit()
		return Value{}, false
	}
	if negative {
		n = -n
	}
	return Value{Kind: ValueNumber, Number: n}, true
}

func (e *Evaluator) processFile(v *ast.UnprocessedMetadataValue) (Value, bool) {
	path := e.ResolveFilePath(v)
	// #nosec G304 -- path comes from source metadata by design of file embedding
	data, err := os.ReadFile(path)
	if err != nil {
		diag.ReportError(e.unit.Reporter(), diag.FailedLoadingMetadataFile, v.Span,
			fmt.Sprintf("failed loading metadata file %q", path)).Emit()
		return Value{}, false
	}
	return Value{Kind: ValueFile, Filename: filepath.Base(path), Data: data}, true
}

// ResolveFilePath computes the absolute path a file reference points to:
// the output directory for output references, otherwise the directory of
// the referencing unit.
func (e *Evaluator) ResolveFilePath(v *ast.UnprocessedMetadataValue) string {
	rel := filepath.FromSlash(v.Text)
	var path string
	switch {
	case filepath.IsAbs(rel):
		path = rel
	case v.Output:
		path = filepath.Join(e.outputDir, rel)
	default:
		path = filepath.Join(filepath.Dir(e.unit.Path()), rel)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}
