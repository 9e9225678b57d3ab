// Package persist is the msgpack form of verification results: unit
// ledgers, binding partitions, attribute lists, raw and processed metadata
// and conformance findings. Raw numeric and file texts are kept verbatim.
package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"jet/internal/ast"
	"jet/internal/binding"
	"jet/internal/conform"
	"jet/internal/diag"
	"jet/internal/meta"
	"jet/internal/unit"
)

// SchemaVersion must be bumped when any persisted type changes shape.
const SchemaVersion uint16 = 2

var ErrSchemaMismatch = errors.New("persist: schema version mismatch")

// UnitSnapshot captures one verified unit.
type UnitSnapshot struct {
	Path        string            `msgpack:"path"`
	Hash        [32]byte          `msgpack:"hash"`
	Diagnostics []diag.Diagnostic `msgpack:"diagnostics,omitempty"`
	Errors      uint32            `msgpack:"errors"`
	Warnings    uint32            `msgpack:"warnings"`
	Invalidated bool              `msgpack:"invalidated"`
	Comments    []unit.Comment    `msgpack:"comments,omitempty"`
	Bindings    binding.Snapshot  `msgpack:"bindings"`
	Attributes  []DirectiveAttrs  `msgpack:"attributes,omitempty"`
	RawMetadata []RawMetadata     `msgpack:"raw_metadata,omitempty"`
	Metadata    []SymbolMetadata  `msgpack:"metadata,omitempty"`
	Findings    []conform.Finding `msgpack:"findings,omitempty"`
}

// DirectiveAttrs is the attribute list of one directive.
type DirectiveAttrs struct {
	Directive  ast.DirectiveID `msgpack:"dir"`
	Attributes []ast.Attribute `msgpack:"attrs"`
}

type RawMetadata struct {
	ID       ast.MetadataID          `msgpack:"id"`
	Metadata ast.UnprocessedMetadata `msgpack:"md"`
}

// SymbolMetadata is the processed metadata of a declaration, keyed by its
// qualified name ("Type" or "Type.member").
type SymbolMetadata struct {
	Symbol   string          `msgpack:"symbol"`
	Metadata []meta.Metadata `msgpack:"metadata"`
}

// ProgramSnapshot is everything a check run produced for one program.
type ProgramSnapshot struct {
	Schema    uint16         `msgpack:"schema"`
	Digest    string         `msgpack:"digest"`
	Passes    int            `msgpack:"passes"`
	Converged bool           `msgpack:"converged"`
	Units     []UnitSnapshot `msgpack:"units"`
}

// Ledger rebuilds the unit ledger; counters are recomputed.
func (s *UnitSnapshot) Ledger() *diag.Ledger {
	return diag.Restore(s.Diagnostics)
}

func Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Encode writes p with the current schema version.
func Encode(w io.Writer, p *ProgramSnapshot) error {
	p.Schema = SchemaVersion
	if err := msgpack.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("encode program snapshot: %w", err)
	}
	return nil
}

// Decode reads a ProgramSnapshot and rejects other schema versions.
func Decode(r io.Reader) (*ProgramSnapshot, error) {
	var p ProgramSnapshot
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode program snapshot: %w", err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, SchemaVersion)
	}
	return &p, nil
}
