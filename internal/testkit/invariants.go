// Package testkit holds structural checks shared by reader and checker tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"jet/internal/ast"
	"jet/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a read program:
// 1) the program span covers the whole file content
// 2) every directive span lies in its file and inside its owner
// 3) directives of one list appear in source order
// 4) every expression and metadata tree of the file lies inside the program
func CheckSpanInvariants(b *ast.Builder, progID ast.ProgramID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	p := b.Programs.Get(progID)
	if p == nil {
		return fmt.Errorf("program node not found")
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if p.Span.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", p.Span.File, sf.ID)
	}
	if p.Span.Start != 0 || p.Span.End != lenContent {
		return fmt.Errorf("program span %v does not cover content of %d bytes", p.Span, lenContent)
	}
	if err := checkList(b, p.Directives, p.Span, sf.ID, 0); err != nil {
		return err
	}
	for id, e := range b.Exprs.All() {
		if e.Span.File == sf.ID && !e.Span.Within(p.Span) {
			return fmt.Errorf("expr %d (%s) span %v is outside the program", id, e.Name, e.Span)
		}
	}
	for id, md := range b.Metadata.All() {
		if md.Span.File == sf.ID && !md.Span.Within(p.Span) {
			return fmt.Errorf("metadata %d (%s) span %v is outside the program", id, md.Name, md.Span)
		}
	}
	return nil
}

func checkList(b *ast.Builder, ids []ast.DirectiveID, owner source.Span, file source.FileID, depth int) error {
	var prev uint32
	for i, id := range ids {
		d := b.Directives.Get(id)
		if d == nil {
			return fmt.Errorf("nil directive for id=%d", id)
		}
		sp := d.Span
		if sp.File != file {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", d.Name, sp.File, file)
		}
		if sp.End < sp.Start {
			return fmt.Errorf("%s span is inverted: %v", d.Name, sp)
		}
		if !sp.Within(owner) {
			return fmt.Errorf("%s span %v is outside owner span %v", d.Name, sp, owner)
		}
		if i > 0 && sp.Start < prev {
			return fmt.Errorf("%s at %d precedes the previous directive at %d", d.Name, sp.Start, prev)
		}
		prev = sp.Start

		if depth == 0 && d.Block != ast.NoBlockID {
			blk := b.Blocks.Get(d.Block)
			if blk == nil {
				return fmt.Errorf("nil block for %s", d.Name)
			}
			if err := checkList(b, blk.Directives, sp, file, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
