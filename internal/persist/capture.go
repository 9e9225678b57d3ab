package persist

import (
	"jet/internal/ast"
	"jet/internal/sema"
	"jet/internal/symbols"
	"jet/internal/unit"
)

// CaptureUnit snapshots u after the checker finished with it.
func CaptureUnit(c *sema.Checker, u *unit.CompilationUnit, prog ast.ProgramID) UnitSnapshot {
	snap := UnitSnapshot{
		Path:        u.Path(),
		Hash:        u.File().Hash,
		Diagnostics: u.Diagnostics(),
		Errors:      u.ErrorCount(),
		Warnings:    u.WarningCount(),
		Invalidated: u.Invalidated(),
		Comments:    u.Comments(),
		Bindings:    c.Store().Snapshot(u.FileID()),
		Findings:    c.Findings(u.FileID()),
	}

	b := c.Builder()
	p := b.Programs.Get(prog)
	if p == nil {
		return snap
	}
	for _, id := range p.Directives {
		capture(c, &snap, id, "")
		dir := b.Directives.Get(id)
		if blk := b.Blocks.Get(dir.Block); blk != nil {
			for _, mid := range blk.Directives {
				capture(c, &snap, mid, dir.Name+".")
			}
		}
	}
	return snap
}

func capture(c *sema.Checker, snap *UnitSnapshot, id ast.DirectiveID, prefix string) {
	b := c.Builder()
	dir := b.Directives.Get(id)
	if len(dir.Attributes) == 0 {
		return
	}
	snap.Attributes = append(snap.Attributes, DirectiveAttrs{Directive: id, Attributes: dir.Attributes})
	for _, mid := range ast.FindMetadata(dir.Attributes) {
		snap.RawMetadata = append(snap.RawMetadata, RawMetadata{ID: mid, Metadata: *b.Metadata.Get(mid)})
	}

	name := dir.Name
	sym, ok := c.Store().Directives().Get(id)
	if dir.Kind == ast.DirVariable && len(dir.VarDefs) > 0 {
		def := b.VarDefs.Get(dir.VarDefs[0])
		name = def.Name
		sym, ok = c.Store().VarDefs().Get(dir.VarDefs[0])
	}
	if !ok || sym == symbols.NoSymbolID {
		return
	}
	if md := c.Host().Metadata(sym); len(md) > 0 {
		snap.Metadata = append(snap.Metadata, SymbolMetadata{Symbol: prefix + name, Metadata: md})
	}
}
