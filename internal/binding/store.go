// Package binding records which symbol each syntax node was resolved to.
//
// Bindings are partitioned by compilation unit so that a unit can be
// discarded in one step. Keys are node handles: two nodes with identical
// text are distinct keys.
package binding

import (
	"slices"

	"jet/internal/ast"
	"jet/internal/source"
	"jet/internal/symbols"
)

// State distinguishes a node that was never bound from one bound to
// "no symbol" on purpose.
type State uint8

const (
	Unbound State = iota
	BoundNone
	Bound
)

func (s State) String() string {
	switch s {
	case BoundNone:
		return "bound-none"
	case Bound:
		return "bound"
	}
	return "unbound"
}

type partition struct {
	exprs      map[ast.ExprID]symbols.SymbolID
	directives map[ast.DirectiveID]symbols.SymbolID
	varDefs    map[ast.VarDefID]symbols.SymbolID
	blocks     map[ast.BlockID]symbols.SymbolID
	programs   map[ast.ProgramID]symbols.SymbolID
	fnCommons  map[ast.FnCommonID]symbols.SymbolID
}

func (p *partition) len() int {
	return len(p.exprs) + len(p.directives) + len(p.varDefs) + len(p.blocks) + len(p.programs) + len(p.fnCommons)
}

// Store holds the bindings of every unit built with one ast.Builder.
// A partition must only be mutated by the pass that owns its unit.
type Store struct {
	builder *ast.Builder
	parts   map[source.FileID]*partition
}

func NewStore(b *ast.Builder) *Store {
	return &Store{builder: b, parts: make(map[source.FileID]*partition)}
}

func (s *Store) partition(file source.FileID, create bool) *partition {
	p, ok := s.parts[file]
	if !ok && create {
		p = &partition{}
		s.parts[file] = p
	}
	return p
}

// DropUnit discards every binding of a unit. It reports whether the unit
// had a partition.
func (s *Store) DropUnit(file source.FileID) bool {
	_, ok := s.parts[file]
	delete(s.parts, file)
	return ok
}

// Units lists units that own a partition, in ascending order.
func (s *Store) Units() []source.FileID {
	out := make([]source.FileID, 0, len(s.parts))
	for id := range s.parts {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len counts bindings (including bound-to-none) of a unit.
func (s *Store) Len(file source.FileID) int {
	if p := s.partition(file, false); p != nil {
		return p.len()
	}
	return 0
}

func (s *Store) Exprs() Accessor[ast.ExprID] {
	return Accessor[ast.ExprID]{store: s, unitOf: s.builder.ExprUnit, table: func(p *partition, create bool) map[ast.ExprID]symbols.SymbolID {
		if p.exprs == nil && create {
			p.exprs = make(map[ast.ExprID]symbols.SymbolID)
		}
		return p.exprs
	}}
}

func (s *Store) Directives() Accessor[ast.DirectiveID] {
	return Accessor[ast.DirectiveID]{store: s, unitOf: s.builder.DirectiveUnit, table: func(p *partition, create bool) map[ast.DirectiveID]symbols.SymbolID {
		if p.directives == nil && create {
			p.directives = make(map[ast.DirectiveID]symbols.SymbolID)
		}
		return p.directives
	}}
}

func (s *Store) VarDefs() Accessor[ast.VarDefID] {
	return Accessor[ast.VarDefID]{store: s, unitOf: s.builder.VarDefUnit, table: func(p *partition, create bool) map[ast.VarDefID]symbols.SymbolID {
		if p.varDefs == nil && create {
			p.varDefs = make(map[ast.VarDefID]symbols.SymbolID)
		}
		return p.varDefs
	}}
}

func (s *Store) Blocks() Accessor[ast.BlockID] {
	return Accessor[ast.BlockID]{store: s, unitOf: s.builder.BlockUnit, table: func(p *partition, create bool) map[ast.BlockID]symbols.SymbolID {
		if p.blocks == nil && create {
			p.blocks = make(map[ast.BlockID]symbols.SymbolID)
		}
		return p.blocks
	}}
}

func (s *Store) Programs() Accessor[ast.ProgramID] {
	return Accessor[ast.ProgramID]{store: s, unitOf: s.builder.ProgramUnit, table: func(p *partition, create bool) map[ast.ProgramID]symbols.SymbolID {
		if p.programs == nil && create {
			p.programs = make(map[ast.ProgramID]symbols.SymbolID)
		}
		return p.programs
	}}
}

func (s *Store) FnCommons() Accessor[ast.FnCommonID] {
	return Accessor[ast.FnCommonID]{store: s, unitOf: s.builder.FnCommonUnit, table: func(p *partition, create bool) map[ast.FnCommonID]symbols.SymbolID {
		if p.fnCommons == nil && create {
			p.fnCommons = make(map[ast.FnCommonID]symbols.SymbolID)
		}
		return p.fnCommons
	}}
}
