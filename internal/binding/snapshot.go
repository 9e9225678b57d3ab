package binding

import (
	"cmp"
	"slices"

	"jet/internal/ast"
	"jet/internal/source"
	"jet/internal/symbols"
)

// Entry is one persisted binding; Symbol zero means bound-to-none.
type Entry struct {
	Node   uint32           `msgpack:"n"`
	Symbol symbols.SymbolID `msgpack:"s"`
}

// Snapshot is the stable external form of one unit's partition.
// Entries are sorted by node handle.
type Snapshot struct {
	File       source.FileID `msgpack:"file"`
	Exprs      []Entry       `msgpack:"exprs,omitempty"`
	Directives []Entry       `msgpack:"directives,omitempty"`
	VarDefs    []Entry       `msgpack:"var_defs,omitempty"`
	Blocks     []Entry       `msgpack:"blocks,omitempty"`
	Programs   []Entry       `msgpack:"programs,omitempty"`
	FnCommons  []Entry       `msgpack:"fn_commons,omitempty"`
}

func entries[K ~uint32](m map[K]symbols.SymbolID) []Entry {
	if len(m) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(m))
	for k, v := range m {
		out = append(out, Entry{Node: uint32(k), Symbol: v})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Node, b.Node) })
	return out
}

func restore[K ~uint32](list []Entry) map[K]symbols.SymbolID {
	if len(list) == 0 {
		return nil
	}
	m := make(map[K]symbols.SymbolID, len(list))
	for _, e := range list {
		m[K(e.Node)] = e.Symbol
	}
	return m
}

// Snapshot exports the partition of file.
func (s *Store) Snapshot(file source.FileID) Snapshot {
	snap := Snapshot{File: file}
	p := s.partition(file, false)
	if p == nil {
		return snap
	}
	snap.Exprs = entries(p.exprs)
	snap.Directives = entries(p.directives)
	snap.VarDefs = entries(p.varDefs)
	snap.Blocks = entries(p.blocks)
	snap.Programs = entries(p.programs)
	snap.FnCommons = entries(p.fnCommons)
	return snap
}

// Restore replaces the partition of snap.File with the snapshot contents.
func (s *Store) Restore(snap Snapshot) {
	s.parts[snap.File] = &partition{
		exprs:      restore[ast.ExprID](snap.Exprs),
		directives: restore[ast.DirectiveID](snap.Directives),
		varDefs:    restore[ast.VarDefID](snap.VarDefs),
		blocks:     restore[ast.BlockID](snap.Blocks),
		programs:   restore[ast.ProgramID](snap.Programs),
		fnCommons:  restore[ast.FnCommonID](snap.FnCommons),
	}
}
