package binding

import (
	"jet/internal/source"
	"jet/internal/symbols"
)

// Accessor exposes the bindings of one node family.
type Accessor[K ~uint32] struct {
	store  *Store
	unitOf func(K) (source.FileID, bool)
	table  func(p *partition, create bool) map[K]symbols.SymbolID
}

// lookupTable returns nil for nodes the builder does not know, so reads
// answer Unbound and Set has nothing to write to.
func (a Accessor[K]) lookupTable(node K, create bool) map[K]symbols.SymbolID {
	file, ok := a.unitOf(node)
	if !ok {
		return nil
	}
	p := a.store.partition(file, create)
	if p == nil {
		return nil
	}
	return a.table(p, create)
}

// Get returns the bound symbol. Nodes that are unbound and nodes bound to
// no symbol both report false; use Lookup to tell them apart.
func (a Accessor[K]) Get(node K) (symbols.SymbolID, bool) {
	sym, state := a.Lookup(node)
	return sym, state == Bound
}

// Lookup returns the binding together with its three-state classification.
func (a Accessor[K]) Lookup(node K) (symbols.SymbolID, State) {
	sym, ok := a.lookupTable(node, false)[node]
	switch {
	case !ok:
		return symbols.NoSymbolID, Unbound
	case !sym.IsValid():
		return symbols.NoSymbolID, BoundNone
	}
	return sym, Bound
}

// Set binds node to sym; symbols.NoSymbolID records an explicit "no symbol".
// It reports false and stores nothing for the zero handle or a handle the
// builder never allocated.
func (a Accessor[K]) Set(node K, sym symbols.SymbolID) bool {
	t := a.lookupTable(node, true)
	if t == nil {
		return false
	}
	t[node] = sym
	return true
}

// Delete removes the binding and reports whether one existed.
func (a Accessor[K]) Delete(node K) bool {
	t := a.lookupTable(node, false)
	if _, ok := t[node]; !ok {
		return false
	}
	delete(t, node)
	return true
}

// Has reports whether node is bound to a symbol.
func (a Accessor[K]) Has(node K) bool {
	_, ok := a.Get(node)
	return ok
}
