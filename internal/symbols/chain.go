package symbols

// AscendingInterfaces returns every interface iface transitively extends,
// ancestors before descendants, each once. iface itself is not included.
// Cycles are cut at the first revisit.
func (h *Host) AscendingInterfaces(iface SymbolID) []SymbolID {
	var out []SymbolID
	seen := map[SymbolID]bool{iface: true}
	var visit func(SymbolID)
	visit = func(id SymbolID) {
		s := h.syms.Get(id)
		if s == nil {
			return
		}
		for _, super := range s.Extends {
			if seen[super] {
				continue
			}
			seen[super] = true
			visit(super)
			out = append(out, super)
		}
	}
	visit(iface)
	return out
}
