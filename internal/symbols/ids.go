package symbols

// SymbolID identifies a symbol inside a Host. Zero means "no symbol".
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }
