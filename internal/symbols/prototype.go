package symbols

// Prototype is an ordered name -> member mapping. Iteration follows
// declaration order.
type Prototype struct {
	names []string
	index map[string]SymbolID
}

func NewPrototype() *Prototype {
	return &Prototype{index: make(map[string]SymbolID)}
}

// Add registers a member; it fails when the name is already taken.
func (p *Prototype) Add(name string, member SymbolID) bool {
	if _, exists := p.index[name]; exists {
		return false
	}
	p.names = append(p.names, name)
	p.index[name] = member
	return true
}

func (p *Prototype) Get(name string) (SymbolID, bool) {
	if p == nil {
		return NoSymbolID, false
	}
	id, ok := p.index[name]
	return id, ok
}

// Names returns member names in declaration order.
func (p *Prototype) Names() []string {
	if p == nil {
		return nil
	}
	return p.names
}

func (p *Prototype) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}
