package symbols

import (
	"jet/internal/ast"
	"jet/internal/meta"
	"jet/internal/source"
)

// Builtin type names.
const (
	AnyTypeName     = "*"
	VoidTypeName    = "void"
	NumberTypeName  = "Number"
	StringTypeName  = "String"
	BooleanTypeName = "Boolean"
)

// Host owns every symbol of a program: builtins, packages, declared types
// and their members, and interned function types.
//
// A Host is shared by all units of one program and is mutated only from the
// sequential verification passes.
type Host struct {
	syms      *ast.Arena[SymbolID, Symbol]
	types     map[string]SymbolID
	packages  map[string]SymbolID
	topLevels map[source.FileID]SymbolID
	fnTypes   map[string]SymbolID

	invalid SymbolID
	anyType SymbolID
	void    SymbolID
}

func NewHost() *Host {
	h := &Host{
		syms:      ast.NewArena[SymbolID, Symbol](256),
		types:     make(map[string]SymbolID),
		packages:  make(map[string]SymbolID),
		topLevels: make(map[source.FileID]SymbolID),
		fnTypes:   make(map[string]SymbolID),
	}
	h.invalid = h.syms.Allocate(Symbol{Name: "<invalid>", Kind: SymbolInvalid, Flags: SymbolFlagResolved})
	h.anyType = h.builtin(AnyTypeName, SymbolAny)
	h.void = h.builtin(VoidTypeName, SymbolVoid)
	for _, name := range []string{NumberTypeName, StringTypeName, BooleanTypeName} {
		h.builtin(name, SymbolBuiltin)
	}
	return h
}

func (h *Host) builtin(name string, kind SymbolKind) SymbolID {
	id := h.syms.Allocate(Symbol{Name: name, Kind: kind, Flags: SymbolFlagResolved, Visibility: ast.VisPublic})
	h.types[name] = id
	return id
}

// Get returns the symbol for id, or nil.
func (h *Host) Get(id SymbolID) *Symbol { return h.syms.Get(id) }

func (h *Host) Len() int { return int(h.syms.Len()) }

// Invalid is the resolved placeholder used for references that name no type.
func (h *Host) Invalid() SymbolID { return h.invalid }

func (h *Host) AnyType() SymbolID { return h.anyType }

func (h *Host) VoidType() SymbolID { return h.void }

// Package returns the package symbol for name, creating it on first use.
func (h *Host) Package(name string) SymbolID {
	if id, ok := h.packages[name]; ok {
		return id
	}
	id := h.syms.Allocate(Symbol{
		Name:       name,
		Kind:       SymbolPackage,
		Flags:      SymbolFlagResolved,
		Visibility: ast.VisPublic,
		Members:    NewPrototype(),
	})
	h.packages[name] = id
	return id
}

// TopLevel returns the unit-level scope symbol used as parent of
// declarations outside any package.
func (h *Host) TopLevel(file source.FileID) SymbolID {
	if id, ok := h.topLevels[file]; ok {
		return id
	}
	id := h.syms.Allocate(Symbol{
		Name:    "<top-level>",
		Kind:    SymbolScope,
		Flags:   SymbolFlagResolved,
		Span:    source.Span{File: file},
		Members: NewPrototype(),
	})
	h.topLevels[file] = id
	return id
}

// DeclareType creates an unresolved class or interface under parent.
// When the name is already taken the existing symbol is returned with false.
func (h *Host) DeclareType(kind SymbolKind, name string, parent SymbolID, span source.Span, vis ast.Visibility) (SymbolID, bool) {
	if existing, ok := h.types[name]; ok {
		return existing, false
	}
	id := h.syms.Allocate(Symbol{
		Name:       name,
		Kind:       kind,
		Parent:     parent,
		Span:       span,
		Visibility: vis,
		Members:    NewPrototype(),
	})
	h.types[name] = id
	if p := h.syms.Get(parent); p != nil && p.Members != nil {
		p.Members.Add(name, id)
	}
	return id, true
}

// LookupType finds a builtin or declared type by name.
func (h *Host) LookupType(name string) (SymbolID, bool) {
	id, ok := h.types[name]
	return id, ok
}

// MarkResolved flags a type as settled.
func (h *Host) MarkResolved(id SymbolID) {
	if s := h.syms.Get(id); s != nil {
		s.Flags |= SymbolFlagResolved
	}
}

func (h *Host) SetExtends(iface SymbolID, supers []SymbolID) {
	h.syms.Get(iface).Extends = supers
}

func (h *Host) SetImplements(class SymbolID, ifaces []SymbolID) {
	h.syms.Get(class).Implements = ifaces
}

func (h *Host) AddFlags(id SymbolID, flags SymbolFlags) {
	if s := h.syms.Get(id); s != nil {
		s.Flags |= flags
	}
}

func (h *Host) HasFlag(id SymbolID, flag SymbolFlags) bool {
	s := h.syms.Get(id)
	return s != nil && s.Flags&flag != 0
}

func (h *Host) SetMetadata(id SymbolID, md []meta.Metadata) {
	if s := h.syms.Get(id); s != nil {
		s.Metadata = md
	}
}

func (h *Host) Metadata(id SymbolID) []meta.Metadata {
	if s := h.syms.Get(id); s != nil {
		return s.Metadata
	}
	return nil
}

// NewMethod allocates a method symbol; it is not attached to any type.
func (h *Host) NewMethod(name string, parent SymbolID, span source.Span, vis ast.Visibility, params []Param, result SymbolID) SymbolID {
	return h.syms.Allocate(Symbol{
		Name:       name,
		Kind:       SymbolMethod,
		Parent:     parent,
		Span:       span,
		Visibility: vis,
		Params:     params,
		Result:     result,
	})
}

// NewVariable allocates a variable symbol; it is not attached to any type.
func (h *Host) NewVariable(name string, parent SymbolID, span source.Span, vis ast.Visibility, typ SymbolID) SymbolID {
	return h.syms.Allocate(Symbol{
		Name:       name,
		Kind:       SymbolVariable,
		Parent:     parent,
		Span:       span,
		Visibility: vis,
		Type:       typ,
	})
}

// AddMember attaches member to t's prototype under its name.
func (h *Host) AddMember(t, member SymbolID) bool {
	owner := h.syms.Get(t)
	if owner == nil || owner.Members == nil {
		return false
	}
	return owner.Members.Add(h.syms.Get(member).Name, member)
}

// AddAccessor attaches a getter or setter method to the virtual property
// named like the method, creating the property on first use. It fails when
// the name belongs to another kind of member or the accessor slot is taken.
func (h *Host) AddAccessor(t SymbolID, kind ast.FunctionKind, method SymbolID) (SymbolID, bool) {
	m := h.syms.Get(method)
	owner := h.syms.Get(t)
	prop, exists := owner.Members.Get(m.Name)
	if !exists {
		prop = h.syms.Allocate(Symbol{
			Name:       m.Name,
			Kind:       SymbolVirtualProperty,
			Parent:     t,
			Span:       m.Span,
			Visibility: m.Visibility,
		})
		owner.Members.Add(m.Name, prop)
	}
	p := h.syms.Get(prop)
	if p.Kind != SymbolVirtualProperty {
		return prop, false
	}
	switch kind {
	case ast.FnGetter:
		if p.Getter.IsValid() {
			return prop, false
		}
		p.Getter = method
	case ast.FnSetter:
		if p.Setter.IsValid() {
			return prop, false
		}
		p.Setter = method
	default:
		return prop, false
	}
	return prop, true
}

// Prototype returns the ordered member mapping of a type or package.
func (h *Host) Prototype(t SymbolID) *Prototype {
	if s := h.syms.Get(t); s != nil {
		return s.Members
	}
	return nil
}

// Members returns member IDs in declaration order.
func (h *Host) Members(t SymbolID) []SymbolID {
	proto := h.Prototype(t)
	out := make([]SymbolID, 0, proto.Len())
	for _, name := range proto.Names() {
		id, _ := proto.Get(name)
		out = append(out, id)
	}
	return out
}

// Member looks a member up by name on t's own prototype.
func (h *Host) Member(t SymbolID, name string) (SymbolID, bool) {
	return h.Prototype(t).Get(name)
}

func (h *Host) Name(id SymbolID) string {
	if s := h.syms.Get(id); s != nil {
		return s.Name
	}
	return ""
}

func (h *Host) Kind(id SymbolID) SymbolKind {
	if s := h.syms.Get(id); s != nil {
		return s.Kind
	}
	return SymbolInvalid
}

func (h *Host) IsVirtualProperty(id SymbolID) bool { return h.Kind(id) == SymbolVirtualProperty }

func (h *Host) IsMethod(id SymbolID) bool { return h.Kind(id) == SymbolMethod }

func (h *Host) IsInterface(id SymbolID) bool { return h.Kind(id) == SymbolInterface }

// IsOptionalInterfaceMethod reports whether an interface member (method or
// accessor) may be omitted by implementors.
func (h *Host) IsOptionalInterfaceMethod(id SymbolID) bool {
	return h.HasFlag(id, SymbolFlagOptional)
}

func (h *Host) Getter(prop SymbolID) SymbolID {
	if s := h.syms.Get(prop); s != nil {
		return s.Getter
	}
	return NoSymbolID
}

func (h *Host) Setter(prop SymbolID) SymbolID {
	if s := h.syms.Get(prop); s != nil {
		return s.Setter
	}
	return NoSymbolID
}

func (h *Host) Visibility(id SymbolID) ast.Visibility {
	if s := h.syms.Get(id); s != nil {
		return s.Visibility
	}
	return ast.VisInternal
}

func (h *Host) Parent(id SymbolID) SymbolID {
	if s := h.syms.Get(id); s != nil {
		return s.Parent
	}
	return NoSymbolID
}

func (h *Host) IsPackage(id SymbolID) bool { return h.Kind(id) == SymbolPackage }
