package ast

import (
	"jet/internal/source"
)

type DirectiveKind uint8

const (
	// DirInvalidated represents a directive that failed to parse.
	DirInvalidated DirectiveKind = iota
	DirClass
	DirInterface
	DirFunction
	DirVariable
)

func (k DirectiveKind) String() string {
	switch k {
	case DirClass:
		return "class"
	case DirInterface:
		return "interface"
	case DirFunction:
		return "function"
	case DirVariable:
		return "var"
	}
	return "invalidated"
}

// FunctionKind separates accessors from plain functions.
type FunctionKind uint8

const (
	FnNormal FunctionKind = iota
	FnGetter
	FnSetter
)

// Directive is a declaration. Which fields are populated depends on Kind:
//
//	DirClass:     Name, Attributes, Implements, Block
//	DirInterface: Name, Attributes, Extends, Block
//	DirFunction:  Name, Attributes, FnKind, Common
//	DirVariable:  Attributes, VarDefs
type Directive struct {
	Kind       DirectiveKind
	Span       source.Span
	Name       string
	NameSpan   source.Span
	Attributes []Attribute
	Extends    []ExprID
	Implements []ExprID
	Block      BlockID
	FnKind     FunctionKind
	Common     FnCommonID
	VarDefs    []VarDefID
}

type Directives struct{ *Arena[DirectiveID, Directive] }

func NewDirectives(capHint uint) *Directives {
	return &Directives{NewArena[DirectiveID, Directive](capHint)}
}

func (d *Directives) New(dir Directive) DirectiveID { return d.Allocate(dir) }
