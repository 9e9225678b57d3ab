package symbols

import (
	"jet/internal/ast"
	"jet/internal/meta"
	"jet/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolAny
	SymbolVoid
	SymbolBuiltin
	SymbolPackage
	SymbolScope
	SymbolClass
	SymbolInterface
	SymbolMethod
	SymbolVirtualProperty
	SymbolVariable
	SymbolFunctionType
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolAny:
		return "any"
	case SymbolVoid:
		return "void"
	case SymbolBuiltin:
		return "builtin"
	case SymbolPackage:
		return "package"
	case SymbolScope:
		return "scope"
	case SymbolClass:
		return "class"
	case SymbolInterface:
		return "interface"
	case SymbolMethod:
		return "method"
	case SymbolVirtualProperty:
		return "virtual property"
	case SymbolVariable:
		return "variable"
	case SymbolFunctionType:
		return "function type"
	default:
		return "invalid"
	}
}

// IsType reports whether symbols of this kind can appear in type positions.
func (k SymbolKind) IsType() bool {
	switch k {
	case SymbolAny, SymbolVoid, SymbolBuiltin, SymbolClass, SymbolInterface, SymbolFunctionType, SymbolInvalid:
		return true
	}
	return false
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagResolved SymbolFlags = 1 << iota
	SymbolFlagOptional
	SymbolFlagStatic
	SymbolFlagFinal
	SymbolFlagAbstract
	SymbolFlagNative
	SymbolFlagOverride
	SymbolFlagProxy
	SymbolFlagReadOnly
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	names := [...]string{"resolved", "optional", "static", "final", "abstract", "native", "override", "proxy", "readonly"}
	labels := make([]string, 0, 4)
	for i, name := range names {
		if f&(1<<i) != 0 {
			labels = append(labels, name)
		}
	}
	return labels
}

// Param is one parameter of a method or function type.
type Param struct {
	Kind ast.ParamKind
	Type SymbolID
}

// Symbol describes a named semantic entity. Field use depends on Kind:
// types carry Members, interfaces Extends, classes Implements, methods and
// function types Params/Result, virtual properties Getter/Setter and
// variables Type.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Flags      SymbolFlags
	Parent     SymbolID
	Span       source.Span
	Visibility ast.Visibility
	Members    *Prototype
	Extends    []SymbolID
	Implements []SymbolID
	Getter     SymbolID
	Setter     SymbolID
	Params     []Param
	Result     SymbolID
	Type       SymbolID
	Metadata   []meta.Metadata
}
