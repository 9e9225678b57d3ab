package conform

import (
	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/symbols"
)

// FindingKind classifies one conformance violation.
type FindingKind uint8

const (
	UnimplementedMethod FindingKind = iota
	UnimplementedGetter
	UnimplementedSetter
	PropertyMustBeMethod
	PropertyMustBeVirtualProperty
	WrongMethodSignature
	WrongGetterSignature
	WrongSetterSignature
	WrongVisibility
)

func (k FindingKind) String() string {
	switch k {
	case UnimplementedMethod:
		return "unimplemented method"
	case UnimplementedGetter:
		return "unimplemented getter"
	case UnimplementedSetter:
		return "unimplemented setter"
	case PropertyMustBeMethod:
		return "property must be method"
	case PropertyMustBeVirtualProperty:
		return "property must be virtual property"
	case WrongMethodSignature:
		return "wrong method signature"
	case WrongGetterSignature:
		return "wrong getter signature"
	case WrongSetterSignature:
		return "wrong setter signature"
	case WrongVisibility:
		return "wrong visibility"
	}
	return "unknown"
}

// Code maps the finding kind to its diagnostic code.
func (k FindingKind) Code() diag.Code {
	switch k {
	case UnimplementedMethod:
		return diag.MethodNotImplemented
	case UnimplementedGetter:
		return diag.GetterNotImplemented
	case UnimplementedSetter:
		return diag.SetterNotImplemented
	case PropertyMustBeMethod:
		return diag.PropertyMustBeMethod
	case PropertyMustBeVirtualProperty:
		return diag.PropertyMustBeVirtualProperty
	case WrongMethodSignature:
		return diag.WrongMethodSignature
	case WrongGetterSignature:
		return diag.WrongGetterSignature
	case WrongSetterSignature:
		return diag.WrongSetterSignature
	case WrongVisibility:
		return diag.WrongInterfaceMemberVisibility
	}
	return diag.UnknownCode
}

// Finding is one conformance violation. ExpectedSignature is set for the
// signature kinds, ExpectedVisibility for WrongVisibility.
type Finding struct {
	Kind               FindingKind      `msgpack:"kind"`
	Name               string           `msgpack:"name"`
	Interface          symbols.SymbolID `msgpack:"iface"`
	ExpectedSignature  symbols.SymbolID `msgpack:"sig,omitempty"`
	ExpectedVisibility ast.Visibility   `msgpack:"vis,omitempty"`
}
