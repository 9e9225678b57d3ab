// Package conform checks that a type satisfies an interface.
//
// Verify is a pure query over a TypeGraph. While any interface in the
// ascending chain or any compared signature is unresolved it returns
// ErrDeferVerification instead of findings; callers retry the whole check
// after another resolution pass.
package conform

import (
	"errors"

	"jet/internal/ast"
	"jet/internal/symbols"
)

// ErrDeferVerification signals that the type graph has not converged yet.
var ErrDeferVerification = errors.New("conform: verification deferred")

// TypeGraph is the set of symbol queries the verifier needs.
type TypeGraph interface {
	AscendingInterfaces(iface symbols.SymbolID) []symbols.SymbolID
	Resolved(sym symbols.SymbolID) bool
	Members(t symbols.SymbolID) []symbols.SymbolID
	Member(t symbols.SymbolID, name string) (symbols.SymbolID, bool)
	Name(sym symbols.SymbolID) string
	IsVirtualProperty(sym symbols.SymbolID) bool
	IsMethod(sym symbols.SymbolID) bool
	IsOptionalInterfaceMethod(sym symbols.SymbolID) bool
	Getter(prop symbols.SymbolID) symbols.SymbolID
	Setter(prop symbols.SymbolID) symbols.SymbolID
	Signature(member symbols.SymbolID) symbols.SymbolID
	Visibility(sym symbols.SymbolID) ast.Visibility
	Parent(sym symbols.SymbolID) symbols.SymbolID
	IsPackage(sym symbols.SymbolID) bool
}

type Verifier struct {
	graph TypeGraph
}

func NewVerifier(g TypeGraph) *Verifier {
	return &Verifier{graph: g}
}

type run struct {
	g        TypeGraph
	impl     symbols.SymbolID
	iface    symbols.SymbolID
	vis      ast.Visibility
	findings []Finding
}

// Verify returns the findings of implementor against iface and every
// interface it extends, ancestors first. An empty result means conformance.
func (v *Verifier) Verify(implementor, iface symbols.SymbolID) ([]Finding, error) {
	g := v.graph
	r := &run{g: g, impl: implementor, vis: ast.VisInternal}
	if g.IsPackage(g.Parent(implementor)) {
		r.vis = ast.VisPublic
	}

	chain := append(g.AscendingInterfaces(iface), iface)
	for _, it := range chain {
		if !g.Resolved(it) {
			return nil, ErrDeferVerification
		}
		r.iface = it
		for _, item := range g.Members(it) {
			if err := r.member(item); err != nil {
				return nil, err
			}
		}
	}
	return r.findings, nil
}

func (r *run) add(kind FindingKind, name string) *Finding {
	r.findings = append(r.findings, Finding{Kind: kind, Name: name, Interface: r.iface})
	return &r.findings[len(r.findings)-1]
}

func (r *run) member(item symbols.SymbolID) error {
	g := r.g
	name := g.Name(item)
	implItem, found := g.Member(r.impl, name)

	if found && g.Visibility(implItem) != r.vis {
		r.add(WrongVisibility, name).ExpectedVisibility = r.vis
	}

	if !found {
		if g.IsVirtualProperty(item) {
			r.requireAccessor(g.Getter(item), UnimplementedGetter, name)
			r.requireAccessor(g.Setter(item), UnimplementedSetter, name)
		} else if !g.IsOptionalInterfaceMethod(item) {
			r.add(UnimplementedMethod, name)
		}
		return nil
	}

	if g.IsVirtualProperty(item) {
		if !g.IsVirtualProperty(implItem) {
			r.add(PropertyMustBeVirtualProperty, name)
			return nil
		}
		if err := r.accessor(g.Getter(item), g.Getter(implItem), UnimplementedGetter, WrongGetterSignature, name); err != nil {
			return err
		}
		return r.accessor(g.Setter(item), g.Setter(implItem), UnimplementedSetter, WrongSetterSignature, name)
	}

	if !g.IsMethod(implItem) {
		r.add(PropertyMustBeMethod, name)
	}
	return r.compare(g.Signature(item), g.Signature(implItem), WrongMethodSignature, name)
}

// requireAccessor reports a missing accessor unless the interface marks it optional.
func (r *run) requireAccessor(expected symbols.SymbolID, kind FindingKind, name string) {
	if expected.IsValid() && !r.g.IsOptionalInterfaceMethod(expected) {
		r.add(kind, name)
	}
}

func (r *run) accessor(expected, actual symbols.SymbolID, missing, wrong FindingKind, name string) error {
	if !expected.IsValid() {
		return nil
	}
	if !actual.IsValid() {
		r.requireAccessor(expected, missing, name)
		return nil
	}
	return r.compare(r.g.Signature(expected), r.g.Signature(actual), wrong, name)
}

func (r *run) compare(expected, actual symbols.SymbolID, kind FindingKind, name string) error {
	if !r.g.Resolved(expected) || !r.g.Resolved(actual) {
		return ErrDeferVerification
	}
	if expected != actual {
		r.add(kind, name).ExpectedSignature = expected
	}
	return nil
}
