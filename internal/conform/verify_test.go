package conform

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jet/internal/ast"
	"jet/internal/source"
	"jet/internal/symbols"
)

type fixture struct {
	t      *testing.T
	h      *symbols.Host
	pkg    symbols.SymbolID
	num    symbols.SymbolID
	str    symbols.SymbolID
	verify *Verifier
}

func newFixture(t *testing.T) *fixture {
	h := symbols.NewHost()
	num, _ := h.LookupType(symbols.NumberTypeName)
	str, _ := h.LookupType(symbols.StringTypeName)
	return &fixture{t: t, h: h, pkg: h.Package("shapes"), num: num, str: str, verify: NewVerifier(h)}
}

func (f *fixture) iface(name string, extends ...symbols.SymbolID) symbols.SymbolID {
	id, ok := f.h.DeclareType(symbols.SymbolInterface, name, f.pkg, source.Span{}, ast.VisPublic)
	if !ok {
		f.t.Fatalf("duplicate %s", name)
	}
	f.h.SetExtends(id, extends)
	f.h.MarkResolved(id)
	return id
}

func (f *fixture) class(name string, parent symbols.SymbolID) symbols.SymbolID {
	id, ok := f.h.DeclareType(symbols.SymbolClass, name, parent, source.Span{}, ast.VisPublic)
	if !ok {
		f.t.Fatalf("duplicate %s", name)
	}
	f.h.MarkResolved(id)
	return id
}

func (f *fixture) method(owner symbols.SymbolID, name string, vis ast.Visibility, result symbols.SymbolID, params ...symbols.SymbolID) symbols.SymbolID {
	ps := make([]symbols.Param, len(params))
	for i, p := range params {
		ps[i] = symbols.Param{Type: p}
	}
	m := f.h.NewMethod(name, owner, source.Span{}, vis, ps, result)
	if !f.h.AddMember(owner, m) {
		f.t.Fatalf("duplicate member %s", name)
	}
	return m
}

func (f *fixture) accessor(owner symbols.SymbolID, kind ast.FunctionKind, name string, vis ast.Visibility, typ symbols.SymbolID) symbols.SymbolID {
	var m symbols.SymbolID
	if kind == ast.FnGetter {
		m = f.h.NewMethod(name, owner, source.Span{}, vis, nil, typ)
	} else {
		m = f.h.NewMethod(name, owner, source.Span{}, vis, []symbols.Param{{Type: typ}}, f.h.VoidType())
	}
	if _, ok := f.h.AddAccessor(owner, kind, m); !ok {
		f.t.Fatalf("accessor %s rejected", name)
	}
	return m
}

func (f *fixture) run(impl, iface symbols.SymbolID) []Finding {
	f.t.Helper()
	findings, err := f.verify.Verify(impl, iface)
	if err != nil {
		f.t.Fatalf("Verify: %v", err)
	}
	return findings
}

func kinds(findings []Finding) []FindingKind {
	var out []FindingKind
	for _, fd := range findings {
		out = append(out, fd.Kind)
	}
	return out
}

func TestEmptyInterfaceConforms(t *testing.T) {
	f := newFixture(t)
	empty := f.iface("Marker")
	circle := f.class("Circle", f.pkg)
	f.method(circle, "area", ast.VisPublic, f.num)
	if got := f.run(circle, empty); len(got) != 0 {
		t.Fatalf("expected no findings, got %+v", got)
	}
}

func TestUnimplementedMethod(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	f.method(shape, "area", ast.VisPublic, f.num)
	circle := f.class("Circle", f.pkg)

	want := []Finding{{Kind: UnimplementedMethod, Name: "area", Interface: shape}}
	if diff := cmp.Diff(want, f.run(circle, shape)); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalMethodMayBeOmitted(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	m := f.method(shape, "area", ast.VisPublic, f.num)
	f.h.AddFlags(m, symbols.SymbolFlagOptional)
	circle := f.class("Circle", f.pkg)
	if got := f.run(circle, shape); len(got) != 0 {
		t.Fatalf("expected no findings, got %+v", got)
	}
}

func TestWrongMethodSignatureCarriesExpected(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	expected := f.method(shape, "scale", ast.VisPublic, f.h.VoidType(), f.num)
	circle := f.class("Circle", f.pkg)
	f.method(circle, "scale", ast.VisPublic, f.h.VoidType(), f.str)

	want := []Finding{{Kind: WrongMethodSignature, Name: "scale", Interface: shape, ExpectedSignature: f.h.Signature(expected)}}
	if diff := cmp.Diff(want, f.run(circle, shape)); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchingSignatureConforms(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	f.method(shape, "scale", ast.VisPublic, f.h.VoidType(), f.num)
	circle := f.class("Circle", f.pkg)
	f.method(circle, "scale", ast.VisPublic, f.h.VoidType(), f.num)
	if got := f.run(circle, shape); len(got) != 0 {
		t.Fatalf("expected conformance, got %+v", got)
	}
}

func TestUnresolvedAncestorDefers(t *testing.T) {
	f := newFixture(t)
	base, _ := f.h.DeclareType(symbols.SymbolInterface, "Named", f.pkg, source.Span{}, ast.VisPublic)
	f.method(base, "name", ast.VisPublic, f.str)
	shape := f.iface("Shape", base)
	f.method(shape, "area", ast.VisPublic, f.num)
	circle := f.class("Circle", f.pkg)

	findings, err := f.verify.Verify(circle, shape)
	if !errors.Is(err, ErrDeferVerification) || findings != nil {
		t.Fatalf("expected deferral, got %+v, %v", findings, err)
	}

	// повторный запуск после разрешения даёт полный результат
	f.h.MarkResolved(base)
	want := []FindingKind{UnimplementedMethod, UnimplementedMethod}
	got := f.run(circle, shape)
	if diff := cmp.Diff(want, kinds(got)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got[0].Name != "name" || got[0].Interface != base {
		t.Fatalf("ancestor finding must come first, got %+v", got)
	}
}

func TestUnresolvedSignatureDefers(t *testing.T) {
	f := newFixture(t)
	pending, _ := f.h.DeclareType(symbols.SymbolClass, "Pending", f.pkg, source.Span{}, ast.VisPublic)
	shape := f.iface("Shape")
	f.method(shape, "merge", ast.VisPublic, f.h.VoidType(), pending)
	circle := f.class("Circle", f.pkg)
	f.method(circle, "merge", ast.VisPublic, f.h.VoidType(), f.num)

	if _, err := f.verify.Verify(circle, shape); !errors.Is(err, ErrDeferVerification) {
		t.Fatalf("expected deferral, got %v", err)
	}
}

func TestVirtualPropertyAccessors(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	f.accessor(shape, ast.FnGetter, "label", ast.VisPublic, f.str)
	f.accessor(shape, ast.FnSetter, "label", ast.VisPublic, f.str)

	circle := f.class("Circle", f.pkg)
	want := []FindingKind{UnimplementedGetter, UnimplementedSetter}
	if diff := cmp.Diff(want, kinds(f.run(circle, shape))); diff != "" {
		t.Fatalf("missing property mismatch (-want +got):\n%s", diff)
	}

	square := f.class("Square", f.pkg)
	f.accessor(square, ast.FnGetter, "label", ast.VisPublic, f.num)
	want = []FindingKind{WrongGetterSignature, UnimplementedSetter}
	if diff := cmp.Diff(want, kinds(f.run(square, shape))); diff != "" {
		t.Fatalf("partial property mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalAccessorsOnly(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	g := f.accessor(shape, ast.FnGetter, "label", ast.VisPublic, f.str)
	s := f.accessor(shape, ast.FnSetter, "label", ast.VisPublic, f.str)
	f.h.AddFlags(g, symbols.SymbolFlagOptional)
	f.h.AddFlags(s, symbols.SymbolFlagOptional)

	circle := f.class("Circle", f.pkg)
	if got := f.run(circle, shape); len(got) != 0 {
		t.Fatalf("optional accessors must not be required, got %+v", got)
	}
	// частичная реализация тоже допустима
	f.accessor(circle, ast.FnGetter, "label", ast.VisPublic, f.str)
	if got := f.run(circle, shape); len(got) != 0 {
		t.Fatalf("optional setter must not be required, got %+v", got)
	}
}

func TestShapeMismatch(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	f.accessor(shape, ast.FnGetter, "label", ast.VisPublic, f.str)
	f.method(shape, "area", ast.VisPublic, f.num)

	circle := f.class("Circle", f.pkg)
	f.method(circle, "label", ast.VisPublic, f.str)
	v := f.h.NewVariable("area", circle, source.Span{}, ast.VisPublic, f.num)
	f.h.AddMember(circle, v)

	want := []FindingKind{PropertyMustBeVirtualProperty, PropertyMustBeMethod, WrongMethodSignature}
	if diff := cmp.Diff(want, kinds(f.run(circle, shape))); diff != "" {
		t.Fatalf("shape mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibilityExpectation(t *testing.T) {
	f := newFixture(t)
	shape := f.iface("Shape")
	f.method(shape, "area", ast.VisPublic, f.num)

	inPackage := f.class("Circle", f.pkg)
	f.method(inPackage, "area", ast.VisInternal, f.num)
	want := []Finding{{Kind: WrongVisibility, Name: "area", Interface: shape, ExpectedVisibility: ast.VisPublic}}
	if diff := cmp.Diff(want, f.run(inPackage, shape)); diff != "" {
		t.Fatalf("package implementor mismatch (-want +got):\n%s", diff)
	}

	topLevel := f.class("Square", f.h.TopLevel(1))
	f.method(topLevel, "area", ast.VisInternal, f.num)
	if got := f.run(topLevel, shape); len(got) != 0 {
		t.Fatalf("top-level implementor expects internal members, got %+v", got)
	}

	// видимость и сигнатура проверяются независимо
	wrong := f.class("Triangle", f.h.TopLevel(1))
	f.method(wrong, "area", ast.VisPublic, f.str)
	want2 := []FindingKind{WrongVisibility, WrongMethodSignature}
	if diff := cmp.Diff(want2, kinds(f.run(wrong, shape))); diff != "" {
		t.Fatalf("independent findings mismatch (-want +got):\n%s", diff)
	}
}

func TestFindingKindCodes(t *testing.T) {
	seen := map[string]bool{}
	for k := UnimplementedMethod; k <= WrongVisibility; k++ {
		id := k.Code().ID()
		if seen[id] || id == "E0000" {
			t.Fatalf("kind %v maps to duplicate or unknown code %s", k, id)
		}
		seen[id] = true
	}
}
