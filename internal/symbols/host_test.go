package symbols

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jet/internal/ast"
	"jet/internal/source"
)

func declare(t *testing.T, h *Host, kind SymbolKind, name string) SymbolID {
	t.Helper()
	id, ok := h.DeclareType(kind, name, h.Package("shapes"), source.Span{}, ast.VisPublic)
	if !ok {
		t.Fatalf("DeclareType(%q) collided", name)
	}
	return id
}

func TestAscendingInterfacesOrder(t *testing.T) {
	h := NewHost()
	root := declare(t, h, SymbolInterface, "Root")
	left := declare(t, h, SymbolInterface, "Left")
	right := declare(t, h, SymbolInterface, "Right")
	leaf := declare(t, h, SymbolInterface, "Leaf")
	h.SetExtends(left, []SymbolID{root})
	h.SetExtends(right, []SymbolID{root})
	h.SetExtends(leaf, []SymbolID{left, right})

	want := []SymbolID{root, left, right}
	if diff := cmp.Diff(want, h.AscendingInterfaces(leaf)); diff != "" {
		t.Fatalf("chain mismatch (-want +got):\n%s", diff)
	}
	if got := h.AscendingInterfaces(root); len(got) != 0 {
		t.Fatalf("root has no ancestors, got %v", got)
	}
}

func TestAscendingInterfacesCycle(t *testing.T) {
	h := NewHost()
	a := declare(t, h, SymbolInterface, "A")
	b := declare(t, h, SymbolInterface, "B")
	h.SetExtends(a, []SymbolID{b})
	h.SetExtends(b, []SymbolID{a})
	if diff := cmp.Diff([]SymbolID{b}, h.AscendingInterfaces(a)); diff != "" {
		t.Fatalf("cycle chain mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionTypeInterning(t *testing.T) {
	h := NewHost()
	num, _ := h.LookupType(NumberTypeName)
	str, _ := h.LookupType(StringTypeName)

	a := h.FunctionType([]Param{{Type: num}}, str)
	b := h.FunctionType([]Param{{Type: num}}, str)
	c := h.FunctionType([]Param{{Type: num, Kind: ast.ParamOptional}}, str)
	if a != b {
		t.Fatalf("identical structures must intern to one symbol")
	}
	if a == c {
		t.Fatalf("parameter kind must be part of the identity")
	}
	if got := h.TypeString(c); got != "function(Number=): String" {
		t.Fatalf("TypeString = %q", got)
	}
}

func TestSignatureResolvedFollowsTypes(t *testing.T) {
	h := NewHost()
	shape := declare(t, h, SymbolInterface, "Shape")
	class := declare(t, h, SymbolClass, "Circle")
	m := h.NewMethod("copy", class, source.Span{}, ast.VisPublic, []Param{{Type: shape}}, h.VoidType())
	if !h.AddMember(class, m) {
		t.Fatalf("AddMember failed")
	}
	sig := h.Signature(m)
	if h.Resolved(sig) {
		t.Fatalf("signature mentioning an unresolved type must be unresolved")
	}
	h.MarkResolved(shape)
	if !h.Resolved(sig) {
		t.Fatalf("signature must resolve once its types are")
	}
	if h.Signature(class) != NoSymbolID {
		t.Fatalf("non-method has no signature")
	}
}

func TestAddAccessorMergesIntoVirtualProperty(t *testing.T) {
	h := NewHost()
	class := declare(t, h, SymbolClass, "Circle")
	num, _ := h.LookupType(NumberTypeName)
	get := h.NewMethod("radius", class, source.Span{}, ast.VisPublic, nil, num)
	set := h.NewMethod("radius", class, source.Span{}, ast.VisPublic, []Param{{Type: num}}, h.VoidType())

	prop, ok := h.AddAccessor(class, ast.FnGetter, get)
	if !ok {
		t.Fatalf("getter rejected")
	}
	if again, ok := h.AddAccessor(class, ast.FnSetter, set); !ok || again != prop {
		t.Fatalf("setter must join the same property")
	}
	if !h.IsVirtualProperty(prop) || h.Getter(prop) != get || h.Setter(prop) != set {
		t.Fatalf("unexpected property %+v", h.Get(prop))
	}
	if _, ok := h.AddAccessor(class, ast.FnGetter, get); ok {
		t.Fatalf("second getter must be rejected")
	}

	plain := h.NewMethod("area", class, source.Span{}, ast.VisPublic, nil, num)
	h.AddMember(class, plain)
	if _, ok := h.AddAccessor(class, ast.FnGetter, h.NewMethod("area", class, source.Span{}, ast.VisPublic, nil, num)); ok {
		t.Fatalf("accessor must not merge into a plain method")
	}
	names := h.Prototype(class).Names()
	if diff := cmp.Diff([]string{"radius", "area"}, names); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclareTypeDuplicate(t *testing.T) {
	h := NewHost()
	first := declare(t, h, SymbolClass, "Circle")
	second, ok := h.DeclareType(SymbolClass, "Circle", h.TopLevel(3), source.Span{}, ast.VisInternal)
	if ok || second != first {
		t.Fatalf("duplicate declaration must return the existing symbol")
	}
	if _, ok := h.DeclareType(SymbolClass, NumberTypeName, h.TopLevel(3), source.Span{}, ast.VisInternal); ok {
		t.Fatalf("builtin names are reserved")
	}
	if !h.IsPackage(h.Parent(first)) || h.IsPackage(h.TopLevel(3)) {
		t.Fatalf("parent classification mismatch")
	}
}

func TestFlagsStrings(t *testing.T) {
	got := (SymbolFlagResolved | SymbolFlagOptional | SymbolFlagReadOnly).Strings()
	if diff := cmp.Diff([]string{"resolved", "optional", "readonly"}, got); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
}
