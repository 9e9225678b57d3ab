package decl

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jet/internal/ast"
	"jet/internal/diag"
	"jet/internal/options"
	"jet/internal/source"
	"jet/internal/testkit"
	"jet/internal/unit"
)

func read(t *testing.T, text string) (*ast.Builder, *unit.CompilationUnit, *ast.Program) {
	t.Helper()
	return readIn(t, source.NewFileSet(), text)
}

func readIn(t *testing.T, fs *source.FileSet, text string) (*ast.Builder, *unit.CompilationUnit, *ast.Program) {
	t.Helper()
	id := fs.AddVirtual("shapes.jetd", []byte(text))
	u := unit.New(fs.Get(id), options.Default("."))
	b := ast.NewBuilder(ast.Hints{})
	prog := Read(u, b)
	return b, u, b.Programs.Get(prog)
}

func codes(u *unit.CompilationUnit) []diag.Code {
	var out []diag.Code
	for _, d := range u.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func spanText(u *unit.CompilationUnit, sp source.Span) string {
	return string(u.Text()[sp.Start:sp.End])
}

func attrKinds(list []ast.Attribute) []ast.AttrKind {
	out := make([]ast.AttrKind, 0, len(list))
	for _, a := range list {
		out = append(out, a.Kind)
	}
	return out
}

const shapes = `package = "shapes"

# shapes of things
[[interface]]
name = "Shape"
  [[interface.method]]
  name = "area"
  result = "Number"
  [[interface.getter]]
  name = "label"
  type = "String"

[[class]]
name = "Circle"
modifiers = ["public", "final"]
implements = ["Shape"]
  [[class.metadata]]
  name = "Embed"
  entries = [{ key = "source", file = "icon.png" }, { key = "width", number = "16" }]
  [[class.method]]
  name = "area"
  modifiers = ["public"]
  result = "Number"
`

func TestReadSnapshot(t *testing.T) {
	b, u, prog := read(t, shapes)
	if got := codes(u); len(got) != 0 {
		t.Fatalf("unexpected diagnostics: %v", got)
	}
	if err := testkit.CheckSpanInvariants(b, 1, u.File()); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	if prog.Package != "shapes" || spanText(u, prog.PackageSpan) != "shapes" {
		t.Fatalf("package = %q at %q", prog.Package, spanText(u, prog.PackageSpan))
	}
	if len(prog.Directives) != 2 {
		t.Fatalf("want 2 directives, got %d", len(prog.Directives))
	}

	shape := b.Directives.Get(prog.Directives[0])
	if shape.Kind != ast.DirInterface || shape.Name != "Shape" || spanText(u, shape.NameSpan) != "Shape" {
		t.Fatalf("first directive = %s %q", shape.Kind, shape.Name)
	}
	members := b.Blocks.Get(shape.Block).Directives
	if len(members) != 2 {
		t.Fatalf("Shape members = %d", len(members))
	}
	area, label := b.Directives.Get(members[0]), b.Directives.Get(members[1])
	if area.Name != "area" || area.FnKind != ast.FnNormal {
		t.Fatalf("area = %q kind %d", area.Name, area.FnKind)
	}
	if label.Name != "label" || label.FnKind != ast.FnGetter {
		t.Fatalf("label = %q kind %d", label.Name, label.FnKind)
	}
	if res := b.Exprs.Get(b.FnCommons.Get(label.Common).Result); res == nil || res.Name != "String" {
		t.Fatalf("getter result = %+v", res)
	}

	circle := b.Directives.Get(prog.Directives[1])
	if circle.Kind != ast.DirClass || spanText(u, circle.NameSpan) != "Circle" {
		t.Fatalf("second directive = %s %q", circle.Kind, circle.Name)
	}
	wantKinds := []ast.AttrKind{ast.AttrMetadata, ast.AttrPublic, ast.AttrFinal}
	if diff := cmp.Diff(wantKinds, attrKinds(circle.Attributes)); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if got := spanText(u, circle.Attributes[1].Span); got != "public" {
		t.Fatalf("public span covers %q", got)
	}
	if len(circle.Implements) != 1 {
		t.Fatalf("implements = %v", circle.Implements)
	}
	impl := b.Exprs.Get(circle.Implements[0])
	if impl.Name != "Shape" || spanText(u, impl.Span) != "Shape" {
		t.Fatalf("implements expr = %+v", impl)
	}

	md := b.Metadata.Get(circle.Attributes[0].Metadata)
	if md.Name != "Embed" || !md.HasEntries || len(md.Entries) != 2 {
		t.Fatalf("metadata = %+v", md)
	}
	src := md.Entries[0]
	if src.Key != "source" || src.Value.Kind != ast.MetaFile || spanText(u, src.Value.Span) != "icon.png" {
		t.Fatalf("source entry = %+v", src)
	}
	width := md.Entries[1]
	if width.Value.Kind != ast.MetaNumber || width.Value.Text != "16" {
		t.Fatalf("width entry = %+v", width)
	}

	comments := u.Comments()
	if len(comments) != 1 || comments[0].Content != " shapes of things" {
		t.Fatalf("comments = %+v", comments)
	}
}

func TestReadModifierErrors(t *testing.T) {
	fs := source.NewFileSetWithBase(".")
	b, u, prog := readIn(t, fs, `
[[class]]
name = "Box"
modifiers = ["public", "private", "final", "final", "sealed"]
`)
	want := []diag.Code{diag.DuplicateVisibility, diag.DuplicateAttribute, diag.UnallowedAttribute}
	if diff := cmp.Diff(want, codes(u)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	box := b.Directives.Get(prog.Directives[0])
	if diff := cmp.Diff([]ast.AttrKind{ast.AttrPublic, ast.AttrFinal}, attrKinds(box.Attributes)); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if !u.Invalidated() {
		t.Fatalf("unit must be invalidated")
	}
	golden := "shapes.jetd:4:25: error SYN1047: duplicate visibility modifier\n" +
		"shapes.jetd:4:45: error SYN1046: duplicate attribute \"final\"\n" +
		"shapes.jetd:4:54: error SYN1049: attribute \"sealed\" is not allowed here"
	if got := diag.FormatGoldenDiagnostics(u.Diagnostics(), fs, false); got != golden {
		t.Fatalf("golden:\n%s\nwant:\n%s", got, golden)
	}
}

func TestReadVariableInInterface(t *testing.T) {
	b, u, prog := read(t, `
[[interface]]
name = "Sized"
var = [{ name = "size", type = "Number" }]

[[class]]
name = "Box"
var = [{ name = "size", type = "Number", const = true }]
`)
	if diff := cmp.Diff([]diag.Code{diag.DirectiveNotAllowedInInterface}, codes(u)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	sized := b.Directives.Get(prog.Directives[0])
	if n := len(b.Blocks.Get(sized.Block).Directives); n != 0 {
		t.Fatalf("interface kept %d members", n)
	}
	box := b.Directives.Get(prog.Directives[1])
	members := b.Blocks.Get(box.Block).Directives
	if len(members) != 1 {
		t.Fatalf("class members = %d", len(members))
	}
	v := b.Directives.Get(members[0])
	def := b.VarDefs.Get(v.VarDefs[0])
	if v.Kind != ast.DirVariable || def.Name != "size" || !def.ReadOnly {
		t.Fatalf("variable = %+v", def)
	}
}

func TestReadParameterOrder(t *testing.T) {
	b, u, prog := read(t, `
[[interface]]
name = "Greeter"
  [[interface.method]]
  name = "greet"
  params = [
    { name = "who", type = "String", optional = true },
    { name = "times", type = "Number" },
    { name = "rest", rest = true },
  ]
`)
	if diff := cmp.Diff([]diag.Code{diag.WrongParameterPosition}, codes(u)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	greeter := b.Directives.Get(prog.Directives[0])
	greet := b.Directives.Get(b.Blocks.Get(greeter.Block).Directives[0])
	var kinds []ast.ParamKind
	for _, p := range b.FnCommons.Get(greet.Common).Params {
		kinds = append(kinds, p.Kind)
	}
	want := []ast.ParamKind{ast.ParamOptional, ast.ParamRequired, ast.ParamRest}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("param kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMetadataValueShape(t *testing.T) {
	b, u, prog := read(t, `
[[class]]
name = "Box"
metadata = [
  { name = "Skin", entries = [{ key = "a", string = "x", number = "1" }, { key = "b" }, { key = "c", bool = true }] },
  { name = "Bare" },
]
`)
	want := []diag.Code{diag.UnrecognizedMetadataSyntax, diag.UnrecognizedMetadataSyntax}
	if diff := cmp.Diff(want, codes(u)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	box := b.Directives.Get(prog.Directives[0])
	skin := b.Metadata.Get(box.Attributes[0].Metadata)
	if len(skin.Entries) != 1 || skin.Entries[0].Value.Kind != ast.MetaBool || !skin.Entries[0].Value.Bool {
		t.Fatalf("skin entries = %+v", skin.Entries)
	}
	if got := spanText(u, skin.Entries[0].Value.Span); got != "true" {
		t.Fatalf("bool span covers %q", got)
	}
	bare := b.Metadata.Get(box.Attributes[1].Metadata)
	if bare.HasEntries {
		t.Fatalf("[Bare] must have no entry list")
	}
}

func TestReadMalformed(t *testing.T) {
	_, u, prog := read(t, "[[class]\nname = \"Box\"\n")
	if diff := cmp.Diff([]diag.Code{diag.IOMalformedSnapshot}, codes(u)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if len(prog.Directives) != 0 {
		t.Fatalf("malformed snapshot produced %d directives", len(prog.Directives))
	}
}

func TestReadUnknownKey(t *testing.T) {
	_, u, _ := read(t, "[[class]]\nname = \"Box\"\ncolour = \"red\"\n")
	diags := u.Diagnostics()
	if len(diags) != 1 || diags[0].Code != diag.IOMalformedSnapshot {
		t.Fatalf("diagnostics = %+v", diags)
	}
	if got := spanText(u, diags[0].Primary); got != "colour" {
		t.Fatalf("unknown key span covers %q", got)
	}
}

func TestReadCollectsCommentsOnce(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.jetd", []byte("# one\nname_less = 'x # not a comment'\n"))
	u := unit.New(fs.Get(id), options.Default("."))
	b := ast.NewBuilder(ast.Hints{})
	Read(u, b)
	Read(u, b)
	comments := u.Comments()
	if len(comments) != 1 || comments[0].Content != " one" {
		t.Fatalf("comments = %+v", comments)
	}
}
