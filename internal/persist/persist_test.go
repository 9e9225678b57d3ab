package persist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vmihailenco/msgpack/v5"

	"jet/internal/ast"
	"jet/internal/binding"
	"jet/internal/decl"
	"jet/internal/diag"
	"jet/internal/options"
	"jet/internal/sema"
	"jet/internal/source"
	"jet/internal/symbols"
	"jet/internal/unit"
)

const snapshotText = `# widgets
[[interface]]
name = "Sized"
  [[interface.getter]]
  name = "size"
  type = "Number"

[[class]]
name = "Icon"
modifiers = ["final"]
implements = ["Sized"]
  [[class.metadata]]
  name = "Embed"
  entries = [{ key = "width", number = "0x1F" }, { key = "mode", ident = "fit" }]
`

func captured(t *testing.T) UnitSnapshot {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{})
	c := sema.NewChecker(symbols.NewHost(), binding.NewStore(b), b)
	id := fs.AddVirtual("widgets.jetd", []byte(snapshotText))
	u := unit.New(fs.Get(id), options.Default(t.TempDir()))
	prog := decl.Read(u, b)
	c.Add(u, prog)
	c.DeclareAll()
	for c.Pending() > 0 && c.Pass() > 0 {
	}
	return CaptureUnit(c, u, prog)
}

func TestCaptureUnit(t *testing.T) {
	snap := captured(t)
	if len(snap.Diagnostics) != 1 || snap.Diagnostics[0].Code != diag.GetterNotImplemented {
		t.Fatalf("diagnostics = %+v", snap.Diagnostics)
	}
	if !snap.Invalidated || snap.Errors != 1 {
		t.Fatalf("counters: errors=%d invalidated=%v", snap.Errors, snap.Invalidated)
	}
	if len(snap.Findings) != 1 || snap.Findings[0].Name != "size" {
		t.Fatalf("findings = %+v", snap.Findings)
	}
	if len(snap.RawMetadata) != 1 || snap.RawMetadata[0].Metadata.Entries[0].Value.Text != "0x1F" {
		t.Fatalf("raw metadata = %+v", snap.RawMetadata)
	}
	if len(snap.Metadata) != 1 || snap.Metadata[0].Symbol != "Icon" {
		t.Fatalf("processed metadata = %+v", snap.Metadata)
	}
	if got := snap.Metadata[0].Metadata[0].Entries[0].Value.Number; got != 31 {
		t.Fatalf("width = %v", got)
	}
	if len(snap.Comments) != 1 || len(snap.Bindings.Directives) == 0 {
		t.Fatalf("comments=%d directive bindings=%d", len(snap.Comments), len(snap.Bindings.Directives))
	}
}

func TestProgramSnapshotRoundTrip(t *testing.T) {
	in := &ProgramSnapshot{Digest: "abc", Units: []UnitSnapshot{captured(t)}}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-in +out):\n%s", diff)
	}
	l := out.Units[0].Ledger()
	if l.ErrorCount() != out.Units[0].Errors || !l.Invalidated() {
		t.Fatalf("restored ledger counters differ")
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	data, err := msgpack.Marshal(&ProgramSnapshot{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("want ErrSchemaMismatch, got %v", err)
	}
}
