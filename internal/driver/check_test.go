package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jet/internal/binding"
	"jet/internal/diag"
	"jet/internal/options"
	"jet/internal/symbols"
)

const shapeSnapshot = `package = "shapes"

[[interface]]
name = "Shape"
  [[interface.method]]
  name = "area"
  result = "Number"
  [[interface.getter]]
  name = "label"
  type = "String"
`

const squareSnapshot = `package = "shapes"

[[class]]
name = "Square"
implements = ["Shape"]
  [[class.method]]
  name = "area"
  modifiers = ["public"]
  result = "String"
`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func resultCodes(res *Result) map[string][]diag.Code {
	out := make(map[string][]diag.Code)
	for _, u := range res.Units {
		var codes []diag.Code
		for _, d := range u.Diagnostics {
			codes = append(codes, d.Code)
		}
		out[filepath.Base(u.Unit.Path())] = codes
	}
	return out
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func TestCheckProject(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"shape.jetd":        shapeSnapshot,
		"impl/square.jetd":  squareSnapshot,
		"notes.txt":         "ignored",
		".hidden/skip.jetd": "not = toml [",
	})
	sink := &recordingSink{}
	res, err := Check(context.Background(), Request{Root: dir, Progress: sink})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := map[string][]diag.Code{
		"shape.jetd":  nil,
		"square.jetd": {diag.GetterNotImplemented, diag.WrongMethodSignature},
	}
	if diff := cmp.Diff(want, resultCodes(res)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if !res.Converged || res.Cached || res.Passes == 0 {
		t.Fatalf("converged=%v cached=%v passes=%d", res.Converged, res.Cached, res.Passes)
	}
	if errs, warns := res.Counts(); errs != 2 || warns != 0 {
		t.Fatalf("counts = %d errors, %d warnings", errs, warns)
	}
	if !res.Invalidated() {
		t.Fatalf("result must be invalidated")
	}

	var verifyDone, failed int
	for _, ev := range sink.events {
		if ev.File != "" && ev.Stage == StageVerify {
			switch ev.Status {
			case StatusDone:
				verifyDone++
			case StatusError:
				failed++
			}
		}
	}
	if verifyDone != 1 || failed != 1 {
		t.Fatalf("verify events: done=%d error=%d", verifyDone, failed)
	}
}

func TestCheckUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"shape.jetd":  shapeSnapshot,
		"square.jetd": squareSnapshot,
	})
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	first, err := Check(context.Background(), Request{Root: dir, Cache: cache})
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	second, err := Check(context.Background(), Request{Root: dir, Cache: cache})
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("cached flags = %v, %v", first.Cached, second.Cached)
	}
	if first.Digest != second.Digest {
		t.Fatalf("digest changed between runs")
	}
	if diff := cmp.Diff(resultCodes(first), resultCodes(second)); diff != "" {
		t.Fatalf("cached diagnostics differ (-first +second):\n%s", diff)
	}
	if second.Passes != first.Passes || second.Converged != first.Converged {
		t.Fatalf("cached passes/converged = %d/%v, want %d/%v", second.Passes, second.Converged, first.Passes, first.Converged)
	}
	for i := range first.Units {
		if first.Units[i].Bindings != second.Units[i].Bindings {
			t.Fatalf("unit %d bindings: %d vs %d", i, first.Units[i].Bindings, second.Units[i].Bindings)
		}
		if diff := cmp.Diff(programBindings(first, i), programBindings(second, i)); diff != "" {
			t.Fatalf("unit %d cached bindings differ (-first +second):\n%s", i, diff)
		}
	}

	writeFiles(t, dir, map[string]string{"square.jetd": squareSnapshot + "\n"})
	third, err := Check(context.Background(), Request{Root: dir, Cache: cache})
	if err != nil {
		t.Fatalf("third Check: %v", err)
	}
	if third.Cached {
		t.Fatalf("an edited file must miss the cache")
	}
}

func TestCheckNoSources(t *testing.T) {
	_, err := Check(context.Background(), Request{Root: t.TempDir()})
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("err = %v, want ErrNoSources", err)
	}
}

func TestCheckInvalidOptions(t *testing.T) {
	opts := options.Default(t.TempDir())
	opts.MaxPasses = 0
	if _, err := Check(context.Background(), Request{Root: t.TempDir(), Options: opts}); err == nil {
		t.Fatalf("expected an options error")
	}
}

func TestCheckDoesNotConverge(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"cycle.jetd": `
[[interface]]
name = "A"
extends = ["B"]

[[interface]]
name = "B"
extends = ["A"]
`})
	res, err := Check(context.Background(), Request{Root: dir})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.Converged {
		t.Fatalf("cyclic supertypes must not converge")
	}
	want := map[string][]diag.Code{"cycle.jetd": {diag.VerificationDidNotConverge, diag.VerificationDidNotConverge}}
	if diff := cmp.Diff(want, resultCodes(res)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckDiagnosticBudget(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"shape.jetd":  shapeSnapshot,
		"square.jetd": squareSnapshot,
	})
	opts := options.Default(dir)
	opts.MaxDiagnostics = 1
	res, err := Check(context.Background(), Request{Root: dir, Options: opts})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := map[string][]diag.Code{"shape.jetd": nil, "square.jetd": {diag.GetterNotImplemented}}
	if diff := cmp.Diff(want, resultCodes(res)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if res.Truncated != 1 {
		t.Fatalf("truncated = %d", res.Truncated)
	}
	// журнал единицы не урезается
	if errs, _ := res.Counts(); errs != 2 {
		t.Fatalf("errors = %d", errs)
	}
}

func TestCheckReportsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.jetd")
	res, err := Check(context.Background(), Request{Root: dir, Files: []string{missing}})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	want := map[string][]diag.Code{"gone.jetd": {diag.IOLoadFileError}}
	if diff := cmp.Diff(want, resultCodes(res)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

type boundNode struct {
	Node  uint32
	Sym   symbols.SymbolID
	State binding.State
}

// programBindings queries the store for the program node and every
// top-level directive of unit i.
func programBindings(res *Result, i int) []boundNode {
	prog := res.Units[i].Program
	sym, state := res.Store.Programs().Lookup(prog)
	out := []boundNode{{Node: uint32(prog), Sym: sym, State: state}}
	p := res.Builder.Programs.Get(prog)
	if p == nil {
		return out
	}
	for _, dir := range p.Directives {
		sym, state := res.Store.Directives().Lookup(dir)
		out = append(out, boundNode{Node: uint32(dir), Sym: sym, State: state})
	}
	return out
}

func TestCachedResultKeepsConvergence(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"cycle.jetd": `
[[interface]]
name = "A"
extends = ["B"]

[[interface]]
name = "B"
extends = ["A"]
`})
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	first, err := Check(context.Background(), Request{Root: dir, Cache: cache})
	if err != nil {
		t.Fatalf("first Check: %v", err)
	}
	second, err := Check(context.Background(), Request{Root: dir, Cache: cache})
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if !second.Cached || second.Converged || second.Passes != first.Passes {
		t.Fatalf("cached = %v, converged = %v, passes = %d (first ran %d)", second.Cached, second.Converged, second.Passes, first.Passes)
	}
	if second.Units[0].Program != first.Units[0].Program || !second.Units[0].Program.IsValid() {
		t.Fatalf("program handle = %d, want %d", second.Units[0].Program, first.Units[0].Program)
	}
	if diff := cmp.Diff(resultCodes(first), resultCodes(second)); diff != "" {
		t.Fatalf("cached diagnostics differ (-first +second):\n%s", diff)
	}
}
