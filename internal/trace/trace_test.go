package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, ring, err := New(Config{Level: LevelPhase, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	root := Begin(tr, ScopeDriver, "check", 0)
	Begin(tr, ScopeUnit, "unit:a.jetd", root.ID()).End("")
	root.WithExtra("units", "1").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 events (unit scope filtered), got %d:\n%s", len(lines), buf.String())
	}
	var last jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &last); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if last.Kind != "end" || last.Detail != "ok" || last.Extra["units"] != "1" {
		t.Fatalf("end event = %+v", last)
	}
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("ring kept %d events", n)
	}
}

func TestErrorLevelOnlyBuffers(t *testing.T) {
	tr, ring, err := New(Config{Level: LevelError})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeNode, "verify", 0).End("")
	var out bytes.Buffer
	if err := ring.Dump(&out, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(out.String(), "→ verify") || !strings.Contains(out.String(), "← verify") {
		t.Fatalf("dump = %q", out.String())
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatalf("empty context must yield Nop")
	}
	ring := NewRingTracer(8, LevelDebug)
	ctx = WithSpan(WithTracer(ctx, ring), 42)
	if FromContext(ctx) != Tracer(ring) || CurrentSpan(ctx) != 42 {
		t.Fatalf("context lost tracer or span")
	}
}

func TestRingDumpUnits(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	root := Begin(ring, ScopeDriver, "check", 0)
	BeginUnit(ring, "a.jetd", "decode", root.ID()).End("")
	BeginUnit(ring, "b.jetd", "decode", root.ID()).End("")
	Note(ring, "b.jetd", "conform", "Square implements Shape: 2 findings", root.ID())
	root.End("failed")

	var out bytes.Buffer
	if err := ring.DumpUnits(&out, FormatText, []string{"b.jetd"}); err != nil {
		t.Fatalf("DumpUnits: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "[a.jetd]") {
		t.Fatalf("dump kept events of a.jetd:\n%s", got)
	}
	for _, want := range []string{"→ check", "→ decode [b.jetd]", "• conform [b.jetd] (Square implements Shape: 2 findings)", "← check (failed)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("dump misses %q:\n%s", want, got)
		}
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopePass, name, "", 0)
	}
	events := ring.Snapshot()
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	if strings.Join(names, ",") != "c,d,e" || ring.Dropped() != 2 {
		t.Fatalf("ring = %v dropped %d, want c,d,e dropped 2", names, ring.Dropped())
	}
	var out bytes.Buffer
	if err := ring.Dump(&out, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.HasPrefix(out.String(), "... 2 earlier events dropped\n") {
		t.Fatalf("dump = %q", out.String())
	}
}

func TestLevelFlagValue(t *testing.T) {
	var l Level
	if err := l.Set("Detail"); err != nil || l != LevelDetail {
		t.Fatalf("Set(Detail) = %v, %v", l, err)
	}
	if err := l.Set("loud"); err == nil {
		t.Fatalf("Set(loud) must fail")
	}
	if l.String() != "detail" || l.Type() != "level" {
		t.Fatalf("level = %s (%s)", l, l.Type())
	}
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestStreamKeepsFirstWriteError(t *testing.T) {
	w := &failingWriter{}
	tr := NewStreamTracer(w, LevelPhase, FormatText)
	Point(tr, ScopeDriver, "first", "", 0)
	Point(tr, ScopeDriver, "second", "", 0)
	if err := tr.Close(); err == nil || err.Error() != "disk full" {
		t.Fatalf("Close = %v, want disk full", err)
	}
	if w.writes != 1 {
		t.Fatalf("writer called %d times after failing", w.writes)
	}
}
