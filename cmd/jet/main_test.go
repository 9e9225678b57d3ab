package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return dir
}

const iconSnapshot = `package = "widgets"

[[interface]]
name = "Sized"
  [[interface.getter]]
  name = "size"
  type = "Number"

[[class]]
name = "Icon"
implements = ["Sized"]
  [[class.metadata]]
  name = "Embed"
  entries = [{ key = "width", number = "0x1F" }, { key = "mode", ident = "fit" }]
  [[class.getter]]
  name = "size"
  modifiers = ["public"]
  type = "Number"
`

func TestCheckCommandShortFormat(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"jet.toml":    "[package]\nname = \"widgets\"\n",
		"icon.jetd":   iconSnapshot,
		"broken.jetd": "[[class]]\nname = \"Box\"\nimplements = [\"Missing\"]\n",
	})
	out, _, err := execute(t, "check", "--format", "short", "--ui", "off", dir)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("err = %v, want errCheckFailed", err)
	}
	if !strings.Contains(out, "broken.jetd:3:16: ERROR SEM") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "icon.jetd") {
		t.Fatalf("clean unit reported:\n%s", out)
	}
}

func TestCheckCommandPrettySummary(t *testing.T) {
	dir := writeProject(t, map[string]string{"icon.jetd": iconSnapshot})
	out, _, err := execute(t, "check", "--ui", "off", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.HasPrefix(out, "ok: 1 units, 0 errors, 0 warnings") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCheckCommandWarningsAsErrors(t *testing.T) {
	dir := writeProject(t, map[string]string{"w.jetd": `
[[class]]
name = "Quiet"
  [[class.method]]
  name = "extra"
  metadata = [{ name = "Optional" }]
`})
	if _, _, err := execute(t, "check", "--ui", "off", dir); err != nil {
		t.Fatalf("warnings alone must pass: %v", err)
	}
	if _, _, err := execute(t, "check", "--ui", "off", "--warnings-as-errors", dir); !errors.Is(err, errCheckFailed) {
		t.Fatalf("err = %v, want errCheckFailed", err)
	}
}

func TestCheckCommandNoSources(t *testing.T) {
	_, errOut, err := execute(t, "check", "--ui", "off", t.TempDir())
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(errOut, "PRJ5001: ") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestCheckCommandRejectsBadFlags(t *testing.T) {
	dir := writeProject(t, map[string]string{"icon.jetd": iconSnapshot})
	for _, args := range [][]string{
		{"check", "--format", "xml", dir},
		{"check", "--ui", "maybe", dir},
		{"check", "--ui", "on", "--format", "json", dir},
		{"check", "--trace", "loud", dir},
	} {
		if _, _, err := execute(t, args...); err == nil || errors.Is(err, errCheckFailed) {
			t.Fatalf("%v: err = %v", args, err)
		}
	}
}

func TestMetadataCommand(t *testing.T) {
	dir := writeProject(t, map[string]string{"icon.jetd": iconSnapshot})
	out, _, err := execute(t, "metadata", filepath.Join(dir, "icon.jetd"))
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	var got []metadataJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].Symbol != "Icon" || got[0].Metadata[0].Name != "Embed" {
		t.Fatalf("unexpected metadata %+v", got)
	}
	width := got[0].Metadata[0].Entries[0]
	if width.Key != "width" || width.Kind != "number" || width.Value != float64(31) {
		t.Fatalf("width entry = %+v", width)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil || payload.Tool != "jet" {
		t.Fatalf("payload = %+v, err = %v", payload, err)
	}
}

func TestProgressUIFlag(t *testing.T) {
	for in, want := range map[string]progressUI{"": progressAuto, "ON": progressOn, " off ": progressOff} {
		var got progressUI
		if err := got.Set(in); err != nil || got != want {
			t.Fatalf("Set(%q) = %v, %v", in, got, err)
		}
	}
	var m progressUI
	if err := m.Set("maybe"); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
	if m.String() != "auto" {
		t.Fatalf("failed Set must keep the old value, got %s", m)
	}
}

func TestProgressUIDecision(t *testing.T) {
	tests := []struct {
		mode   progressUI
		format string
		watch  bool
		tty    bool
		want   bool
	}{
		{progressAuto, "pretty", false, true, true},
		{progressAuto, "pretty", false, false, false},
		{progressAuto, "json", false, true, false},
		{progressAuto, "pretty", true, true, false},
		{progressOn, "pretty", false, false, true},
		{progressOff, "pretty", false, true, false},
	}
	for _, tt := range tests {
		if got := tt.mode.enabled(tt.format, tt.watch, tt.tty); got != tt.want {
			t.Fatalf("%s/%s/watch=%v/tty=%v: got %v", tt.mode, tt.format, tt.watch, tt.tty, got)
		}
	}
	if err := progressOn.conflict("json", false); err == nil {
		t.Fatalf("--ui on with json output must be rejected")
	}
	if err := progressOn.conflict("pretty", true); err == nil {
		t.Fatalf("--ui on with --watch must be rejected")
	}
	if err := progressAuto.conflict("json", true); err != nil {
		t.Fatalf("auto never conflicts: %v", err)
	}
}
