package driver

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jet/internal/options"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.jetd":               "",
		"a/z.jetd":             "",
		"a/gen/skip.jetd":      "",
		".git/x.jetd":          "",
		"build/out.jetd":       "",
		"readme.md":            "",
		"a/nested/deep/y.jetd": "",
	})
	opts := options.Default(dir)
	opts.Exclude = []string{"a/gen"}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got, err := Discover(dir, opts)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for i := range got {
		rel, _ := filepath.Rel(dir, got[i])
		got[i] = filepath.ToSlash(rel)
	}
	want := []string{"a/nested/deep/y.jetd", "a/z.jetd", "b.jetd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"one.jetd": "", "two.txt": ""})
	opts := options.Default(dir)

	got, err := Discover(filepath.Join(dir, "one.jetd"), opts)
	if err != nil || len(got) != 1 {
		t.Fatalf("Discover = %v, %v", got, err)
	}
	if _, err := Discover(filepath.Join(dir, "two.txt"), opts); err == nil {
		t.Fatalf("expected an error for a non-snapshot file")
	}
	if _, err := Discover(filepath.Join(dir, "missing"), opts); err == nil {
		t.Fatalf("expected an error for a missing root")
	}
}

func TestDiscoverEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"build/only.jetd": ""})
	_, err := Discover(dir, options.Default(dir))
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("err = %v, want ErrNoSources", err)
	}
}
