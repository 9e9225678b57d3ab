// Package options holds the compiler-wide configuration consumed by the
// verification core. Options are built once by the driver and never mutated
// while units are being verified.
package options

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/multierr"
)

const (
	DefaultMaxPasses      = 16
	DefaultMaxDiagnostics = 200
	DefaultOutputDir      = "build"
)

// CompilerOptions is the read-only configuration threaded through the
// verification passes.
type CompilerOptions struct {
	// OutputDirectory resolves metadata file references marked as output.
	OutputDirectory string
	// MaxPasses bounds the number of re-verification passes.
	MaxPasses int
	// Jobs limits parallel unit loading; 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics limits rendered diagnostics per run; 0 means unlimited.
	MaxDiagnostics int
	// Exclude holds slash-separated glob patterns relative to the project root.
	Exclude []string

	excludes []glob.Glob
}

// Default returns options for a project rooted at root.
func Default(root string) *CompilerOptions {
	return &CompilerOptions{
		OutputDirectory: filepath.Join(root, DefaultOutputDir),
		MaxPasses:       DefaultMaxPasses,
		MaxDiagnostics:  DefaultMaxDiagnostics,
	}
}

// Validate checks every field and compiles exclude patterns.
// All problems are reported together.
func (o *CompilerOptions) Validate() error {
	var err error
	if strings.TrimSpace(o.OutputDirectory) == "" {
		err = multierr.Append(err, errors.New("output directory must not be empty"))
	}
	if o.MaxPasses < 1 {
		err = multierr.Append(err, fmt.Errorf("max_passes must be at least 1, got %d", o.MaxPasses))
	}
	if o.Jobs < 0 {
		err = multierr.Append(err, fmt.Errorf("jobs must not be negative, got %d", o.Jobs))
	}
	if o.MaxDiagnostics < 0 {
		err = multierr.Append(err, fmt.Errorf("max_diagnostics must not be negative, got %d", o.MaxDiagnostics))
	}
	o.excludes = o.excludes[:0]
	for _, pattern := range o.Exclude {
		g, gerr := glob.Compile(pattern, '/')
		if gerr != nil {
			err = multierr.Append(err, fmt.Errorf("invalid exclude pattern %q: %w", pattern, gerr))
			continue
		}
		o.excludes = append(o.excludes, g)
	}
	return err
}

// Excluded reports whether a project-relative path matches an exclude pattern.
func (o *CompilerOptions) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range o.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Workers returns the effective loading parallelism.
func (o *CompilerOptions) Workers() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Digest hashes the options that influence verification results.
func (o *CompilerOptions) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "out=%s\x00passes=%d\x00", filepath.ToSlash(o.OutputDirectory), o.MaxPasses)
	return hex.EncodeToString(h.Sum(nil))
}
