package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"jet/internal/decl"
	"jet/internal/options"
)

// ErrNoSources is returned when discovery finds no snapshot files.
var ErrNoSources = errors.New("no declaration snapshots found")

// Discover lists the .jetd files under root in sorted order. Hidden
// directories, the output directory and excluded paths are skipped.
// A root that is itself a snapshot file is returned as is.
func Discover(root string, opts *options.CompilerOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	if !info.IsDir() {
		if filepath.Ext(root) != decl.Ext {
			return nil, fmt.Errorf("discover %s: not a %s file", root, decl.Ext)
		}
		return []string{root}, nil
	}

	outDir, _ := filepath.Abs(opts.OutputDirectory)
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, _ := filepath.Abs(path); abs == outDir {
				return filepath.SkipDir
			}
			if rel != "." && opts.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == decl.Ext && !opts.Excluded(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSources, root)
	}
	// детерминированный порядок: от него зависят FileID и ключ кэша
	slices.Sort(files)
	return files, nil
}
