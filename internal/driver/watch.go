package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"jet/internal/decl"
	"jet/internal/options"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher re-runs a callback when snapshots or the manifest under a root
// change. Events are coalesced for Debounce.
type Watcher struct {
	Root     string
	Options  *options.CompilerOptions
	Debounce time.Duration
	// OnError receives watcher errors; nil drops them.
	OnError func(error)

	fsw *fsnotify.Watcher
}

// Run blocks until ctx is done. onChange gets the sorted set of changed
// paths; calls never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	w.fsw = fsw
	if w.Debounce <= 0 {
		w.Debounce = DefaultDebounce
	}
	if err := w.addTree(w.Root); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.report(err)
					}
					continue
				}
			}
			if !w.relevant(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.Debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.report(err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			onChange(changed)
		}
	}
}

func (w *Watcher) addTree(root string) error {
	outDir := ""
	if w.Options != nil {
		outDir, _ = filepath.Abs(w.Options.OutputDirectory)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, _ := filepath.Abs(path); abs == outDir {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	if base == options.ManifestName {
		return true
	}
	if filepath.Ext(base) != decl.Ext {
		return false
	}
	if w.Options == nil {
		return true
	}
	rel, err := filepath.Rel(w.Root, path)
	return err != nil || !w.Options.Excluded(rel)
}

func (w *Watcher) report(err error) {
	if w.OnError != nil {
		w.OnError(err)
	}
}
