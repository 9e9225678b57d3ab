package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"

	"jet/internal/persist"
)

// DiskCache хранит результаты проверки программ по их дайджесту.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(digest string) string {
	return filepath.Join(c.dir, "programs", digest+".mp")
}

// Put writes the snapshot atomically through a temp file and rename.
func (c *DiskCache) Put(digest string, snap *persist.ProgramSnapshot) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(digest)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = multierr.Append(err, rmErr)
		}
	}()

	snap.Digest = digest
	if err := persist.Encode(f, snap); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get returns the snapshot for digest. Missing entries and entries written
// with another schema are misses, not errors.
func (c *DiskCache) Get(digest string) (*persist.ProgramSnapshot, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(digest))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	snap, err := persist.Decode(f)
	if err != nil {
		if errors.Is(err, persist.ErrSchemaMismatch) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache entry %s: %w", digest, err)
	}
	if snap.Digest != digest {
		return nil, false, nil
	}
	return snap, true, nil
}

// CacheStats summarizes what the cache holds on disk.
type CacheStats struct {
	Entries int
	Bytes   int64
	Newest  time.Time
}

// Stats walks the stored program snapshots. Leftover temp files are not
// counted.
func (c *DiskCache) Stats() (CacheStats, error) {
	var st CacheStats
	if c == nil {
		return st, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(c.dir, "programs"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mp" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// запись могла исчезнуть между ReadDir и Info
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
		if info.ModTime().After(st.Newest) {
			st.Newest = info.ModTime()
		}
	}
	return st, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем, чтобы параллельный Get не увидел полуудалённый каталог
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return multierr.Append(os.RemoveAll(old), os.MkdirAll(c.dir, 0o755))
}
