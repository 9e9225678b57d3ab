package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the project manifest file name.
const ManifestName = "jet.toml"

// Manifest is a decoded jet.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config ManifestConfig
}

type ManifestConfig struct {
	Package  PackageConfig  `toml:"package"`
	Compiler CompilerConfig `toml:"compiler"`
	Sources  SourcesConfig  `toml:"sources"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type CompilerConfig struct {
	Output         string `toml:"output"`
	MaxPasses      int    `toml:"max_passes"`
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type SourcesConfig struct {
	Exclude []string `toml:"exclude"`
}

// FindManifest walks up from startDir looking for jet.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and decodes the manifest governing startDir.
// The boolean result is false when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadManifestConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func loadManifestConfig(path string) (ManifestConfig, error) {
	var cfg ManifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ManifestConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return ManifestConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return ManifestConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ManifestConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Options converts the manifest into validated compiler options.
// Zero values fall back to defaults; relative paths are anchored at Root.
func (m *Manifest) Options() (*CompilerOptions, error) {
	opts := Default(m.Root)
	c := m.Config.Compiler
	if out := strings.TrimSpace(c.Output); out != "" {
		if !filepath.IsAbs(out) {
			out = filepath.Join(m.Root, filepath.FromSlash(out))
		}
		opts.OutputDirectory = out
	}
	if c.MaxPasses != 0 {
		opts.MaxPasses = c.MaxPasses
	}
	if c.MaxDiagnostics != 0 {
		opts.MaxDiagnostics = c.MaxDiagnostics
	}
	opts.Jobs = c.Jobs
	opts.Exclude = append(opts.Exclude, m.Config.Sources.Exclude...)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	return opts, nil
}
