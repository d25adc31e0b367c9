// Package config provides the configuration loader for unitstat.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds unitstat.yaml in cwd or its parents and resolves it against the defaults.
// Relative paths in the file are resolved against the directory containing it.
// Without a config file the defaults are resolved against cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}

	cfg := domain.DefaultConfig()
	configPath, found := findConfiguration(absCwd)
	if !found {
		cfg.SocketPath = resolvePath(absCwd, cfg.SocketPath)
		return cfg, nil
	}

	var unitfile Unitfile
	if err := readAndUnmarshalYAML(configPath, &unitfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg.Path = configPath
	if err := l.apply(cfg, &unitfile, filepath.Dir(configPath)); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) apply(cfg *domain.Config, f *Unitfile, baseDir string) error {
	seen := make(map[string]struct{}, len(f.Roots))
	for _, root := range f.Roots {
		resolved := resolvePath(baseDir, root)
		if _, dup := seen[resolved]; dup {
			l.Logger.Warn(fmt.Sprintf("search path root %s is listed more than once", resolved))
			continue
		}
		seen[resolved] = struct{}{}
		cfg.Roots = append(cfg.Roots, resolved)
	}

	if len(f.UnitExtensions) > 0 {
		cfg.UnitExtensions = normalizeExtensions(f.UnitExtensions)
	}
	if len(f.ArchiveExtensions) > 0 {
		cfg.ArchiveExtensions = normalizeExtensions(f.ArchiveExtensions)
	}

	if f.Naming != nil {
		if f.Naming.Level != nil {
			if *f.Naming.Level < 0 {
				return domain.Tag(domain.ErrInvalidLevel, "level", *f.Naming.Level)
			}
			cfg.Naming.Level = *f.Naming.Level
		}
		if f.Naming.Statistics != "" {
			cfg.Naming.Statistics = f.Naming.Statistics
		}
		if f.Naming.Inventory != "" {
			cfg.Naming.Inventory = f.Naming.Inventory
		}
	}

	if f.ConflictPolicy != "" {
		policy := domain.ConflictPolicy(strings.ToLower(f.ConflictPolicy))
		if !policy.Valid() {
			return domain.Tag(domain.ErrInvalidConflictPolicy, "conflict_policy", f.ConflictPolicy)
		}
		cfg.ConflictPolicy = policy
	}

	if f.LogFormat != "" {
		format, err := ParseLogFormat(f.LogFormat)
		if err != nil {
			return err
		}
		cfg.LogFormat = format
	}

	if f.Debounce != "" {
		d, err := time.ParseDuration(f.Debounce)
		if err != nil || d < 0 {
			return zerr.With(domain.Cause(domain.ErrConfigParseFailed, err), "debounce", f.Debounce)
		}
		cfg.Debounce = d
	}

	cfg.ExportURI = f.ExportURI
	cfg.Watch = f.Watch
	if f.Socket != "" {
		cfg.SocketPath = f.Socket
	}
	cfg.SocketPath = resolvePath(baseDir, cfg.SocketPath)

	return nil
}

// ParseLogFormat validates a log format name.
func ParseLogFormat(s string) (domain.LogFormat, error) {
	format := domain.LogFormat(strings.ToLower(s))
	if !slices.Contains([]domain.LogFormat{domain.LogFormatAuto, domain.LogFormatPretty, domain.LogFormatJSON}, format) {
		return "", domain.Tag(domain.ErrInvalidLogFormat, "log_format", s)
	}
	return format, nil
}

// ResolveRoots makes relative roots absolute against dir.
func ResolveRoots(dir string, roots []string) []string {
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = resolvePath(dir, r)
	}
	return out
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// Unknown keys are rejected. An empty file leaves target untouched.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by walking up from the working directory
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return domain.Cause(domain.ErrConfigReadFailed, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return domain.Cause(domain.ErrConfigParseFailed, err)
	}

	return nil
}
