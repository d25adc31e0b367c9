// Package scanner enumerates the loadable units reachable from search path roots.
package scanner

import (
	"archive/zip"
	"context"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/zerr"
)

// metaInfDir holds archive metadata, never loadable units.
const metaInfDir = "META-INF/"

var _ ports.PathScanner = (*Scanner)(nil)

// Scanner walks directory trees and archives. It keeps no state between scans.
type Scanner struct {
	unitExts    []string
	archiveExts []string
}

// New creates a Scanner. Empty extension lists fall back to the defaults.
func New(unitExts, archiveExts []string) *Scanner {
	if len(unitExts) == 0 {
		unitExts = []string{domain.DefaultUnitExtension}
	}
	if len(archiveExts) == 0 {
		archiveExts = domain.DefaultArchiveExtensions()
	}
	return &Scanner{
		unitExts:    lower(unitExts),
		archiveExts: lower(archiveExts),
	}
}

// Scan yields every unit found under roots in root order.
// A failing root yields one error and the scan moves on to the next root.
// Cancelling ctx yields ctx.Err() once and ends the sequence.
func (s *Scanner) Scan(ctx context.Context, roots []string) iter.Seq2[domain.PathEntry, error] {
	return func(yield func(domain.PathEntry, error) bool) {
		for _, root := range roots {
			if err := ctx.Err(); err != nil {
				yield(domain.PathEntry{}, err)
				return
			}
			if !s.scanRoot(ctx, root, yield) {
				return
			}
		}
	}
}

// scanRoot reports false when the consumer stopped the iteration.
func (s *Scanner) scanRoot(ctx context.Context, root string, yield func(domain.PathEntry, error) bool) bool {
	info, err := os.Stat(root)
	if err != nil {
		return yield(domain.PathEntry{}, zerr.With(domain.Cause(domain.ErrScanFailed, err), "root", root))
	}

	switch {
	case info.IsDir():
		return s.walkDir(ctx, root, yield)
	case s.isArchive(root):
		return s.readArchive(root, yield)
	default:
		return yield(domain.PathEntry{}, domain.Tag(domain.ErrUnsupportedRoot, "root", root))
	}
}

func (s *Scanner) walkDir(ctx context.Context, root string, yield func(domain.PathEntry, error) bool) bool {
	source := domain.NewInternedString(root)
	stopped := false

	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if !yield(domain.PathEntry{}, zerr.With(domain.Cause(domain.ErrScanFailed, err), "path", p)) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			yield(domain.PathEntry{}, ctxErr)
			stopped = true
			return filepath.SkipAll
		}

		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case s.isUnit(p):
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return nil
			}
			entry := domain.PathEntry{
				Name:   s.qualifiedName(filepath.ToSlash(rel)),
				Source: source,
				Kind:   domain.KindLoose,
			}
			if !yield(entry, nil) {
				stopped = true
				return filepath.SkipAll
			}
		case s.isArchive(p):
			if !s.readArchive(p, yield) {
				stopped = true
				return filepath.SkipAll
			}
		}
		return nil
	})

	return !stopped
}

func (s *Scanner) readArchive(archive string, yield func(domain.PathEntry, error) bool) bool {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return yield(domain.PathEntry{}, zerr.With(domain.Cause(domain.ErrArchiveOpenFailed, err), "archive", archive))
	}
	defer func() { _ = r.Close() }()

	source := domain.NewInternedString(archive)
	for _, f := range r.File {
		name := f.Name
		if strings.HasSuffix(name, "/") || strings.HasPrefix(name, metaInfDir) || !s.isUnit(name) {
			continue
		}
		entry := domain.PathEntry{
			Name:   s.qualifiedName(name),
			Source: source,
			Kind:   domain.KindPackaged,
		}
		if !yield(entry, nil) {
			return false
		}
	}
	return true
}

// qualifiedName converts a slash-separated relative path into a namespace-separated name.
func (s *Scanner) qualifiedName(rel string) string {
	rel = strings.TrimPrefix(path.Clean(rel), "/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", domain.NamespaceSeparator)
}

func (s *Scanner) isUnit(p string) bool {
	return hasExt(p, s.unitExts)
}

func (s *Scanner) isArchive(p string) bool {
	return hasExt(p, s.archiveExts)
}

func hasExt(p string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(path.Ext(p)))
}

func skipDir(name string) bool {
	return name == ".git" || name == ".jj"
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
