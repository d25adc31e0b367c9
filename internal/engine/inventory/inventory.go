// Package inventory caches the result of scanning the search path.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

const (
	scanKey    = "scan"
	refreshKey = "refresh"

	// maxScanAttempts bounds how often a query rescans when it keeps being invalidated.
	maxScanAttempts = 3
)

var _ ports.Inspectable = (*Inventory)(nil)

// catalog is one immutable scan result.
type catalog struct {
	entries   []domain.PathEntry
	err       error
	scannedAt time.Time
}

// Inventory scans the search path on first use and serves the cached result until it is
// invalidated or refreshed. A refresh replaces the whole entry set at once.
type Inventory struct {
	scanner ports.PathScanner
	roots   []string
	logger  ports.Logger
	tracer  ports.Tracer

	group   singleflight.Group
	current atomic.Pointer[catalog]
	now     func() time.Time

	// mu orders generation changes against stores of a finished scan.
	mu         sync.Mutex
	generation uint64
}

// New creates an Inventory over roots. Nothing is scanned until the first query.
func New(scanner ports.PathScanner, roots []string, logger ports.Logger, tracer ports.Tracer) *Inventory {
	return &Inventory{
		scanner: scanner,
		roots:   slices.Clone(roots),
		logger:  logger,
		tracer:  tracer,
		now:     time.Now,
	}
}

// Roots returns the scanned search path roots.
func (i *Inventory) Roots() []string {
	return slices.Clone(i.roots)
}

// Entries returns the cached entries, scanning first if there is no result yet.
// Concurrent first queries share a single scan. The returned slice must not be modified.
func (i *Inventory) Entries(ctx context.Context) ([]domain.PathEntry, error) {
	if c := i.current.Load(); c != nil {
		return c.entries, c.err
	}
	c, err := i.load(ctx)
	if err != nil {
		return nil, err
	}
	return c.entries, c.err
}

// Refresh rescans the search path and atomically replaces the cached result.
// Readers keep seeing the previous result until the new scan completes.
func (i *Inventory) Refresh(ctx context.Context) ([]domain.PathEntry, error) {
	v, err, _ := i.group.Do(refreshKey, func() (any, error) {
		// Bumping first discards any scan that started before this refresh.
		gen := i.bump()
		c, err := i.scan(ctx)
		if err != nil {
			return nil, err
		}
		i.storeIf(gen, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	c := v.(*catalog)
	return c.entries, c.err
}

// Invalidate drops the cached result so that the next query rescans.
// A scan that is in flight when Invalidate is called is not cached.
func (i *Inventory) Invalidate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.generation++
	i.current.Store(nil)
}

func (i *Inventory) bump() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.generation++
	return i.generation
}

func (i *Inventory) currentGeneration() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.generation
}

// storeIf caches c unless the inventory was invalidated or refreshed since gen was taken.
func (i *Inventory) storeIf(gen uint64, c *catalog) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.generation != gen {
		return false
	}
	i.current.Store(c)
	return true
}

// Inspect implements ports.Inspectable.
func (i *Inventory) Inspect(ctx context.Context) (map[string]any, error) {
	entries, scanErr := i.Entries(ctx)
	if entries == nil && scanErr != nil {
		return nil, scanErr
	}

	var packaged, loose int
	for _, e := range entries {
		if e.Kind == domain.KindPackaged {
			packaged++
		} else {
			loose++
		}
	}

	roots := make([]any, len(i.roots))
	for n, r := range i.roots {
		roots[n] = r
	}

	attrs := map[string]any{
		"roots":    roots,
		"units":    len(entries),
		"packaged": packaged,
		"loose":    loose,
	}
	if c := i.current.Load(); c != nil {
		attrs["scanned_at"] = c.scannedAt.UTC().Format(time.RFC3339)
	}
	if scanErr != nil {
		attrs["scan_error"] = scanErr.Error()
	}
	return attrs, nil
}

func (i *Inventory) load(ctx context.Context) (*catalog, error) {
	v, err, _ := i.group.Do(scanKey, func() (any, error) {
		if c := i.current.Load(); c != nil {
			return c, nil
		}
		var c *catalog
		for range maxScanAttempts {
			gen := i.currentGeneration()
			var err error
			c, err = i.scan(ctx)
			if err != nil {
				return nil, err
			}
			if i.storeIf(gen, c) {
				return c, nil
			}
		}
		// Still changing: serve the latest scan without caching it.
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog), nil
}

// scan collects one catalog. Root failures are aggregated into the catalog; only
// cancellation aborts the scan.
func (i *Inventory) scan(ctx context.Context) (*catalog, error) {
	ctx, span := i.tracer.Start(ctx, "inventory.scan",
		ports.WithAttribute("roots", strings.Join(i.roots, ",")))
	defer span.End()

	byName := make(map[string]int)
	entries := make([]domain.PathEntry, 0)
	var errs error

	for entry, err := range i.scanner.Scan(ctx, i.roots) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				span.RecordError(ctxErr)
				return nil, ctxErr
			}
			i.logger.Warn(fmt.Sprintf("skipping search path element: %v", err))
			errs = errors.Join(errs, err)
			continue
		}
		// Later roots win on duplicate names.
		if idx, ok := byName[entry.Name]; ok {
			entries[idx] = entry
			continue
		}
		byName[entry.Name] = len(entries)
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b domain.PathEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	span.SetAttribute("units", len(entries))
	if errs != nil {
		span.RecordError(errs)
	}

	return &catalog{entries: entries, err: errs, scannedAt: i.now()}, nil
}
