// Package usage counts unit load events and reports which units were never loaded.
package usage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
)

// shardCount must be a power of two.
const shardCount = 64

// Inventory supplies the units currently present on the search path.
// Entries may return partial results together with an aggregated scan error.
type Inventory interface {
	Entries(ctx context.Context) ([]domain.PathEntry, error)
}

var _ ports.Inspectable = (*Statistics)(nil)

// Statistics is a concurrent load counter keyed by qualified name.
//
// Counters live in shards selected by the hash of the name. RecordLoad only takes a shard's
// read lock once the counter exists, so loads of unrelated units never contend.
type Statistics struct {
	inventory Inventory
	shards    [shardCount]shard
}

type shard struct {
	mu     sync.RWMutex
	counts map[string]*atomic.Uint64
}

// NewStatistics creates an empty counter store. inventory may be nil, in which case
// snapshots only contain units that were loaded.
func NewStatistics(inventory Inventory) *Statistics {
	s := &Statistics{inventory: inventory}
	for i := range s.shards {
		s.shards[i].counts = make(map[string]*atomic.Uint64)
	}
	return s
}

// RecordLoad increments the counter of name, creating it on first use.
// It is safe to call from any goroutine and must not call back into the registry.
func (s *Statistics) RecordLoad(name string) {
	s.counter(name).Add(1)
}

// Count returns the current load count of name.
func (s *Statistics) Count(name string) uint64 {
	sh := s.shardFor(name)
	sh.mu.RLock()
	c, ok := sh.counts[name]
	sh.mu.RUnlock()
	if !ok {
		return 0
	}
	return c.Load()
}

// Reset clears every counter. The inventory is left untouched.
// Loads racing with Reset may be attributed to the counters being discarded.
func (s *Statistics) Reset() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		sh.counts = make(map[string]*atomic.Uint64)
		sh.mu.Unlock()
	}
}

// Snapshot returns one record per known unit sorted by name.
//
// Units from the inventory that were never loaded are reported with a zero count. Loaded units
// absent from the inventory are kept. A scan error from the inventory is returned alongside
// the records built from whatever could be scanned.
func (s *Statistics) Snapshot(ctx context.Context) ([]domain.UnitRecord, error) {
	counts := s.recorded()

	var scanErr error
	if s.inventory != nil {
		entries, err := s.inventory.Entries(ctx)
		if err != nil && ctx.Err() != nil {
			return nil, err
		}
		scanErr = err
		for _, e := range entries {
			if _, ok := counts[e.Name]; !ok {
				counts[e.Name] = 0
			}
		}
	}

	records := make([]domain.UnitRecord, 0, len(counts))
	for name, n := range counts {
		records = append(records, domain.UnitRecord{Name: name, LoadCount: n})
	}
	slices.SortFunc(records, func(a, b domain.UnitRecord) int {
		return strings.Compare(a.Name, b.Name)
	})

	return records, scanErr
}

// Dead returns the units of the current snapshot that were never loaded.
func (s *Statistics) Dead(ctx context.Context) ([]domain.UnitRecord, error) {
	records, err := s.Snapshot(ctx)
	return FilterDead(records), err
}

// Inspect implements ports.Inspectable.
func (s *Statistics) Inspect(ctx context.Context) (map[string]any, error) {
	records, err := s.Snapshot(ctx)
	if records == nil && err != nil {
		return nil, err
	}

	var loaded, dead int
	var loads uint64
	for _, r := range records {
		if r.IsDead() {
			dead++
			continue
		}
		loaded++
		loads += r.LoadCount
	}

	return map[string]any{
		"units":  len(records),
		"loaded": loaded,
		"dead":   dead,
		"loads":  loads,
	}, nil
}

// FilterDead keeps the records with a zero load count.
func FilterDead(records []domain.UnitRecord) []domain.UnitRecord {
	dead := make([]domain.UnitRecord, 0)
	for _, r := range records {
		if r.IsDead() {
			dead = append(dead, r)
		}
	}
	return dead
}

func (s *Statistics) counter(name string) *atomic.Uint64 {
	sh := s.shardFor(name)

	sh.mu.RLock()
	c, ok := sh.counts[name]
	sh.mu.RUnlock()
	if ok {
		return c
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if c, ok = sh.counts[name]; !ok {
		c = new(atomic.Uint64)
		sh.counts[name] = c
	}
	return c
}

func (s *Statistics) recorded() map[string]uint64 {
	out := make(map[string]uint64)
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for name, c := range sh.counts {
			out[name] = c.Load()
		}
		sh.mu.RUnlock()
	}
	return out
}

func (s *Statistics) shardFor(name string) *shard {
	return &s.shards[xxhash.Sum64String(name)&(shardCount-1)]
}
