package inventory_test

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/unitstat/internal/adapters/telemetry"
	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports/mocks"
	"go.trai.ch/unitstat/internal/engine/inventory"
	"go.uber.org/mock/gomock"
)

type result struct {
	entry domain.PathEntry
	err   error
}

// fakeScanner replays a fixed scan and counts how often it was started.
type fakeScanner struct {
	mu      sync.Mutex
	results []result
	calls   atomic.Int32
	gate    chan struct{}
}

func (f *fakeScanner) set(results ...result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = results
}

func (f *fakeScanner) Scan(ctx context.Context, _ []string) iter.Seq2[domain.PathEntry, error] {
	f.calls.Add(1)
	f.mu.Lock()
	results := f.results
	f.mu.Unlock()

	return func(yield func(domain.PathEntry, error) bool) {
		if f.gate != nil {
			<-f.gate
		}
		for _, r := range results {
			if err := ctx.Err(); err != nil {
				yield(domain.PathEntry{}, err)
				return
			}
			if !yield(r.entry, r.err) {
				return
			}
		}
	}
}

func entry(name, source string, kind domain.EntryKind) result {
	return result{entry: domain.PathEntry{Name: name, Source: domain.NewInternedString(source), Kind: kind}}
}

func newInventory(t *testing.T, scanner *fakeScanner) *inventory.Inventory {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return inventory.New(scanner, []string{"/a", "/b"}, logger, telemetry.NewNoOpTracer())
}

func TestInventory_LazyAndCached(t *testing.T) {
	scanner := &fakeScanner{}
	scanner.set(entry("b.B", "/a", domain.KindLoose), entry("a.A", "/b", domain.KindPackaged))
	inv := newInventory(t, scanner)

	assert.Equal(t, int32(0), scanner.calls.Load())

	entries, err := inv.Entries(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.A", entries[0].Name)
	assert.Equal(t, "b.B", entries[1].Name)

	_, err = inv.Entries(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), scanner.calls.Load())
}

func TestInventory_DuplicatesLastRootWins(t *testing.T) {
	scanner := &fakeScanner{}
	scanner.set(
		entry("a.A", "/a", domain.KindLoose),
		entry("a.A", "/b/lib.jar", domain.KindPackaged),
	)
	inv := newInventory(t, scanner)

	entries, err := inv.Entries(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/b/lib.jar", entries[0].Source.String())
	assert.Equal(t, domain.KindPackaged, entries[0].Kind)
}

func TestInventory_ScanErrorsAreAggregated(t *testing.T) {
	scanner := &fakeScanner{}
	missing := domain.Tag(domain.ErrScanFailed, "root", "/missing")
	scanner.set(
		result{err: missing},
		entry("a.A", "/b", domain.KindLoose),
	)
	inv := newInventory(t, scanner)

	entries, err := inv.Entries(t.Context())
	require.ErrorIs(t, err, domain.ErrScanFailed)
	require.Len(t, entries, 1)
}

func TestInventory_ConcurrentFirstQueriesShareScan(t *testing.T) {
	scanner := &fakeScanner{gate: make(chan struct{})}
	scanner.set(entry("a.A", "/a", domain.KindLoose))
	inv := newInventory(t, scanner)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			entries, err := inv.Entries(context.Background())
			assert.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
	close(scanner.gate)
	wg.Wait()

	assert.LessOrEqual(t, scanner.calls.Load(), int32(8))
	_, err := inv.Entries(t.Context())
	require.NoError(t, err)
	calls := scanner.calls.Load()
	_, _ = inv.Entries(t.Context())
	assert.Equal(t, calls, scanner.calls.Load())
}

func TestInventory_RefreshReplacesSet(t *testing.T) {
	scanner := &fakeScanner{}
	scanner.set(entry("a.A", "/a", domain.KindLoose))
	inv := newInventory(t, scanner)

	_, err := inv.Entries(t.Context())
	require.NoError(t, err)

	scanner.set(entry("b.B", "/a", domain.KindLoose), entry("c.C", "/a", domain.KindLoose))
	entries, err := inv.Refresh(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = inv.Entries(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "b.B", entries[0].Name)
	assert.Equal(t, int32(2), scanner.calls.Load())
}

func TestInventory_Invalidate(t *testing.T) {
	scanner := &fakeScanner{}
	scanner.set(entry("a.A", "/a", domain.KindLoose))
	inv := newInventory(t, scanner)

	_, err := inv.Entries(t.Context())
	require.NoError(t, err)
	inv.Invalidate()
	_, err = inv.Entries(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int32(2), scanner.calls.Load())
}

func TestInventory_InvalidateDuringScan(t *testing.T) {
	scanner := &fakeScanner{gate: make(chan struct{})}
	scanner.set(entry("a.Old", "/a", domain.KindLoose))
	inv := newInventory(t, scanner)

	done := make(chan []domain.PathEntry, 1)
	go func() {
		entries, err := inv.Entries(context.Background())
		assert.NoError(t, err)
		done <- entries
	}()

	require.Eventually(t, func() bool { return scanner.calls.Load() == 1 }, time.Second, time.Millisecond)
	scanner.set(entry("a.New", "/a", domain.KindLoose), entry("b.New", "/a", domain.KindLoose))
	inv.Invalidate()
	close(scanner.gate)

	inflight := <-done
	assert.Len(t, inflight, 2)

	entries, err := inv.Entries(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.New", entries[0].Name)
	assert.Equal(t, int32(2), scanner.calls.Load())
}

func TestInventory_RefreshDiscardsStaleScan(t *testing.T) {
	scanner := &fakeScanner{gate: make(chan struct{})}
	scanner.set(entry("a.Old", "/a", domain.KindLoose))
	inv := newInventory(t, scanner)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = inv.Entries(context.Background())
	}()

	require.Eventually(t, func() bool { return scanner.calls.Load() == 1 }, time.Second, time.Millisecond)
	scanner.set(entry("b.New", "/a", domain.KindLoose))
	refreshed := make(chan []domain.PathEntry, 1)
	go func() {
		entries, err := inv.Refresh(context.Background())
		assert.NoError(t, err)
		refreshed <- entries
	}()
	require.Eventually(t, func() bool { return scanner.calls.Load() >= 2 }, time.Second, time.Millisecond)
	close(scanner.gate)
	<-done

	entries := <-refreshed
	require.Len(t, entries, 1)
	assert.Equal(t, "b.New", entries[0].Name)

	entries, err := inv.Entries(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.New", entries[0].Name)
}

func TestInventory_CancelledScanIsNotCached(t *testing.T) {
	scanner := &fakeScanner{}
	scanner.set(entry("a.A", "/a", domain.KindLoose))
	inv := newInventory(t, scanner)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := inv.Entries(ctx)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := inv.Entries(t.Context())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInventory_Inspect(t *testing.T) {
	scanner := &fakeScanner{}
	scanner.set(
		entry("a.A", "/a", domain.KindLoose),
		entry("b.B", "/b/x.jar", domain.KindPackaged),
		entry("c.C", "/b/x.jar", domain.KindPackaged),
	)
	inv := newInventory(t, scanner)

	attrs, err := inv.Inspect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []any{"/a", "/b"}, attrs["roots"])
	assert.Equal(t, 3, attrs["units"])
	assert.Equal(t, 2, attrs["packaged"])
	assert.Equal(t, 1, attrs["loose"])
	assert.NotEmpty(t, attrs["scanned_at"])
	assert.NotContains(t, attrs, "scan_error")
}
