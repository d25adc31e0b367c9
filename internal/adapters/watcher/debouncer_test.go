package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/unitstat/internal/adapters/watcher"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) record(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) snapshot() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.got
}

func TestDebouncer_Add_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/lib/z.jar")
		d.Add("/lib/a.class")
		d.Add("/lib/z.jar")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.snapshot(), 1)
		assert.Equal(t, []string{"/lib/a.class", "/lib/z.jar"}, b.snapshot()[0])
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/lib/one.class")
		time.Sleep(80 * time.Millisecond)
		d.Add("/lib/two.class")
		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, b.snapshot(), "quiet period restarts on every event")

		time.Sleep(40 * time.Millisecond)
		synctest.Wait()

		require.Len(t, b.snapshot(), 1)
		assert.Equal(t, []string{"/lib/one.class", "/lib/two.class"}, b.snapshot()[0])
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(time.Hour, b.record)

		d.Add("/lib/a.class")
		d.Flush()

		require.Len(t, b.snapshot(), 1)
		assert.Equal(t, []string{"/lib/a.class"}, b.snapshot()[0])

		time.Sleep(2 * time.Hour)
		synctest.Wait()
		assert.Len(t, b.snapshot(), 1, "flushed paths are not delivered again")
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var b batches
	d := watcher.NewDebouncer(time.Second, b.record)
	d.Flush()
	assert.Empty(t, b.snapshot())
}

func TestDebouncer_Stop_DiscardsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var b batches
		d := watcher.NewDebouncer(100*time.Millisecond, b.record)

		d.Add("/lib/a.class")
		d.Stop()

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Empty(t, b.snapshot())

		d.Flush()
		assert.Empty(t, b.snapshot())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/lib/a.class")

		require.NotPanics(t, func() {
			time.Sleep(20 * time.Millisecond)
			synctest.Wait()
			d.Flush()
		})
	})
}
