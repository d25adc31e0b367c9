package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/unitstat/internal/adapters/watcher"
	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/unitstat/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startWatcher(t *testing.T, roots ...string) (*watcher.Watcher, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), roots))
	return w, log
}

func nextEvent(t *testing.T, w *watcher.Watcher, match func(ports.WatchEvent) bool) ports.WatchEvent {
	t.Helper()
	found := make(chan ports.WatchEvent, 1)
	go func() {
		for ev := range w.Events() {
			if match(ev) {
				found <- ev
				return
			}
		}
	}()

	select {
	case ev := <-found:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return ports.WatchEvent{}
	}
}

func TestWatcher_DirectoryRoot(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "com", "example")
	require.NoError(t, os.MkdirAll(pkg, domain.DirPerm))

	w, _ := startWatcher(t, root)

	target := filepath.Join(pkg, "Alpha.class")
	require.NoError(t, os.WriteFile(target, []byte{0xca, 0xfe}, domain.FilePerm))

	ev := nextEvent(t, w, func(ev ports.WatchEvent) bool { return ev.Path == target })
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
}

func TestWatcher_ArchiveRootFiltersSiblings(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "app.jar")
	require.NoError(t, os.WriteFile(archive, []byte("v1"), domain.FilePerm))

	w, _ := startWatcher(t, archive)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), domain.FilePerm))
	require.NoError(t, os.WriteFile(archive, []byte("v2"), domain.FilePerm))

	ev := nextEvent(t, w, func(ports.WatchEvent) bool { return true })
	assert.Equal(t, archive, ev.Path)
}

func TestWatcher_MissingRootWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), []string{filepath.Join(t.TempDir(), "missing")}))
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	w, _ := startWatcher(t, t.TempDir())

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	require.NoError(t, w.Stop())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events did not end after Stop")
	}
}
