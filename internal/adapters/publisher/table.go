// Package publisher implements an in-process table of published inspection objects.
package publisher

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Publisher = (*Table)(nil)

type publication struct {
	handle domain.RegistrationHandle
	obj    ports.Inspectable
}

// Table maps serialized management names to published objects.
// Lookups are lock-free. Publish and Unpublish serialize on a mutex so the
// conflict check and the insert are atomic.
type Table struct {
	mu       sync.Mutex
	m        sync.Map // map[string]publication
	count    int
	observer func(name string, published bool)
}

// New creates an empty Table.
func New() *Table {
	return &Table{}
}

// Observe registers fn to be called after every publish and unpublish.
// Passing nil removes the observer.
func (t *Table) Observe(fn func(name string, published bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observer = fn
}

// Publish implements ports.Publisher.
func (t *Table) Publish(_ context.Context, name domain.ManagementName, obj ports.Inspectable) (domain.RegistrationHandle, error) {
	key := name.String()

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.m.Load(key); ok {
		return domain.RegistrationHandle{}, domain.Tag(domain.ErrRegistrationConflict, "name", key)
	}

	handle := domain.NewRegistrationHandle(name)
	t.m.Store(key, publication{handle: handle, obj: obj})
	t.count++
	t.notify(key, true)
	return handle, nil
}

// Unpublish implements ports.Publisher.
func (t *Table) Unpublish(_ context.Context, handle domain.RegistrationHandle) error {
	key := handle.Name()

	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.m.Load(key)
	if !ok || v.(publication).handle != handle {
		return zerr.With(domain.Tag(domain.ErrNotPublished, "name", key), "valid_handle", handle.Valid())
	}

	t.m.Delete(key)
	t.count--
	t.notify(key, false)
	return nil
}

// Lookup returns the object published under the serialized name.
func (t *Table) Lookup(name string) (ports.Inspectable, bool) {
	v, ok := t.m.Load(name)
	if !ok {
		return nil, false
	}
	return v.(publication).obj, true
}

// Names returns the published names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Count())
	t.m.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	slices.Sort(names)
	return names
}

// Count returns the number of active publications.
func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// notify must be called with mu held.
func (t *Table) notify(name string, published bool) {
	if t.observer != nil {
		t.observer(name, published)
	}
}
