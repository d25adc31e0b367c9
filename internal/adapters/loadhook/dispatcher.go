// Package loadhook delivers unit load events to the installed callback.
package loadhook

import (
	"sync/atomic"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
)

var _ ports.LoadHook = (*Dispatcher)(nil)

// Dispatcher holds at most one load callback.
// Notify never blocks and never takes a lock, so it can sit on the loading hot path.
type Dispatcher struct {
	onLoad  atomic.Pointer[func(string)]
	dropped atomic.Uint64
}

// NewDispatcher creates a Dispatcher with no callback installed.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Install implements ports.LoadHook.
func (d *Dispatcher) Install(onLoad func(name string)) error {
	if !d.onLoad.CompareAndSwap(nil, &onLoad) {
		return domain.ErrHookAlreadyInstalled
	}
	return nil
}

// Uninstall implements ports.LoadHook.
func (d *Dispatcher) Uninstall() error {
	d.onLoad.Store(nil)
	return nil
}

// Installed reports whether a callback is currently installed.
func (d *Dispatcher) Installed() bool {
	return d.onLoad.Load() != nil
}

// Notify reports one load of name. Events arriving while no callback is installed are dropped.
func (d *Dispatcher) Notify(name string) {
	fn := d.onLoad.Load()
	if fn == nil {
		d.dropped.Add(1)
		return
	}
	(*fn)(name)
}

// Dropped returns the number of events that arrived with no callback installed.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}
