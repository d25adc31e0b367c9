// Package registry wires the load hook and the published inspection objects to a lifecycle.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/unitstat/internal/engine/naming"
	"go.trai.ch/zerr"
)

// Statistics is the usage counter the registry feeds and publishes.
type Statistics interface {
	ports.Inspectable
	RecordLoad(name string)
}

// Options controls naming and conflict handling.
type Options struct {
	// Level is the nesting level passed to naming.Resolve.
	Level int
	// StatisticsName is the qualified name the statistics are published under.
	StatisticsName string
	// InventoryName is the qualified name the path inventory is published under.
	InventoryName string
	// Policy decides what happens when a name is already published. With ConflictWarn a
	// conflicting publication is skipped, but Start still fails when nothing was published,
	// so the hook is never installed without a publication.
	Policy domain.ConflictPolicy
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:          domain.DefaultNamingLevel,
		StatisticsName: domain.DefaultStatisticsName,
		InventoryName:  domain.DefaultInventoryName,
		Policy:         domain.ConflictFail,
	}
}

// Registry moves through STOPPED, STARTING, RUNNING and STOPPING.
//
// Start and Stop serialize on the registry's mutex. Hook installation is always paired with
// publication: a failed Start leaves neither behind. Start and Stop must not be called from
// inside a load callback.
type Registry struct {
	mu    sync.Mutex
	state atomic.Uint32

	publisher ports.Publisher
	hook      ports.LoadHook
	stats     Statistics
	inventory ports.Inspectable
	logger    ports.Logger
	opts      Options

	handles []domain.RegistrationHandle
}

// New creates a stopped Registry.
func New(
	publisher ports.Publisher,
	hook ports.LoadHook,
	stats Statistics,
	inventory ports.Inspectable,
	logger ports.Logger,
	opts Options,
) *Registry {
	return &Registry{
		publisher: publisher,
		hook:      hook,
		stats:     stats,
		inventory: inventory,
		logger:    logger,
		opts:      opts,
	}
}

// State returns the current lifecycle state.
func (r *Registry) State() domain.RegistryState {
	return domain.RegistryState(r.state.Load())
}

// Published returns the names of the active publications.
func (r *Registry) Published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.handles))
	for i, h := range r.handles {
		names[i] = h.Name()
	}
	return names
}

// Start installs the load hook and publishes the statistics and the inventory.
// It fails with domain.ErrAlreadyRunning unless the registry is stopped. Any other failure
// rolls back what was done so far and leaves the registry stopped.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state := r.State(); state != domain.StateStopped {
		return domain.Tag(domain.ErrAlreadyRunning, "state", state.String())
	}
	r.setState(domain.StateStarting)

	targets, err := r.targets()
	if err != nil {
		r.setState(domain.StateStopped)
		return err
	}

	if err := r.hook.Install(r.stats.RecordLoad); err != nil {
		r.setState(domain.StateStopped)
		return zerr.Wrap(err, "failed to install load hook")
	}

	for _, t := range targets {
		handle, err := r.publisher.Publish(ctx, t.name, t.obj)
		if err == nil {
			r.handles = append(r.handles, handle)
			continue
		}
		if errors.Is(err, domain.ErrRegistrationConflict) && r.opts.Policy == domain.ConflictWarn {
			r.logger.Warn(fmt.Sprintf("%s is already published, skipping", t.name))
			continue
		}
		return errors.Join(err, r.teardown(ctx))
	}

	if len(r.handles) == 0 {
		err := domain.Tag(domain.ErrRegistrationConflict, "skipped", len(targets))
		return errors.Join(err, r.teardown(ctx))
	}

	r.setState(domain.StateRunning)
	return nil
}

// Stop unpublishes everything and uninstalls the load hook.
// Calling Stop on a stopped registry is a no-op.
func (r *Registry) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State() == domain.StateStopped {
		return nil
	}
	r.setState(domain.StateStopping)
	return r.teardown(ctx)
}

type target struct {
	name domain.ManagementName
	obj  ports.Inspectable
}

func (r *Registry) targets() ([]target, error) {
	statsName, err := naming.Resolve(r.opts.StatisticsName, r.opts.Level)
	if err != nil {
		return nil, zerr.With(err, "object", "statistics")
	}
	invName, err := naming.Resolve(r.opts.InventoryName, r.opts.Level)
	if err != nil {
		return nil, zerr.With(err, "object", "inventory")
	}
	return []target{
		{name: statsName, obj: r.stats},
		{name: invName, obj: r.inventory},
	}, nil
}

// teardown unpublishes in reverse order, uninstalls the hook and marks the registry stopped.
// It must be called with mu held.
func (r *Registry) teardown(ctx context.Context) error {
	var errs error
	for _, h := range slices.Backward(r.handles) {
		if err := r.publisher.Unpublish(ctx, h); err != nil {
			errs = errors.Join(errs, zerr.With(err, "handle", h.Name()))
		}
	}
	r.handles = nil

	if err := r.hook.Uninstall(); err != nil {
		errs = errors.Join(errs, zerr.Wrap(err, "failed to uninstall load hook"))
	}

	r.setState(domain.StateStopped)
	return errs
}

func (r *Registry) setState(s domain.RegistryState) {
	r.state.Store(uint32(s))
}
