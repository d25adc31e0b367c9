package domain

import "sync/atomic"

// RegistryState is the lifecycle state of the inspection registry.
type RegistryState uint8

const (
	// StateStopped means nothing is hooked or published.
	StateStopped RegistryState = iota
	// StateStarting means the hook is being installed and objects published.
	StateStarting
	// StateRunning means the hook is installed and objects are published.
	StateRunning
	// StateStopping means objects are being unpublished and the hook removed.
	StateStopping
)

// String returns the uppercase name of the state.
func (s RegistryState) String() string {
	switch s {
	case StateStopped:
		return "STOPPED"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	default:
		return "UNKNOWN"
	}
}

// ConflictPolicy decides what happens when a management name is already published.
type ConflictPolicy string

const (
	// ConflictFail aborts the registry start.
	ConflictFail ConflictPolicy = "fail"
	// ConflictWarn logs a warning and skips the conflicting publication.
	ConflictWarn ConflictPolicy = "warn"
)

// Valid reports whether p is a known policy.
func (p ConflictPolicy) Valid() bool {
	return p == ConflictFail || p == ConflictWarn
}

var handleSeq atomic.Uint64

// RegistrationHandle identifies one active publication.
type RegistrationHandle struct {
	id   uint64
	name string
}

// NewRegistrationHandle issues a handle for a publication under name.
func NewRegistrationHandle(name ManagementName) RegistrationHandle {
	return RegistrationHandle{
		id:   handleSeq.Add(1),
		name: name.String(),
	}
}

// Name returns the serialized management name the handle was issued for.
func (h RegistrationHandle) Name() string {
	return h.name
}

// Valid reports whether the handle was issued by NewRegistrationHandle.
func (h RegistrationHandle) Valid() bool {
	return h.id != 0
}
