package ports

import (
	"context"
	"time"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonStatus represents the current state of a running daemon.
type DaemonStatus struct {
	PID       int
	Uptime    time.Duration
	Published []string
}

// DaemonClient defines the interface for querying a running daemon.
type DaemonClient interface {
	// Status returns the daemon status including the published names.
	Status(ctx context.Context) (*DaemonStatus, error)

	// Get returns the attributes of the object published under name.
	// It fails with domain.ErrNotPublished if nothing is published under name.
	Get(ctx context.Context, name string) (map[string]any, error)

	// Shutdown requests a graceful daemon shutdown.
	Shutdown(ctx context.Context) error

	// Close releases client resources.
	Close() error
}

// DaemonConnector locates a daemon listening on a socket.
type DaemonConnector interface {
	// Connect returns a client to the daemon on socketPath.
	// It fails with domain.ErrDaemonUnavailable if no daemon answers.
	Connect(ctx context.Context, socketPath string) (DaemonClient, error)

	// IsRunning reports whether a daemon answers on socketPath.
	IsRunning(ctx context.Context, socketPath string) bool
}
