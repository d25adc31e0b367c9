package daemon

import (
	"context"

	"go.trai.ch/unitstat/internal/core/ports"
)

var _ ports.DaemonConnector = (*Connector)(nil)

// Connector implements ports.DaemonConnector.
type Connector struct{}

// NewConnector creates a new daemon connector.
func NewConnector() *Connector {
	return &Connector{}
}

// Connect returns a client once the daemon on socketPath answers a health check.
func (c *Connector) Connect(ctx context.Context, socketPath string) (ports.DaemonClient, error) {
	client, err := Dial(socketPath)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// IsRunning reports whether a daemon answers on socketPath.
func (c *Connector) IsRunning(ctx context.Context, socketPath string) bool {
	client, err := c.Connect(ctx, socketPath)
	if err != nil {
		return false
	}
	_ = client.Close()
	return true
}
