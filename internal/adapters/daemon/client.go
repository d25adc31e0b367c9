// Package daemon implements the inspection daemon: a gRPC server and client over a Unix domain socket.
package daemon

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ports.DaemonClient = (*Client)(nil)

// Client implements ports.DaemonClient.
type Client struct {
	conn       *grpc.ClientConn
	socketPath string
}

// Dial creates a client for the daemon on socketPath.
// grpc.NewClient connects lazily on the first call.
func Dial(socketPath string) (*Client, error) {
	conn, err := grpc.NewClient("unix://"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "daemon client creation failed")
	}
	return &Client{conn: conn, socketPath: socketPath}, nil
}

// Ping checks the daemon's overall health status.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return c.unavailable(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return zerr.With(domain.Tag(domain.ErrDaemonUnavailable, "socket", c.socketPath), "status", resp.GetStatus().String())
	}
	return nil
}

// Status implements ports.DaemonClient.
func (c *Client) Status(ctx context.Context) (*ports.DaemonStatus, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, statusMethod, &emptypb.Empty{}, out); err != nil {
		return nil, c.unavailable(err)
	}

	fields := out.AsMap()
	st := &ports.DaemonStatus{}
	if pid, ok := fields["pid"].(float64); ok {
		st.PID = int(pid)
	}
	if up, ok := fields["uptime_seconds"].(float64); ok {
		st.Uptime = time.Duration(up) * time.Second
	}
	if names, ok := fields["published"].([]any); ok {
		for _, n := range names {
			if s, ok := n.(string); ok {
				st.Published = append(st.Published, s)
			}
		}
	}
	return st, nil
}

// Get implements ports.DaemonClient.
func (c *Client) Get(ctx context.Context, name string) (map[string]any, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getMethod, wrapperspb.String(name), out); err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return nil, domain.Tag(domain.ErrNotPublished, "name", name)
		case codes.Internal:
			return nil, zerr.With(zerr.Wrap(errors.New(status.Convert(err).Message()), "inspection failed"), "name", name)
		default:
			return nil, c.unavailable(err)
		}
	}
	return out.AsMap(), nil
}

// Shutdown implements ports.DaemonClient.
func (c *Client) Shutdown(ctx context.Context) error {
	if err := c.conn.Invoke(ctx, shutdownMethod, &emptypb.Empty{}, new(emptypb.Empty)); err != nil {
		return c.unavailable(err)
	}
	return nil
}

// Close implements ports.DaemonClient.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) unavailable(err error) error {
	return zerr.With(domain.Cause(domain.ErrDaemonUnavailable, err), "socket", c.socketPath)
}
