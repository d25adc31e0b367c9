package daemon

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ InspectionServer = (*Server)(nil)

// probeTimeout bounds the check for another daemon on the socket.
const probeTimeout = time.Second

// Directory is the set of published objects the server exposes.
type Directory interface {
	Lookup(name string) (ports.Inspectable, bool)
	Names() []string
	Observe(fn func(name string, published bool))
}

// Server serves the inspection and health services on a Unix socket.
// Every published name is also a health service name that reports SERVING while published.
type Server struct {
	lifecycle  *Lifecycle
	directory  Directory
	socketPath string
	grpcServer *grpc.Server
	health     *health.Server
	ready      chan struct{}
	readyOnce  sync.Once
}

// NewServer creates a daemon server for the objects in directory.
func NewServer(lifecycle *Lifecycle, directory Directory, socketPath string) *Server {
	s := &Server{
		lifecycle:  lifecycle,
		directory:  directory,
		socketPath: socketPath,
		grpcServer: grpc.NewServer(),
		health:     health.NewServer(),
		ready:      make(chan struct{}),
	}
	RegisterInspectionServer(s.grpcServer, s)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	return s
}

// Ready returns a channel that closes once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens on the socket until ctx is done or shutdown is requested.
// A stale socket is replaced. A socket that still answers fails with domain.ErrDaemonRunning.
func (s *Server) Serve(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create daemon directory")
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	running := NewConnector().IsRunning(probeCtx, s.socketPath)
	cancel()
	if running {
		return domain.Tag(domain.ErrDaemonRunning, "socket", s.socketPath)
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return zerr.Wrap(err, "failed to remove stale socket")
	}

	lis, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen on UDS"), "socket", s.socketPath)
	}

	if err := os.Chmod(s.socketPath, domain.SocketPerm); err != nil {
		_ = lis.Close()
		return zerr.Wrap(err, "failed to set socket permissions")
	}

	defer func() { _ = os.Remove(s.socketPath) }()

	s.directory.Observe(s.observe)
	defer s.directory.Observe(nil)
	for _, name := range s.directory.Names() {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.grpcServer.Serve(lis)
	}()
	s.readyOnce.Do(func() { close(s.ready) })

	select {
	case <-ctx.Done():
		s.stop()
		return ctx.Err()
	case <-s.lifecycle.ShutdownChan():
		s.stop()
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

func (s *Server) stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func (s *Server) observe(name string, published bool) {
	if published {
		s.health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
		return
	}
	s.health.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Get implements InspectionServer.
func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	s.lifecycle.ResetTimer()

	obj, ok := s.directory.Lookup(in.GetValue())
	if !ok {
		return nil, status.Errorf(codes.NotFound, "%s: %s", domain.ErrNotPublished.Error(), in.GetValue())
	}

	attrs, err := obj.Inspect(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	out, err := structpb.NewStruct(attrs)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Status implements InspectionServer.
func (s *Server) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.lifecycle.ResetTimer()

	names := s.directory.Names()
	published := make([]any, len(names))
	for i, n := range names {
		published[i] = n
	}

	out, err := structpb.NewStruct(map[string]any{
		"pid":            os.Getpid(),
		"uptime_seconds": int64(s.lifecycle.Uptime().Seconds()),
		"published":      published,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Shutdown implements InspectionServer.
func (s *Server) Shutdown(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.lifecycle.Shutdown()
	return &emptypb.Empty{}, nil
}
