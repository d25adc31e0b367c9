package daemon

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC name of the inspection service.
const ServiceName = "unitstat.v1.Inspection"

const (
	getMethod      = "/" + ServiceName + "/Get"
	statusMethod   = "/" + ServiceName + "/Status"
	shutdownMethod = "/" + ServiceName + "/Shutdown"
)

// InspectionServer is the server API of the inspection service.
// Messages are protobuf well-known types so no generated code is needed.
type InspectionServer interface {
	// Get returns the attributes of the object published under the given name.
	Get(ctx context.Context, name *wrapperspb.StringValue) (*structpb.Struct, error)
	// Status returns pid, uptime_seconds and the published names.
	Status(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
	// Shutdown asks the daemon to stop.
	Shutdown(ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error)
}

var inspectionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InspectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: getHandler},
		{MethodName: "Status", Handler: statusHandler},
		{MethodName: "Shutdown", Handler: shutdownHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterInspectionServer registers srv on s.
func RegisterInspectionServer(s grpc.ServiceRegistrar, srv InspectionServer) {
	s.RegisterService(&inspectionServiceDesc, srv)
}

func getHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).Get(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func shutdownHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InspectionServer).Shutdown(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: shutdownMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(InspectionServer).Shutdown(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
