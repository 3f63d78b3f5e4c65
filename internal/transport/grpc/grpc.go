// Package grpc implements the gRPC transport for newsvox.
//
// The transport serves a single unary method, newsvox.v1.Voice/Dispatch,
// whose request and response are message.Message and message.DispatchResult
// encoded with a JSON codec. The standard gRPC health service is registered
// alongside it. It is the preferred transport for low-latency clients such
// as smart speakers and edge devices.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/transport"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "newsvox.v1.Voice"

// DispatchMethod is the full method path of the Dispatch RPC.
const DispatchMethod = "/" + ServiceName + "/Dispatch"

// voiceServer is the interface the service descriptor dispatches to.
type voiceServer interface {
	Dispatch(ctx context.Context, msg *message.Message) (*message.DispatchResult, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*voiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "newsvox/v1/voice",
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Message)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(voiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(voiceServer).Dispatch(ctx, req.(*message.Message))
	}
	return interceptor(ctx, in, info, handler)
}

// service adapts a transport.Handler to voiceServer.
type service struct {
	handler transport.Handler
}

func (s *service) Dispatch(ctx context.Context, msg *message.Message) (*message.DispatchResult, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Timestamp = time.Now()

	result, err := s.handler(ctx, msg)
	switch {
	case errors.Is(err, dispatch.ErrBusy):
		return nil, status.Error(codes.Unavailable, dispatch.BusyResponse)
	case err != nil:
		slog.Error("dispatch failed", "error", err)
		return nil, status.Errorf(codes.Internal, "dispatch error: %v", err)
	}
	return result, nil
}

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
	health *health.Server
}

var _ transport.Transport = (*Transport)(nil)

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, handler)
}

// Serve runs the gRPC server on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	t.server = grpc.NewServer()
	t.server.RegisterService(&serviceDesc, &service{handler: handler})

	t.health = health.NewServer()
	healthpb.RegisterHealthServer(t.server, t.health)
	t.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	t.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		_ = t.Close()
	}()

	if err := t.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Close marks the service as not serving and gracefully stops the server.
func (t *Transport) Close() error {
	if t.health != nil {
		t.health.Shutdown()
	}
	if t.server != nil {
		t.server.GracefulStop()
	}
	return nil
}

// Dispatch calls the Dispatch RPC on conn.
func Dispatch(ctx context.Context, conn grpc.ClientConnInterface, msg *message.Message) (*message.DispatchResult, error) {
	out := new(message.DispatchResult)
	if err := conn.Invoke(ctx, DispatchMethod, msg, out, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, err
	}
	return out, nil
}
