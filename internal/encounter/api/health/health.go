// Package health serves the standard gRPC health protocol backed by the
// encounter store, so process managers can probe the service while the
// MCP surface runs on stdio.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	apperrors "github.com/warbandtools/skirmish/internal/platform/errors"
)

// ServiceName identifies the encounter service in health check requests.
const ServiceName = "skirmish.encounter"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service implements the health protocol: SERVING while the store
// answers pings, NOT_SERVING once it stops.
type Service struct {
	grpc_health_v1.UnimplementedHealthServer
	pinger Pinger
}

// NewService builds a health service over the store pinger.
func NewService(pinger Pinger) (*Service, error) {
	if pinger == nil {
		return nil, errors.New("store pinger is required")
	}
	return &Service{pinger: pinger}, nil
}

// Check reports serving status for the encounter service. Unknown service
// names are a NOT_FOUND status per the health protocol; a failing store
// is NOT_SERVING, not an error.
func (s *Service) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if service := req.GetService(); service != "" && service != ServiceName {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "unknown health service", map[string]string{
			"service": service,
		}).ToGRPCStatus()
	}
	if err := s.pinger.Ping(ctx); err != nil {
		return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &grpc_health_v1.HealthCheckResponse{Status: grpc_health_v1.HealthCheckResponse_SERVING}, nil
}

// Watch is not supported; probes poll Check instead.
func (s *Service) Watch(_ *grpc_health_v1.HealthCheckRequest, _ grpc_health_v1.Health_WatchServer) error {
	return status.Error(codes.Unimplemented, "health watch is not supported")
}

// Server hosts the health service on its own TCP listener.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
}

// NewServer listens on addr and registers the health service.
func NewServer(addr string, pinger Pinger) (*Server, error) {
	service, err := NewService(pinger)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	grpc_health_v1.RegisterHealthServer(grpcServer, service)

	return &Server{listener: listener, grpcServer: grpcServer}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve runs the health endpoint until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.grpcServer == nil {
		return errors.New("health server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health: %w", err)
	}
}

// Close releases the server's resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
