package grpc_server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/middleware"
)

// Dependency is a backend whose reachability decides the serving status.
type Dependency interface {
	Ping(ctx context.Context) error
}

// Server exposes the standard gRPC health service. The overall status is
// SERVING only while every dependency answers its ping.
type Server struct {
	server        *grpc.Server
	health        *health.Server
	dependencies  map[string]Dependency
	checkInterval time.Duration
	address       string
	port          int
	log           ports.Logger
	metrics       ports.MetricsProvider
}

func NewServer(dependencies map[string]Dependency, address string, port int, checkInterval time.Duration, log ports.Logger, metrics ports.MetricsProvider) *Server {
	if checkInterval <= 0 {
		checkInterval = 15 * time.Second
	}
	s := &Server{
		health:        health.NewServer(),
		dependencies:  dependencies,
		checkInterval: checkInterval,
		address:       address,
		port:          port,
		log:           log,
		metrics:       metrics,
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			middleware.UnaryLoggerInterceptor(log, metrics),
			grpc_recovery.UnaryServerInterceptor(),
		)),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// CheckDependencies pings every dependency and updates the serving status.
func (s *Server) CheckDependencies(ctx context.Context) bool {
	healthy := true
	for name, dep := range s.dependencies {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := dep.Ping(ctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			status = healthpb.HealthCheckResponse_NOT_SERVING
			s.log.Warn("Dependency health check failed",
				slog.String("dependency", name),
				slog.String("error", err.Error()))
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	s.metrics.SetServiceHealth(healthy)
	return healthy
}

// Watch re-checks dependencies every check interval until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	s.CheckDependencies(ctx)
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckDependencies(ctx)
		}
	}
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}

	s.log.Info("Starting gRPC server", slog.Int("port", s.port))
	return s.server.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *Server) Shutdown() error {
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}
