// Package serve wraps a gRPC server with lifecycle management for a loom
// reasoner: listener setup, optional TLS, health reporting, and graceful
// shutdown on signals or context cancellation.
//
// The package owns the serving surface only. Callers register their own
// services on the underlying gRPC server and flip health status as the
// knowledge graph loads.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// reasonerService is the health service name clients probe to check
// whether the reasoner is ready to rank.
const reasonerService = "loom.Reasoner"

// Config holds serve configuration.
type Config struct {
	// Address is the TCP listen address.
	// Default: ":50051"
	Address string

	// GracefulTimeout is the maximum duration to wait for active requests
	// to complete during graceful shutdown.
	// Default: 30 seconds
	GracefulTimeout time.Duration

	// TLSCertFile and TLSKeyFile enable TLS when both are set.
	TLSCertFile string
	TLSKeyFile  string
}

// DefaultConfig returns default serve configuration, suitable for local
// development.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":50051",
		GracefulTimeout: 30 * time.Second,
	}
}

// Server wraps a gRPC server with lifecycle management.
type Server struct {
	grpcServer   *grpc.Server
	listener     net.Listener
	config       *Config
	healthServer *health.Server
	logger       *slog.Logger
}

// NewServer creates a gRPC server with the provided configuration and
// registers the standard health service. The reasoner starts NOT_SERVING;
// call SetReady once the graph is loaded.
func NewServer(cfg *Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Address == "" {
		cfg.Address = ":50051"
	}
	if cfg.GracefulTimeout <= 0 {
		cfg.GracefulTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	var opts []grpc.ServerOption
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(reasonerService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer:   grpcServer,
		listener:     listener,
		config:       cfg,
		healthServer: healthServer,
		logger:       logger,
	}, nil
}

// GRPCServer returns the underlying gRPC server so callers can register
// additional services before Serve.
func (s *Server) GRPCServer() *grpc.Server {
	return s.grpcServer
}

// SetReady flips the reasoner health status. Pass true once the knowledge
// graph is loaded and ranking can be served, false when the graph is being
// rebuilt.
func (s *Server) SetReady(ready bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ready {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.healthServer.SetServingStatus(reasonerService, status)
}

// Serve starts the gRPC server and blocks until shutdown. Shutdown is
// triggered by SIGINT/SIGTERM, context cancellation, or a server error.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	s.logger.Info("reasoner serving", "address", s.listener.Addr().String())

	select {
	case <-ctx.Done():
		s.GracefulStop()
		return ctx.Err()
	case sig := <-sigCh:
		s.logger.Info("received signal, shutting down", "signal", sig.String())
		s.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop immediately stops the gRPC server, terminating active RPCs.
func (s *Server) Stop() {
	s.grpcServer.Stop()
}

// GracefulStop stops accepting new connections and waits for active RPCs
// to complete within the configured timeout, then forces a stop.
func (s *Server) GracefulStop() {
	s.healthServer.SetServingStatus(reasonerService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.GracefulTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server stopped gracefully")
	case <-ctx.Done():
		s.logger.Warn("graceful shutdown timeout, forcing stop")
		s.grpcServer.Stop()
	}
}

// Addr returns the address the server is listening on. This is useful when
// binding to port 0 to get the assigned port.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Address
}
