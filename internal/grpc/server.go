// Package grpcserver serves the operational gRPC endpoint: the standard health
// service and reflection, behind the same token checks as the HTTP API.
package grpcserver

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"issueTracking/internal/auth"
	"issueTracking/internal/config"
)

// ServiceName is reported by the health service alongside the overall "" entry.
const ServiceName = "issuetracking.v1.IssueTracking"

const probeInterval = 10 * time.Second

// methodPolicies lists the RPCs open without a token. Everything else,
// reflection included, requires an Admin token.
var methodPolicies = auth.GRPCMethodPolicies{
	healthpb.Health_Check_FullMethodName: auth.PolicyNone,
	healthpb.Health_Watch_FullMethodName: auth.PolicyNone,
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps a grpc.Server whose health status follows the store.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	store  Pinger
	log    *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func New(tokens *auth.TokenIssuer, store Pinger, log *slog.Logger) *Server {
	srv := grpc.NewServer(
		grpc.UnaryInterceptor(auth.NewUnaryAuthInterceptor(tokens, methodPolicies)),
		grpc.StreamInterceptor(auth.NewStreamAuthInterceptor(tokens, methodPolicies)),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	return &Server{srv: srv, health: hs, store: store, log: log, stop: make(chan struct{})}
}

// probe pings the store once and publishes the result.
func (s *Server) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Server) probeLoop() {
	t := time.NewTicker(probeInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.probe(context.Background())
		}
	}
}

// Serve publishes an initial health status and blocks serving lis.
func (s *Server) Serve(lis net.Listener) error {
	s.probe(context.Background())
	go s.probeLoop()
	return s.srv.Serve(lis)
}

// Shutdown drains in-flight RPCs, forcing a stop when ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
	})
	done := make(chan struct{})
	go func() { s.srv.GracefulStop(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}

// StartGRPC starts the gRPC server on the configured address and returns a shutdown function.
func StartGRPC(cfg *config.Config, tokens *auth.TokenIssuer, store Pinger, log *slog.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.GRPC.Address
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := New(tokens, store, log)
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Error("grpc serve", "error", err)
		}
	}()
	return s.Shutdown, nil
}
