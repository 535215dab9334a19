package grpcserver

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"issueTracking/internal/auth"
	"issueTracking/internal/config"
	"issueTracking/internal/testutil"
)

const secret = "grpc-test-secret"

type switchPinger struct{ down atomic.Bool }

func (p *switchPinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("db down")
	}
	return nil
}

func startTestServer(t *testing.T, store Pinger) (*Server, *grpc.ClientConn) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer(secret, time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	s := New(tokens, store, testutil.DiscardLogger())
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return s, conn
}

func TestHealth_NoTokenRequired(t *testing.T) {
	_, conn := startTestServer(t, &switchPinger{})
	client := healthpb.NewHealthClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, svc := range []string{"", ServiceName} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatalf("check %q: %v", svc, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("check %q: got %v", svc, resp.GetStatus())
		}
	}
}

func TestHealth_FollowsStore(t *testing.T) {
	p := &switchPinger{}
	s, conn := startTestServer(t, p)
	client := healthpb.NewHealthClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	p.down.Store(true)
	s.probe(ctx)
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", resp.GetStatus())
	}
}

func listServices(ctx context.Context, conn *grpc.ClientConn) error {
	stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(ctx)
	if err != nil {
		return err
	}
	if err := stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{ListServices: ""},
	}); err != nil {
		return err
	}
	_, err = stream.Recv()
	return err
}

func TestReflection_RequiresAdmin(t *testing.T) {
	_, conn := startTestServer(t, &switchPinger{})
	base, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cases := []struct {
		name string
		ctx  context.Context
		want codes.Code
	}{
		{"anonymous", base, codes.Unauthenticated},
		{"user", outgoingBearer(base, testutil.GenerateJWTHS256(t, secret, "bob", "User", time.Hour)), codes.PermissionDenied},
		{"admin", outgoingBearer(base, testutil.GenerateJWTHS256(t, secret, "alice", "Admin", time.Hour)), codes.OK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := listServices(tc.ctx, conn)
			if got := status.Code(err); got != tc.want {
				t.Fatalf("got %v (%v), want %v", got, err, tc.want)
			}
		})
	}
}

func TestStartGRPC(t *testing.T) {
	tokens, _ := auth.NewTokenIssuer(secret, time.Hour)
	cfg := &config.Config{GRPC: config.GRPCConfig{Address: "127.0.0.1:0"}}
	shutdown, err := StartGRPC(cfg, tokens, &switchPinger{}, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func outgoingBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}
