package auth

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"issueTracking/internal/testutil"
	"issueTracking/models"
)

func TestUnaryAuthInterceptor(t *testing.T) {
	ti := newTestIssuer(t)
	interceptor := NewUnaryAuthInterceptor(ti, GRPCMethodPolicies{"/health": PolicyNone, "/svc/Read": PolicyUser})

	// Open method: no header -> handler executes, no principal
	called := false
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/health"}, func(ctx context.Context, req any) (any, error) {
		called = true
		if _, ok := FromContext(ctx); ok {
			t.Fatalf("expected no principal on open method")
		}
		return nil, nil
	})
	if err != nil || !called {
		t.Fatalf("open handler err=%v called=%v", err, called)
	}

	// User method with a user token -> principal injected
	tok := testutil.GenerateJWTHS256(t, testSecret, "bob", "User", time.Hour)
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Read"}, func(ctx context.Context, req any) (any, error) {
		p, ok := FromContext(ctx)
		if !ok || p.Name != "bob" || p.Role != models.RoleUser {
			t.Fatalf("principal not injected: %+v ok=%v", p, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("user path: %v", err)
	}

	// Unlisted method defaults to Admin -> PermissionDenied for a user
	_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Other"}, func(ctx context.Context, req any) (any, error) {
		t.Fatalf("handler must not run")
		return nil, nil
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}

	// Missing token on a gated method -> Unauthenticated
	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Read"}, func(ctx context.Context, req any) (any, error) {
		t.Fatalf("handler must not run")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func TestStreamAuthInterceptor_AdminOnly(t *testing.T) {
	ti := newTestIssuer(t)
	interceptor := NewStreamAuthInterceptor(ti, nil)
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo"}

	userTok := testutil.GenerateJWTHS256(t, testSecret, "bob", "User", time.Hour)
	err := interceptor(nil, &fakeStream{ctx: testutil.CtxWithBearer(context.Background(), userTok)}, info, func(srv any, ss grpc.ServerStream) error {
		t.Fatalf("handler must not run for non-admin")
		return nil
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}

	adminTok := testutil.GenerateJWTHS256(t, testSecret, "root", "Admin", time.Hour)
	err = interceptor(nil, &fakeStream{ctx: testutil.CtxWithBearer(context.Background(), adminTok)}, info, func(srv any, ss grpc.ServerStream) error {
		if p, ok := FromContext(ss.Context()); !ok || !p.IsAdmin() {
			t.Fatalf("admin principal missing from stream context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("admin stream: %v", err)
	}
}
