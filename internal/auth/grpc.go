package auth

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ParseFromMD extracts and validates a Bearer JWT from gRPC metadata.
func (ti *TokenIssuer) ParseFromMD(ctx context.Context) (*Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return nil, ErrUnauthenticated
	}
	return ti.ParseBearer(vals[0])
}

// GRPCMethodPolicies maps full method names to the policy they require.
// Methods not listed require PolicyAdmin.
type GRPCMethodPolicies map[string]Policy

func (m GRPCMethodPolicies) lookup(method string) Policy {
	if p, ok := m[method]; ok {
		return p
	}
	return PolicyAdmin
}

// authorizeRPC resolves the principal (if a token is present) and checks policy.
func (ti *TokenIssuer) authorizeRPC(ctx context.Context, policy Policy) (context.Context, error) {
	if policy == PolicyNone {
		if p, err := ti.ParseFromMD(ctx); err == nil {
			return WithPrincipal(ctx, p), nil
		}
		return ctx, nil
	}
	p, err := ti.ParseFromMD(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	if err := Authorize(p, policy); err != nil {
		if errors.Is(err, ErrForbidden) {
			return nil, status.Errorf(codes.PermissionDenied, "%s required", policy)
		}
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return WithPrincipal(ctx, p), nil
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that validates the
// Bearer JWT and enforces the method's policy before the handler runs.
func NewUnaryAuthInterceptor(ti *TokenIssuer, policies GRPCMethodPolicies) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := ti.authorizeRPC(ctx, policies.lookup(info.FullMethod))
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// NewStreamAuthInterceptor is the streaming counterpart of NewUnaryAuthInterceptor.
func NewStreamAuthInterceptor(ti *TokenIssuer, policies GRPCMethodPolicies) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := ti.authorizeRPC(ss.Context(), policies.lookup(info.FullMethod))
		if err != nil {
			return err
		}
		return handler(srv, &principalStream{ServerStream: ss, ctx: ctx})
	}
}

type principalStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *principalStream) Context() context.Context { return s.ctx }
