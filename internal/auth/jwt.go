package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"issueTracking/models"
)

// DefaultTokenTTL is the absolute lifetime of an issued token.
const DefaultTokenTTL = time.Hour

// Principal represents the authenticated caller from a JWT.
type Principal struct {
	Name string
	Role models.Role
}

// IsAdmin reports whether the principal carries the Admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// Claims are the JWT claims minted at login.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates HS256 tokens. Tokens are stateless: there
// is no session store and no revocation.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret. A non-positive ttl
// falls back to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue mints a token for the user. The returned time is the absolute expiry.
func (ti *TokenIssuer) Issue(u *models.User) (string, time.Time, error) {
	if u == nil {
		return "", time.Time{}, errors.New("user is nil")
	}
	now := ti.now().UTC()
	exp := now.Add(ti.ttl)
	claims := Claims{
		Name: u.Username,
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Parse validates signature, algorithm and expiry and returns the principal.
// Every failure wraps ErrUnauthenticated.
func (ti *TokenIssuer) Parse(tokenStr string) (*Principal, error) {
	c := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	role, ok := models.ParseRole(c.Role)
	if c.Name == "" || !ok {
		return nil, fmt.Errorf("%w: invalid claims", ErrUnauthenticated)
	}
	return &Principal{Name: c.Name, Role: role}, nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value and validates it.
func (ti *TokenIssuer) ParseBearer(header string) (*Principal, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fmt.Errorf("%w: missing or malformed authorization header", ErrUnauthenticated)
	}
	return ti.Parse(strings.TrimSpace(parts[1]))
}
