package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"issueTracking/internal/auth"
	"issueTracking/models"
	"issueTracking/repository"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so callers cannot tell the two apart.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", auth.ErrUnauthenticated)

// LoginThrottle counts failed logins per username. Implementations must be
// safe for concurrent use.
type LoginThrottle interface {
	Blocked(ctx context.Context, username string) (bool, error)
	Failed(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// RegisterResult describes a newly registered account.
type RegisterResult struct {
	User    *models.User
	Message string
}

// LoginResult carries a freshly minted token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Role      models.Role
}

// AuthService implements registration (including the bootstrap role rule) and login.
type AuthService struct {
	users       repository.UserRepositoryI
	creds       *auth.CredentialStore
	tokens      *auth.TokenIssuer
	throttle    LoginThrottle
	log         *slog.Logger
	adminSignup bool
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAdminOnlyRegistration requires an Admin caller to register accounts
// once at least one account exists.
func WithAdminOnlyRegistration(on bool) AuthOption {
	return func(s *AuthService) { s.adminSignup = on }
}

func NewAuthService(users repository.UserRepositoryI, creds *auth.CredentialStore, tokens *auth.TokenIssuer, log *slog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{users: users, creds: creds, tokens: tokens, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RegistrationPolicy reports the policy register currently requires.
func (s *AuthService) RegistrationPolicy(ctx context.Context) (auth.Policy, error) {
	if !s.adminSignup {
		return auth.PolicyFor(auth.OpRegister), nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return auth.PolicyAdmin, err
	}
	if n == 0 {
		return auth.PolicyNone, nil
	}
	return auth.PolicyAdmin, nil
}

// Register creates an account. The first account ever committed becomes
// Admin and every later one User; the decision is made atomically by the
// insert itself. caller may be nil for anonymous registration.
func (s *AuthService) Register(ctx context.Context, caller *auth.Principal, username, password string) (*RegisterResult, error) {
	policy, err := s.RegistrationPolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("registration policy: %w", err)
	}
	if err := auth.Authorize(caller, policy); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, newError(ErrInvalidInput, "Username and password are required")
	}
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Password is not acceptable")
	}

	u, err := s.create(context.WithoutCancel(ctx), caller, policy, username, hash)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) || errors.Is(err, auth.ErrForbidden) {
			return nil, err
		}
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, newError(ErrConflict, "Username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	msg := "User registered successfully"
	if u.IsAdmin() {
		msg = "Admin user registered successfully"
	}
	s.log.Info("user registered", "username", u.Username, "role", u.Role)
	return &RegisterResult{User: u, Message: msg}, nil
}

// create inserts the account. When only the empty table let the caller past
// the admin-only policy, the insert itself re-checks emptiness; losing that
// race sends the caller back through the admin policy.
func (s *AuthService) create(ctx context.Context, caller *auth.Principal, policy auth.Policy, username, hash string) (*models.User, error) {
	if s.adminSignup && policy == auth.PolicyNone {
		u, err := s.users.CreateBootstrapAdmin(ctx, username, hash)
		if !errors.Is(err, repository.ErrRegistrationClosed) {
			return u, err
		}
		if err := auth.Authorize(caller, auth.PolicyAdmin); err != nil {
			return nil, err
		}
	}
	return s.users.CreateWithBootstrapRole(ctx, username, hash)
}

// Login verifies credentials and mints a token carrying the stored role.
// Unknown user and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s.throttle != nil {
		blocked, err := s.throttle.Blocked(ctx, username)
		if err != nil {
			s.log.Warn("login throttle unavailable", "error", err)
		} else if blocked {
			return nil, ErrThrottled
		}
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	ok := false
	if u == nil {
		s.creds.BurnVerify(password)
	} else {
		ok = s.creds.Verify(password, u.PasswordHash)
	}
	if !ok {
		s.recordFailure(ctx, username)
		return nil, ErrInvalidCredentials
	}

	tok, exp, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn("login throttle reset failed", "error", err)
		}
	}
	s.log.Info("login succeeded", "username", u.Username, "role", u.Role)
	return &LoginResult{Token: tok, ExpiresAt: exp, Role: u.Role}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	s.log.Warn("login failed", "username", username)
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Failed(ctx, username); err != nil {
		s.log.Warn("login throttle update failed", "error", err)
	}
}
