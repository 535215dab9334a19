package auth

import "errors"

var (
	// ErrUnauthenticated covers bad credentials and missing, expired or
	// forged tokens. Callers must not reveal which.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the token is valid but its role is insufficient.
	ErrForbidden = errors.New("forbidden")
)
