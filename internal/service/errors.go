package service

import (
	"errors"
	"fmt"
)

// Domain error kinds. Handlers map them to transport status codes with errors.Is.
var (
	// ErrNotFound: the addressed issue, tag or project id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference: a project or tag referenced from the request body
	// (or a tag expected on an issue) does not exist.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvalidInput: the request is well-formed but violates a field rule.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict: a uniqueness rule would be broken.
	ErrConflict = errors.New("conflict")
	// ErrThrottled: too many failed logins for the username.
	ErrThrottled = errors.New("too many failed login attempts")
)

// Error carries a client-safe message and the kind it belongs to.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-safe message of err if it is a domain Error.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, true
	}
	return "", false
}
