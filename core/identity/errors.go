package identity

import (
	"errors"
	"fmt"
)

type AuthErrorKind int

const (
	InvalidCredentials AuthErrorKind = iota + 1
	NetworkError
	Timeout
)

func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid credentials"
	case NetworkError:
		return "network error"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// AuthError is returned when credentials cannot be exchanged for a Grant.
type AuthError struct {
	Kind    AuthErrorKind
	Message string // provider supplied, safe to show to the user
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any *AuthError of the same Kind, so errors.Is(err, ErrTimeout) works.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidCredentials = &AuthError{Kind: InvalidCredentials}
	ErrNetwork            = &AuthError{Kind: NetworkError}
	ErrTimeout            = &AuthError{Kind: Timeout}

	// ErrProfileNotFound is absorbed by Service.ResolveProfile into DefaultProfile.
	ErrProfileNotFound = errors.New("profile not found")
	ErrSessionNotFound = errors.New("session not found")
)
