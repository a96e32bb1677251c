package auth

import "errors"

// The closed set of errors the auth service raises. Handlers match these
// with errors.Is and translate them into HTTP responses; anything else is
// an internal error.
var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrWeakPassword = errors.New("password does not meet security requirements")
	ErrEmailExists  = errors.New("email already registered")
	// Shared by unknown-email and wrong-password so a caller cannot tell
	// which occurred.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many attempts, please try again later")
	ErrSessionExpired     = errors.New("session has expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
)
