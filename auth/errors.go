package auth

import "errors"

// Sentinel errors for authentication.
var (
	ErrMissingToken = errors.New("auth: missing token")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrMissingKey   = errors.New("auth: signing key is required")
)
