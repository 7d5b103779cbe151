package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller.
type Identity struct {
	// Subject identifies the caller. "anonymous" under disabled auth.
	Subject string

	// Claims carries the verified token claims, nil under disabled auth.
	Claims map[string]any
}

// Authenticator verifies request credentials.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: failures wrap the package sentinel errors.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Identity, error)
}

// Bearer verifies HMAC-signed JWT bearer tokens.
type Bearer struct {
	key []byte
}

// NewBearer creates a bearer-token authenticator with the given HMAC key.
func NewBearer(key []byte) (*Bearer, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	return &Bearer{key: key}, nil
}

// Authenticate parses and verifies token, returning the caller identity.
func (b *Bearer) Authenticate(_ context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) { return b.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Identity{Subject: subject, Claims: claims}, nil
}

// Disabled accepts everything. For development only.
type Disabled struct{}

// Authenticate returns an anonymous identity regardless of token.
func (Disabled) Authenticate(context.Context, string) (Identity, error) {
	return Identity{Subject: "anonymous"}, nil
}

// Select returns the authenticator for the dev-config switch: Disabled
// when disableAuth is set, otherwise a Bearer over key.
func Select(disableAuth bool, key []byte) (Authenticator, error) {
	if disableAuth {
		return Disabled{}, nil
	}
	return NewBearer(key)
}

// Ensure implementations satisfy Authenticator
var (
	_ Authenticator = (*Bearer)(nil)
	_ Authenticator = Disabled{}
)
