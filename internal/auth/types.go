// Package auth verifies bearer tokens issued by a Keycloak realm.
package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

type Config struct {
	Enabled  bool
	Issuer   string
	Audience string
	// JWKSURL defaults to the realm's openid-connect certs endpoint.
	JWKSURL string
}

// Principal is the verified caller behind an API request.
type Principal struct {
	Issuer   string
	Subject  string
	Audience any
	Claims   map[string]any
}

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
