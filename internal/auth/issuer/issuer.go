// Package issuer is the boundary between the grant engine and token
// emission. The engine hands a finished, destination-annotated principal to
// an Issuer; everything cryptographic (signing algorithms, key management,
// rotation) lives behind the interface in the deployment.
package issuer

import (
	"context"
	"errors"
	"time"

	"github.com/wardenid/warden/internal/auth/domain"
)

// ErrInvalidToken reports a token that could not be parsed, is expired, or
// does not carry an embedded principal.
var ErrInvalidToken = errors.New("issuer: invalid token")

// TokenSet is what the token endpoint returns: the access token carries
// AccessToken-destined claims, the identity token IdentityToken-destined
// ones, and the refresh token embeds the whole principal so a later
// refresh_token grant can re-dispatch on its origin.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
	Scope        string
}

// Issuer consumes a finished principal and mints the outgoing token set.
type Issuer interface {
	Issue(ctx context.Context, p *domain.Principal) (*TokenSet, error)
}

// Authenticator recovers the principal embedded in a previously issued
// refresh token, authorization code or device code. It stands in for the
// authentication middleware that runs before the grant dispatcher.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}
