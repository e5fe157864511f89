package issuer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/pkg/idx"
)

// Unsigned issues alg=none JWTs. It implements both Issuer and
// Authenticator and doubles as the principal codec for refresh tokens.
// Meant for dev and test deployments only; production deployments plug a
// signing issuer in behind the same interfaces.
type Unsigned struct {
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now overrides the clock in tests. Defaults to time.Now.
	Now func() time.Time
}

// wireClaim is the refresh-token serialisation of a claim. Destinations are
// carried so the re-dispatched flow sees the exact principal that was
// issued, marker claim included.
type wireClaim struct {
	Type         string   `json:"t"`
	Value        string   `json:"v"`
	Destinations []string `json:"d,omitempty"`
}

type wirePrincipal struct {
	Claims []wireClaim `json:"claims"`
	Scopes []string    `json:"scopes,omitempty"`
}

func (u *Unsigned) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// Issue mints the token set for a principal. Destination filtering happens
// here: a claim only reaches the tokens it is destined for.
func (u *Unsigned) Issue(ctx context.Context, p *domain.Principal) (*TokenSet, error) {
	now := u.now()

	access, err := u.mint(u.tokenClaims(p, domain.DestinationAccessToken, now, u.AccessTTL))
	if err != nil {
		return nil, err
	}

	idToken, err := u.mint(u.tokenClaims(p, domain.DestinationIdentityToken, now, u.AccessTTL))
	if err != nil {
		return nil, err
	}

	refresh, err := u.mint(u.refreshClaims(p, now))
	if err != nil {
		return nil, err
	}

	return &TokenSet{
		AccessToken:  access,
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresIn:    u.AccessTTL,
		Scope:        strings.Join(p.Scopes, " "),
	}, nil
}

// Authenticate parses a previously issued refresh token and rebuilds the
// embedded principal, claim order and destinations intact.
func (u *Unsigned) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodNone.Alg()}),
		jwt.WithIssuer(u.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(u.now),
	)

	parsed, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return jwt.UnsafeAllowNoneSignatureType, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	embedded, ok := claims["principal"]
	if !ok {
		return nil, ErrInvalidToken
	}

	// Round-trip through JSON to decode the loosely typed map the parser
	// produced back into the wire shape.
	raw, err := json.Marshal(embedded)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var wire wirePrincipal
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, ErrInvalidToken
	}

	p := &domain.Principal{Scopes: wire.Scopes}
	for _, wc := range wire.Claims {
		c := domain.Claim{Type: wc.Type, Value: wc.Value}
		for _, d := range wc.Destinations {
			c.Destinations = append(c.Destinations, domain.Destination(d))
		}
		p.AddClaim(c)
	}
	return p, nil
}

func (u *Unsigned) mint(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	return token.SignedString(jwt.UnsafeAllowNoneSignatureType)
}

// tokenClaims flattens the claims destined for one token into a JWT claim
// map. Repeated claim types (roles) collapse into a JSON array.
func (u *Unsigned) tokenClaims(
	p *domain.Principal,
	dest domain.Destination,
	now time.Time,
	ttl time.Duration,
) jwt.MapClaims {
	claims := jwt.MapClaims{
		"iss": u.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"jti": idx.New().String(),
	}

	for _, c := range p.Claims {
		if !c.DestinedFor(dest) {
			continue
		}
		switch existing := claims[c.Type].(type) {
		case nil:
			claims[c.Type] = c.Value
		case string:
			claims[c.Type] = []string{existing, c.Value}
		case []string:
			claims[c.Type] = append(existing, c.Value)
		}
	}

	return claims
}

func (u *Unsigned) refreshClaims(p *domain.Principal, now time.Time) jwt.MapClaims {
	wire := wirePrincipal{Scopes: p.Scopes}
	for _, c := range p.Claims {
		wc := wireClaim{Type: c.Type, Value: c.Value}
		for _, d := range c.Destinations {
			wc.Destinations = append(wc.Destinations, string(d))
		}
		wire.Claims = append(wire.Claims, wc)
	}

	claims := jwt.MapClaims{
		"iss":       u.Issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(u.RefreshTTL).Unix(),
		"jti":       idx.New().String(),
		"principal": wire,
	}
	if sub, ok := p.GetClaim(domain.ClaimSubject); ok {
		claims["sub"] = sub.Value
	}
	return claims
}
