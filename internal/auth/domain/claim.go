package domain

import "slices"

// Destination names an issued token a claim is permitted to appear in.
type Destination string

const (
	DestinationAccessToken   Destination = "access_token"
	DestinationIdentityToken Destination = "id_token"
)

// Well-known claim types used by the engine. These follow the OIDC standard
// claim names so downstream token consumers need no translation layer.
const (
	ClaimSubject    = "sub"
	ClaimName       = "name"
	ClaimGivenName  = "given_name"
	ClaimFamilyName = "family_name"
	ClaimEmail      = "email"
	ClaimRole       = "role"
	ClaimClientID   = "client_id"
	ClaimScope      = "scope"

	// ClaimTokenType is the internal marker recording which grant originally
	// produced a principal. It drives refresh_token re-dispatch and must
	// never be destined for any emitted token.
	ClaimTokenType = "token_type"
)

// Claim is a single (type, value) fact about an identity plus the set of
// issued tokens it may appear in. An empty destination set means the claim
// is computed internally but never emitted.
type Claim struct {
	Type         string
	Value        string
	Destinations []Destination
}

// DestinedFor reports whether the claim may appear in the given token.
func (c Claim) DestinedFor(d Destination) bool {
	return slices.Contains(c.Destinations, d)
}

// Principal is the finished, destination-annotated claim bundle handed to
// the token issuer. Claim order is stable: subject first, then profile
// claims, roles in directory order, client_id, the token_type marker, and
// finally the scope claim when scopes were granted.
type Principal struct {
	Claims []Claim
	Scopes []string
}

// AddClaim appends a claim, preserving insertion order.
func (p *Principal) AddClaim(c Claim) {
	p.Claims = append(p.Claims, c)
}

// GetClaim returns the first claim of the given type.
func (p *Principal) GetClaim(typ string) (Claim, bool) {
	for _, c := range p.Claims {
		if c.Type == typ {
			return c, true
		}
	}
	return Claim{}, false
}

// Origin reads the token_type marker claim and decodes it into the tagged
// grant origin. Principals without a marker report OriginUnknown.
func (p *Principal) Origin() GrantOrigin {
	c, ok := p.GetClaim(ClaimTokenType)
	if !ok {
		return OriginUnknown
	}
	return ParseGrantOrigin(c.Value)
}
