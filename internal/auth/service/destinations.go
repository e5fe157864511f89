package service

import (
	"strings"

	"github.com/wardenid/warden/internal/auth/domain"
)

// accessTokenTypes are claim types the access-token consumer (a resource
// server) is expected to need regardless of scope grants.
var accessTokenTypes = map[string]struct{}{
	domain.ClaimSubject:  {},
	domain.ClaimRole:     {},
	domain.ClaimClientID: {},
}

// scopeDerivedTypes are profile claims exposed through scope grants; they
// reach the access token only when the request granted any scopes.
var scopeDerivedTypes = map[string]struct{}{
	domain.ClaimName:       {},
	domain.ClaimGivenName:  {},
	domain.ClaimFamilyName: {},
	domain.ClaimEmail:      {},
}

// DestinationRouter decides, per claim, which issued tokens the claim may
// appear in. This is the single auditable place where the access/identity
// token split is computed; a wrong assignment here over-exposes claims to
// the wrong audience.
type DestinationRouter struct{}

// Route annotates claims with destinations and appends the scope claim.
// It is a pure function of its inputs: routing the same claim sequence and
// scope set twice yields identical destination assignments.
//
// Policy: every emitted claim is destined for the identity token; it
// additionally reaches the access token when the resource server needs its
// type, or when it is scope-derived and scopes were granted. The scope
// claim goes to the access token only (scopes are never embedded in
// identity tokens), and the token_type marker is never destined anywhere.
func (r *DestinationRouter) Route(claims []domain.Claim, grantedScopes []string) *domain.Principal {
	p := &domain.Principal{Scopes: grantedScopes}

	for _, c := range claims {
		p.AddClaim(domain.Claim{
			Type:         c.Type,
			Value:        c.Value,
			Destinations: destinationsFor(c.Type, grantedScopes),
		})
	}

	if len(grantedScopes) > 0 {
		p.AddClaim(domain.Claim{
			Type:         domain.ClaimScope,
			Value:        strings.Join(grantedScopes, " "),
			Destinations: []domain.Destination{domain.DestinationAccessToken},
		})
	}

	return p
}

func destinationsFor(claimType string, grantedScopes []string) []domain.Destination {
	switch claimType {
	case domain.ClaimTokenType:
		// Internal marker: drives refresh re-dispatch, never emitted.
		return nil
	case domain.ClaimScope:
		return []domain.Destination{domain.DestinationAccessToken}
	}

	dests := []domain.Destination{domain.DestinationIdentityToken}

	if _, ok := accessTokenTypes[claimType]; ok {
		return append(dests, domain.DestinationAccessToken)
	}
	if _, ok := scopeDerivedTypes[claimType]; ok && len(grantedScopes) > 0 {
		return append(dests, domain.DestinationAccessToken)
	}

	return dests
}
