package issuer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardenid/warden/internal/auth/domain"
)

func testPrincipal() *domain.Principal {
	both := []domain.Destination{
		domain.DestinationIdentityToken,
		domain.DestinationAccessToken,
	}

	p := &domain.Principal{Scopes: []string{"profile", "email"}}
	p.AddClaim(domain.Claim{Type: domain.ClaimSubject, Value: "user-1", Destinations: both})
	p.AddClaim(domain.Claim{Type: domain.ClaimName, Value: "alice", Destinations: []domain.Destination{domain.DestinationIdentityToken}})
	p.AddClaim(domain.Claim{Type: domain.ClaimRole, Value: "admin", Destinations: both})
	p.AddClaim(domain.Claim{Type: domain.ClaimRole, Value: "auditor", Destinations: both})
	p.AddClaim(domain.Claim{Type: domain.ClaimTokenType, Value: "password"})
	p.AddClaim(domain.Claim{
		Type:         domain.ClaimScope,
		Value:        "profile email",
		Destinations: []domain.Destination{domain.DestinationAccessToken},
	})
	return p
}

func newTestIssuer() *Unsigned {
	return &Unsigned{
		Issuer:     "warden-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

// decodePayload extracts the claim map from an alg=none JWT without
// going through the parser.
func decodePayload(t *testing.T, token string) map[string]any {
	t.Helper()

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestIssueDestinationFiltering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	iss := newTestIssuer()
	tokens, err := iss.Issue(ctx, testPrincipal())
	require.NoError(t, err)

	t.Run("access token carries access-destined claims", func(t *testing.T) {
		payload := decodePayload(t, tokens.AccessToken)

		require.Equal(t, "user-1", payload["sub"])
		require.Equal(t, "profile email", payload["scope"])
		require.Equal(t, []any{"admin", "auditor"}, payload["role"])

		// Identity-only and marker claims must not leak.
		require.NotContains(t, payload, "name")
		require.NotContains(t, payload, domain.ClaimTokenType)
	})

	t.Run("identity token carries identity-destined claims", func(t *testing.T) {
		payload := decodePayload(t, tokens.IDToken)

		require.Equal(t, "user-1", payload["sub"])
		require.Equal(t, "alice", payload["name"])
		require.NotContains(t, payload, "scope")
		require.NotContains(t, payload, domain.ClaimTokenType)
	})

	t.Run("response metadata", func(t *testing.T) {
		require.Equal(t, 15*time.Minute, tokens.ExpiresIn)
		require.Equal(t, "profile email", tokens.Scope)
	})
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	iss := newTestIssuer()
	original := testPrincipal()

	tokens, err := iss.Issue(ctx, original)
	require.NoError(t, err)

	recovered, err := iss.Authenticate(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	// Claim order, values, destinations and scopes all survive the trip;
	// the marker claim in particular must come back intact for re-dispatch.
	require.Equal(t, original.Claims, recovered.Claims)
	require.Equal(t, original.Scopes, recovered.Scopes)
	require.Equal(t, domain.OriginPassword, recovered.Origin())
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		iss := newTestIssuer()
		_, err := iss.Authenticate(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := &Unsigned{Issuer: "someone-else", AccessTTL: time.Minute, RefreshTTL: time.Hour}
		tokens, err := other.Issue(ctx, testPrincipal())
		require.NoError(t, err)

		iss := newTestIssuer()
		_, err = iss.Authenticate(ctx, tokens.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		iss := newTestIssuer()
		iss.Now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

		tokens, err := iss.Issue(ctx, testPrincipal())
		require.NoError(t, err)

		iss.Now = nil
		_, err = iss.Authenticate(ctx, tokens.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		iss := newTestIssuer()
		tokens, err := iss.Issue(ctx, testPrincipal())
		require.NoError(t, err)

		_, err = iss.Authenticate(ctx, tokens.AccessToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
