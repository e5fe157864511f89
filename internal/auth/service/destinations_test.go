package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wardenid/warden/internal/auth/domain"
)

func TestRouteDestinations(t *testing.T) {
	t.Parallel()

	router := &DestinationRouter{}

	claims := []domain.Claim{
		{Type: domain.ClaimSubject, Value: "user-1"},
		{Type: domain.ClaimName, Value: "alice"},
		{Type: domain.ClaimEmail, Value: "alice@example.com"},
		{Type: domain.ClaimRole, Value: "admin"},
		{Type: domain.ClaimClientID, Value: "web"},
		{Type: domain.ClaimTokenType, Value: "password"},
	}

	t.Run("subject and roles reach both tokens", func(t *testing.T) {
		p := router.Route(claims, nil)

		sub, ok := p.GetClaim(domain.ClaimSubject)
		require.True(t, ok)
		require.True(t, sub.DestinedFor(domain.DestinationAccessToken))
		require.True(t, sub.DestinedFor(domain.DestinationIdentityToken))

		role, ok := p.GetClaim(domain.ClaimRole)
		require.True(t, ok)
		require.True(t, role.DestinedFor(domain.DestinationAccessToken))
		require.True(t, role.DestinedFor(domain.DestinationIdentityToken))
	})

	t.Run("profile claims stay out of access token without scopes", func(t *testing.T) {
		p := router.Route(claims, nil)

		email, ok := p.GetClaim(domain.ClaimEmail)
		require.True(t, ok)
		require.False(t, email.DestinedFor(domain.DestinationAccessToken))
		require.True(t, email.DestinedFor(domain.DestinationIdentityToken))
	})

	t.Run("granted scopes promote profile claims", func(t *testing.T) {
		p := router.Route(claims, []string{"profile", "email"})

		email, ok := p.GetClaim(domain.ClaimEmail)
		require.True(t, ok)
		require.True(t, email.DestinedFor(domain.DestinationAccessToken))
	})

	t.Run("scope claim is access token only", func(t *testing.T) {
		p := router.Route(claims, []string{"profile", "email"})

		scope, ok := p.GetClaim(domain.ClaimScope)
		require.True(t, ok)
		require.Equal(t, "profile email", scope.Value)
		require.True(t, scope.DestinedFor(domain.DestinationAccessToken))
		require.False(t, scope.DestinedFor(domain.DestinationIdentityToken))
	})

	t.Run("no scope claim without granted scopes", func(t *testing.T) {
		p := router.Route(claims, nil)

		_, ok := p.GetClaim(domain.ClaimScope)
		require.False(t, ok)
	})

	t.Run("marker claim is never destined", func(t *testing.T) {
		p := router.Route(claims, []string{"profile"})

		marker, ok := p.GetClaim(domain.ClaimTokenType)
		require.True(t, ok)
		require.Empty(t, marker.Destinations)
	})

	t.Run("routing is deterministic", func(t *testing.T) {
		first := router.Route(claims, []string{"profile"})
		second := router.Route(claims, []string{"profile"})
		require.Equal(t, first, second)
	})

	t.Run("claim order is preserved", func(t *testing.T) {
		p := router.Route(claims, nil)
		require.Equal(t, []string{
			domain.ClaimSubject,
			domain.ClaimName,
			domain.ClaimEmail,
			domain.ClaimRole,
			domain.ClaimClientID,
			domain.ClaimTokenType,
		}, claimTypes(p))
	})
}
