package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store/drivers/sqlite"
	"github.com/wardenid/warden/pkg/cryptox"
	"github.com/wardenid/warden/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.ApplyMigrations())
	return db
}

type accountSeed struct {
	Username       string
	Password       string
	GivenName      string
	FamilyName     string
	Email          string
	SignInAllowed  bool
	LockoutEnabled bool
	LockedOut      bool
}

func seedAccount(t *testing.T, db *sqlite.Store, seed accountSeed) domain.Account {
	t.Helper()

	hash, err := cryptox.HashPassword(seed.Password)
	require.NoError(t, err)

	now := time.Now()
	acct := domain.Account{
		ID:             idx.New().String(),
		Username:       seed.Username,
		GivenName:      seed.GivenName,
		FamilyName:     seed.FamilyName,
		Email:          seed.Email,
		PasswordHash:   hash,
		SignInAllowed:  seed.SignInAllowed,
		LockoutEnabled: seed.LockoutEnabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Accounts().CreateAccount(context.Background(), acct))

	if seed.LockedOut {
		require.NoError(t, db.Accounts().SetLockedOut(context.Background(), acct.ID, true))
		acct.LockedOut = true
	}

	return acct
}

func seedRole(t *testing.T, db *sqlite.Store, name string, position int) domain.Role {
	t.Helper()

	now := time.Now()
	role := domain.Role{
		ID:        idx.New().String(),
		Name:      name,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Roles().CreateRole(context.Background(), role))
	return role
}

func claimTypes(p *domain.Principal) []string {
	types := make([]string, 0, len(p.Claims))
	for _, c := range p.Claims {
		types = append(types, c.Type)
	}
	return types
}
