package service

import (
	"context"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store"
)

// ClaimAssembler builds the canonical claim set for an account. No OAuth
// semantics live here: destinations are left empty for the router to fill.
type ClaimAssembler struct {
	Roles store.Roles
}

// Assemble returns the ordered claim sequence for an account: subject,
// name, given_name, family_name, email, then one role claim per role in
// directory order. Empty profile attributes produce no claim.
func (a *ClaimAssembler) Assemble(ctx context.Context, acct domain.Account) ([]domain.Claim, error) {
	claims := []domain.Claim{
		{Type: domain.ClaimSubject, Value: acct.ID},
		{Type: domain.ClaimName, Value: acct.Username},
	}

	for _, c := range []domain.Claim{
		{Type: domain.ClaimGivenName, Value: acct.GivenName},
		{Type: domain.ClaimFamilyName, Value: acct.FamilyName},
		{Type: domain.ClaimEmail, Value: acct.Email},
	} {
		if c.Value != "" {
			claims = append(claims, c)
		}
	}

	roles, err := a.Roles.ListAccountRoles(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		claims = append(claims, domain.Claim{Type: domain.ClaimRole, Value: role.Name})
	}

	return claims, nil
}
