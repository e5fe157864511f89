package service

import (
	"context"

	"github.com/wardenid/warden/internal/auth/domain"
)

// PrincipalBuilder orchestrates claim assembly and destination routing into
// a finished principal. Construction is all-or-nothing: any failure returns
// no principal at all.
type PrincipalBuilder struct {
	Assembler *ClaimAssembler
	Router    *DestinationRouter
}

// ForAccount builds the principal for an account-backed grant. The claim
// order is: assembled account claims, client_id, the token_type marker
// recording the originating grant, then the scope claim appended by the
// router when scopes were granted.
func (b *PrincipalBuilder) ForAccount(
	ctx context.Context,
	acct domain.Account,
	req domain.TokenRequest,
	origin domain.GrantOrigin,
) (*domain.Principal, error) {
	claims, err := b.Assembler.Assemble(ctx, acct)
	if err != nil {
		return nil, err
	}

	claims = append(claims,
		domain.Claim{Type: domain.ClaimClientID, Value: req.ClientID},
		domain.Claim{Type: domain.ClaimTokenType, Value: origin.String()},
	)

	return b.Router.Route(claims, req.Scopes()), nil
}

// ForClient builds the minimal machine-to-machine principal: the client is
// the subject, there is no account behind it.
func (b *PrincipalBuilder) ForClient(req domain.TokenRequest) *domain.Principal {
	claims := []domain.Claim{
		{Type: domain.ClaimSubject, Value: req.ClientID},
		{Type: domain.ClaimClientID, Value: req.ClientID},
		{Type: domain.ClaimTokenType, Value: domain.OriginClientCredentials.String()},
	}

	return b.Router.Route(claims, req.Scopes())
}
