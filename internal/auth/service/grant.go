package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store"
	"github.com/wardenid/warden/pkg/slogx"
)

// GrantService is the grant-type dispatcher: a pure routing function
// executed once per token request. The refresh_token flow is the only one
// that re-enters it, based on the grant origin embedded in the presented
// refresh token's principal.
type GrantService struct {
	Directory store.Directory
	Validator *EligibilityValidator
	Builder   *PrincipalBuilder
}

// Exchange routes the request to its grant flow and returns the finished
// principal for the token issuer, or one of the service error types:
// SignInDeniedError for account rejections, ErrMalformedRequest for missing
// fields, ErrUnknownTokenOrigin for unrecognised refresh markers, and
// plain errors for directory failures.
func (s *GrantService) Exchange(ctx context.Context, req domain.TokenRequest) (*domain.Principal, error) {
	switch req.GrantType {
	case domain.GrantPassword:
		return s.password(ctx, req)
	case domain.GrantClientCredentials:
		return s.clientCredentials(req)
	case domain.GrantRefreshToken:
		return s.refresh(ctx, req)
	case domain.GrantAuthorizationCode, domain.GrantDeviceCode:
		return s.passthrough(req)
	default:
		return nil, ErrUnsupportedGrantType
	}
}

func (s *GrantService) password(ctx context.Context, req domain.TokenRequest) (*domain.Principal, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrMalformedRequest)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrMalformedRequest)
	}

	acct, err := s.lookup(func() (domain.Account, error) {
		return s.Directory.Accounts().GetAccountByUsername(ctx, req.Username)
	})
	if err != nil {
		return nil, err
	}

	return s.validateAndBuild(ctx, acct, req, true)
}

func (s *GrantService) clientCredentials(req domain.TokenRequest) (*domain.Principal, error) {
	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", ErrMalformedRequest)
	}

	// No account exists in this flow, so no eligibility validation runs.
	return s.Builder.ForClient(req), nil
}

func (s *GrantService) refresh(ctx context.Context, req domain.TokenRequest) (*domain.Principal, error) {
	if req.Principal == nil {
		return nil, fmt.Errorf("%w: refresh token principal is missing", ErrMalformedRequest)
	}

	// Re-dispatch on the grant origin recorded when the refresh token's
	// principal was first built.
	switch req.Principal.Origin() {
	case domain.OriginClientCredentials:
		return s.clientCredentials(req)

	case domain.OriginPassword:
		sub, ok := req.Principal.GetClaim(domain.ClaimSubject)
		if !ok {
			return nil, ErrUnknownTokenOrigin
		}

		acct, err := s.lookup(func() (domain.Account, error) {
			return s.Directory.Accounts().GetAccountByID(ctx, sub.Value)
		})
		if err != nil {
			return nil, err
		}

		// No secret is presented on refresh, so the credential step is
		// skipped; everything else is re-validated against the latest
		// account snapshot.
		return s.validateAndBuild(ctx, acct, req, false)

	default:
		return nil, ErrUnknownTokenOrigin
	}
}

// passthrough serves authorization_code and device_code: the principal was
// already authenticated by the layer that validated the code, so it is
// forwarded to the issuer unchanged.
func (s *GrantService) passthrough(req domain.TokenRequest) (*domain.Principal, error) {
	if req.Principal == nil {
		return nil, fmt.Errorf("%w: authenticated principal is missing", ErrMalformedRequest)
	}
	return req.Principal, nil
}

// lookup fetches an account snapshot, translating "not found" into a nil
// account for the validator and letting infrastructure errors through.
func (s *GrantService) lookup(fetch func() (domain.Account, error)) (*domain.Account, error) {
	acct, err := fetch()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acct, nil
}

func (s *GrantService) validateAndBuild(
	ctx context.Context,
	acct *domain.Account,
	req domain.TokenRequest,
	checkCredentials bool,
) (*domain.Principal, error) {
	result, err := s.Validator.Validate(ctx, acct, req, checkCredentials)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		slogx.FromContext(ctx).Info("grant denied",
			"grant_type", req.GrantType.String(),
			"client_id", req.ClientID,
			"reason", result.Reason.String(),
		)
		return nil, &SignInDeniedError{Reason: result.Reason}
	}

	return s.Builder.ForAccount(ctx, *acct, req, domain.OriginPassword)
}
