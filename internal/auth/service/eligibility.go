package service

import (
	"context"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store"
	"github.com/wardenid/warden/pkg/cryptox"
	"github.com/wardenid/warden/pkg/slogx"
)

// eligibilityCheck pairs a rejection reason with the predicate that
// triggers it.
type eligibilityCheck struct {
	reason domain.RejectionReason
	failed func(a *domain.Account) bool
}

// accountChecks run in order and short-circuit on the first failure. The
// order is load-bearing: an account that is both sign-in-disabled and
// locked out must reject with SignInNotAllowed, not LockedOut.
var accountChecks = []eligibilityCheck{
	{domain.ReasonNotFound, func(a *domain.Account) bool { return a == nil }},
	{domain.ReasonSignInNotAllowed, func(a *domain.Account) bool { return !a.SignInAllowed }},
	{domain.ReasonLockedOut, func(a *domain.Account) bool { return a.LockoutEnabled && a.LockedOut }},
}

// EligibilityValidator gates whether an account may currently receive
// tokens. All rejection outcomes are values; the returned error is reserved
// for directory infrastructure failures so callers never conflate "account
// invalid" with "directory unavailable".
type EligibilityValidator struct {
	Accounts store.Accounts

	// VerifyPassword compares a presented password against the stored hash.
	// Defaults to cryptox.VerifyPassword when nil.
	VerifyPassword func(password, encodedHash string) error
}

// Validate runs the ordered eligibility pipeline. checkCredentials selects
// whether the presented password is verified; flows that carry no secret
// (refresh re-validation) skip that step.
//
// Side effects are delegated to the account directory: a failed credential
// check increments the account's failure counter, and success on a
// lockout-enabled account resets it. The reset is an explicit success side
// effect, not safe to skip.
func (v *EligibilityValidator) Validate(
	ctx context.Context,
	acct *domain.Account,
	req domain.TokenRequest,
	checkCredentials bool,
) (domain.EligibilityResult, error) {
	for _, check := range accountChecks {
		if check.failed(acct) {
			return domain.Rejected(check.reason), nil
		}
	}

	if checkCredentials {
		if err := v.verify(req.Password, acct.PasswordHash); err != nil {
			if acct.LockoutEnabled {
				count, incErr := v.Accounts.IncrementFailedCount(ctx, acct.ID)
				if incErr != nil {
					return domain.EligibilityResult{}, incErr
				}
				slogx.FromContext(ctx).Info("credential check failed",
					"account_id", acct.ID, "failed_attempts", count)
			}
			return domain.Rejected(domain.ReasonInvalidCredentials), nil
		}
	}

	if acct.LockoutEnabled {
		if err := v.Accounts.ResetFailedCount(ctx, acct.ID); err != nil {
			return domain.EligibilityResult{}, err
		}
	}

	return domain.Eligible(), nil
}

func (v *EligibilityValidator) verify(password, encodedHash string) error {
	if v.VerifyPassword != nil {
		return v.VerifyPassword(password, encodedHash)
	}
	return cryptox.VerifyPassword(password, encodedHash)
}
