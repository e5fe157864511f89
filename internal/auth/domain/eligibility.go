package domain

// RejectionReason enumerates why an account was refused tokens.
type RejectionReason int

const (
	ReasonNotFound RejectionReason = iota
	ReasonSignInNotAllowed
	ReasonLockedOut
	ReasonInvalidCredentials
)

// Description is the protocol-level error_description the caller returns
// alongside invalid_grant for this reason. Kept human-readable and free of
// anything credential-shaped.
func (r RejectionReason) Description() string {
	switch r {
	case ReasonNotFound:
		return "the token is no longer valid"
	case ReasonSignInNotAllowed:
		return "the user is no longer allowed to sign in"
	case ReasonLockedOut:
		return "the user is already locked out"
	case ReasonInvalidCredentials:
		return "invalid credentials"
	default:
		return "invalid grant"
	}
}

func (r RejectionReason) String() string {
	switch r {
	case ReasonNotFound:
		return "not_found"
	case ReasonSignInNotAllowed:
		return "sign_in_not_allowed"
	case ReasonLockedOut:
		return "locked_out"
	case ReasonInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

// EligibilityResult is the outcome of the eligibility pipeline. All outcomes
// are values; the validator never panics or leaks rejections as errors.
type EligibilityResult struct {
	Eligible bool
	Reason   RejectionReason // meaningful only when !Eligible
}

// Eligible is the success result.
func Eligible() EligibilityResult {
	return EligibilityResult{Eligible: true}
}

// Rejected builds a rejection result carrying the given reason.
func Rejected(reason RejectionReason) EligibilityResult {
	return EligibilityResult{Eligible: false, Reason: reason}
}
