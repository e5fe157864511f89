package service

import (
	"errors"
	"fmt"

	"github.com/wardenid/warden/internal/auth/domain"
)

var (
	// ErrMalformedRequest reports a request missing a required field. The
	// dispatcher rejects these before any directory lookup.
	ErrMalformedRequest = errors.New("malformed token request")

	// ErrUnsupportedGrantType reports a grant type the dispatcher does not
	// implement.
	ErrUnsupportedGrantType = errors.New("unsupported grant type")

	// ErrUnknownTokenOrigin reports a refresh token whose embedded
	// token_type marker is missing or unrecognised, so the dispatcher
	// cannot decide which flow to re-run.
	ErrUnknownTokenOrigin = errors.New("authentication scheme is not found")
)

// SignInDeniedError carries the structured rejection reason from the
// eligibility pipeline up to the caller, which maps it onto an
// invalid_grant denial with the reason's description. It never contains
// credentials.
type SignInDeniedError struct {
	Reason domain.RejectionReason
}

func (e *SignInDeniedError) Error() string {
	return fmt.Sprintf("sign-in denied: %s", e.Reason)
}
