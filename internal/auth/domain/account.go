package domain

import "time"

// Account is a read snapshot of an account directory record. The directory
// owns all mutation; the engine only reads the snapshot fetched for the
// current request so eligibility always reflects current state.
type Account struct {
	ID           string
	Username     string
	GivenName    string
	FamilyName   string
	Email        string
	PasswordHash string // argon2 encoded

	// SignInAllowed gates whether the account may currently receive tokens.
	SignInAllowed bool

	// LockoutEnabled reports whether the lockout mechanism applies to this
	// account. Accounts with lockout disabled never reject with LockedOut
	// and never have their failure counter touched.
	LockoutEnabled bool
	LockedOut      bool
	FailedAttempts int

	CreatedAt time.Time
	UpdatedAt time.Time
}
