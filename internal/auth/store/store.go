package store

import (
	"context"
	"errors"

	"github.com/wardenid/warden/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Directory is the account directory the engine reads account snapshots
// from and delegates lockout counter mutations to. Concrete drivers
// (sqlite today) implement it. Counter updates are atomic inside the
// driver; the engine never locks anything itself.
type Directory interface {
	Accounts() Accounts
	Roles() Roles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Directory.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for multi-step
	// operations that must be atomic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the directory connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional directory. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Directory
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account snapshot by id. Used when a refresh
	// token re-resolves its subject.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername is used during the password grant.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by the app via ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// ResetFailedCount zeroes the failure counter after a successful
	// eligibility check on a lockout-enabled account.
	ResetFailedCount(ctx context.Context, accountID string) error

	// IncrementFailedCount bumps the failure counter after a failed
	// credential check and locks the account when the counter reaches the
	// driver's configured threshold (lockout-enabled accounts only).
	// Returns the new counter value.
	IncrementFailedCount(ctx context.Context, accountID string) (int, error)

	// SetSignInAllowed toggles whether the account may receive tokens.
	SetSignInAllowed(ctx context.Context, accountID string, allowed bool) error

	// SetLockedOut explicitly locks or unlocks an account. Unlocking also
	// zeroes the failure counter.
	SetLockedOut(ctx context.Context, accountID string, locked bool) error
}

type Roles interface {
	// GetRoleByName fetches a role by its name (for seeding and assignment).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error

	// AssignRole adds an account to a role. Assignment order is preserved
	// and drives role claim order.
	AssignRole(ctx context.Context, accountID, roleID string) error

	// ListAccountRoles returns the roles an account holds, ordered by role
	// position then assignment order. This order is stable but not
	// alphabetical; claim assembly must preserve it.
	ListAccountRoles(ctx context.Context, accountID string) ([]domain.Role, error)
}
