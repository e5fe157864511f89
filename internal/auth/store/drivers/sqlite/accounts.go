package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store"
)

const accountColumns = `id, username, given_name, family_name, email, password_hash,
	sign_in_allowed, lockout_enabled, locked_out, failed_attempts, created_at, updated_at`

type accountsRepo struct {
	q         dbtx
	maxFailed int
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.GivenName, a.FamilyName, a.Email, a.PasswordHash,
		boolToInt(a.SignInAllowed), boolToInt(a.LockoutEnabled),
		boolToInt(a.LockedOut), a.FailedAttempts, now, now,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) ResetFailedCount(ctx context.Context, accountID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET failed_attempts = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) IncrementFailedCount(ctx context.Context, accountID string) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	// Bump the counter and lock in one statement so concurrent failures
	// can't race past the threshold.
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts
		 SET failed_attempts = failed_attempts + 1,
		     locked_out = CASE WHEN lockout_enabled = 1 AND failed_attempts + 1 >= ? THEN 1 ELSE locked_out END,
		     updated_at = ?
		 WHERE id = ?`,
		r.maxFailed, now, accountID)
	if err != nil {
		return 0, err
	}
	if err := requireRow(res); err != nil {
		return 0, err
	}

	var count int
	err = r.q.QueryRowContext(ctx,
		`SELECT failed_attempts FROM accounts WHERE id = ?`, accountID).Scan(&count)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return count, nil
}

func (r *accountsRepo) SetSignInAllowed(ctx context.Context, accountID string, allowed bool) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET sign_in_allowed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(allowed), time.Now().UTC().Format(time.RFC3339Nano), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) SetLockedOut(ctx context.Context, accountID string, locked bool) error {
	query := `UPDATE accounts SET locked_out = ?, updated_at = ? WHERE id = ?`
	if !locked {
		// Unlocking clears the failure counter too.
		query = `UPDATE accounts SET locked_out = ?, failed_attempts = 0, updated_at = ? WHERE id = ?`
	}
	res, err := r.q.ExecContext(ctx, query,
		boolToInt(locked), time.Now().UTC().Format(time.RFC3339Nano), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a                  domain.Account
		signIn, lockoutOn  int
		lockedOut          int
		createdAt, updated string
	)
	err := row.Scan(
		&a.ID, &a.Username, &a.GivenName, &a.FamilyName, &a.Email, &a.PasswordHash,
		&signIn, &lockoutOn, &lockedOut, &a.FailedAttempts, &createdAt, &updated,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.SignInAllowed = signIn == 1
	a.LockoutEnabled = lockoutOn == 1
	a.LockedOut = lockedOut == 1
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updated)
	return a, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
