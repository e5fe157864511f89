package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/wardenid/warden/internal/auth/store"

	_ "modernc.org/sqlite"
)

// DefaultMaxFailedAttempts is the failure-counter threshold at which a
// lockout-enabled account is locked.
const DefaultMaxFailedAttempts = 5

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx so the
// repos can run against either.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db        *sql.DB
	maxFailed int
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// In-memory databases exist per connection; the pool must not open a
	// second one.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		maxFailed: DefaultMaxFailedAttempts,
	}, nil
}

// SetMaxFailedAttempts overrides the lockout threshold. Values below 1 keep
// the default.
func (s *Store) SetMaxFailedAttempts(n int) {
	if n >= 1 {
		s.maxFailed = n
	}
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Accounts() store.Accounts {
	return &accountsRepo{q: s.db, maxFailed: s.maxFailed}
}

func (s *Store) Roles() store.Roles {
	return &rolesRepo{q: s.db}
}

// Tx starts a read/write transaction and returns a Tx-scoped Directory.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.maxFailed), nil
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// mapNotFound converts sql.ErrNoRows into the store sentinel.
func mapNotFound(err error) error {
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	return err
}
