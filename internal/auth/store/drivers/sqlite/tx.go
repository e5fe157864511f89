package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wardenid/warden/internal/auth/store"
)

// txStore is a Tx-scoped Directory. Nested transactions are rejected so a
// repo call inside WithTx can't accidentally open a second transaction.
type txStore struct {
	tx        *sql.Tx
	maxFailed int
}

func newTx(tx *sql.Tx, maxFailed int) store.Tx {
	return &txStore{tx: tx, maxFailed: maxFailed}
}

func (t *txStore) Accounts() store.Accounts {
	return &accountsRepo{q: t.tx, maxFailed: t.maxFailed}
}

func (t *txStore) Roles() store.Roles {
	return &rolesRepo{q: t.tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: cannot migrate inside a transaction")
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }
