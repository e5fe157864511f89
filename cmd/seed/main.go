// Command seed provisions an account directory with a role and an account.
// Intended for dev and demo databases, not production user management.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store"
	"github.com/wardenid/warden/internal/auth/store/drivers/sqlite"
	"github.com/wardenid/warden/pkg/cryptox"
	"github.com/wardenid/warden/pkg/idx"
)

func main() {
	var (
		dbFile     = flag.String("db", "warden.db", "path to the sqlite database")
		username   = flag.String("username", "", "account username (required)")
		password   = flag.String("password", "", "account password (required)")
		givenName  = flag.String("given-name", "", "account given name")
		familyName = flag.String("family-name", "", "account family name")
		email      = flag.String("email", "", "account email")
		roleName   = flag.String("role", "", "role to assign (created if missing)")
		rolePos    = flag.Int("role-position", 0, "role position, lower sorts first")
		noLockout  = flag.Bool("no-lockout", false, "disable lockout for this account")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", *dbFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	hash, err := cryptox.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	now := time.Now()

	acct := domain.Account{
		ID:             idx.New().String(),
		Username:       *username,
		GivenName:      *givenName,
		FamilyName:     *familyName,
		Email:          *email,
		PasswordHash:   hash,
		SignInAllowed:  true,
		LockoutEnabled: !*noLockout,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = db.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		if *roleName == "" {
			return nil
		}

		role, err := tx.Roles().GetRoleByName(ctx, *roleName)
		if errors.Is(err, store.ErrNotFound) {
			role = domain.Role{
				ID:        idx.New().String(),
				Name:      *roleName,
				Position:  *rolePos,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Roles().CreateRole(ctx, role); err != nil {
				return fmt.Errorf("create role: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("lookup role: %w", err)
		}

		if err := tx.Roles().AssignRole(ctx, acct.ID, role.ID); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Printf("seeded account %s (%s)", acct.Username, acct.ID)
}
