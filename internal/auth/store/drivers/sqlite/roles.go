package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/store"
)

type rolesRepo struct {
	q dbtx
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var (
		role               domain.Role
		createdAt, updated string
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, name, position, created_at, updated_at FROM roles WHERE name = ?`, name).
		Scan(&role.ID, &role.Name, &role.Position, &createdAt, &updated)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	role.CreatedAt = parseTime(createdAt)
	role.UpdatedAt = parseTime(updated)
	return role, nil
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO roles (id, name, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		role.ID, role.Name, role.Position, now, now)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *rolesRepo) AssignRole(ctx context.Context, accountID, roleID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO account_roles (account_id, role_id) VALUES (?, ?)`,
		accountID, roleID)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// ListAccountRoles returns roles ordered by role position then assignment
// order. Role claims must keep this order.
func (r *rolesRepo) ListAccountRoles(ctx context.Context, accountID string) ([]domain.Role, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT r.id, r.name, r.position, r.created_at, r.updated_at
		 FROM account_roles ar
		 JOIN roles r ON r.id = ar.role_id
		 WHERE ar.account_id = ?
		 ORDER BY r.position, ar.seq`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var (
			role               domain.Role
			createdAt, updated string
		)
		if err := rows.Scan(&role.ID, &role.Name, &role.Position, &createdAt, &updated); err != nil {
			return nil, err
		}
		role.CreatedAt = parseTime(createdAt)
		role.UpdatedAt = parseTime(updated)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
