package domain

import "time"

// Role is a named role an account holds. Position fixes the order roles are
// returned in by the directory; role claims keep that order, they are not
// sorted alphabetically.
type Role struct {
	ID        string
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
