package domain

import "time"

// Role grants access to admin-only operations.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one the service issues.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account that can log in to the dashboard.
// Password is stored as entered.
type User struct {
	ID        string
	Email     string
	Password  string
	Role      Role
	CreatedAt time.Time
}
