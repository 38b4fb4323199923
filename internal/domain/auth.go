package domain

// Identity is the caller asserted by a bearer token.
type Identity struct {
	Email string
	Role  Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
