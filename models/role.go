package models

// Role governs which operations a token may authorize.
// The first registered account is an Admin; every later one is a User.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// ParseRole accepts a role claim only when it is exactly "Admin" or "User".
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleUser:
		return r, true
	default:
		return "", false
	}
}
