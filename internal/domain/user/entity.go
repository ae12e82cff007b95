package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Can see the full roster and everyone's logs
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin checks if user can access the admin roster
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	return Role(s) == RoleAdmin || Role(s) == RoleEmployee
}
