package domain

import "time"

// Role enumerates the access levels a profile can hold.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleITSupport Role = "it_support"
	RoleITAdmin   Role = "it_admin"
	RoleManager   Role = "manager"
)

// IsStaff reports whether the role belongs to the IT team.
func (r Role) IsStaff() bool {
	return r == RoleITSupport || r == RoleITAdmin
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleITSupport, RoleITAdmin, RoleManager:
		return true
	}
	return false
}

// Token represents issued access token metadata.
type Token struct {
	SubjectID string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
