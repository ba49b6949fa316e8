package domain

import (
	"fmt"
	"time"
)

// Role is the authorization role claim carried by identity tokens.
// It is the single authorization axis in this system.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole validates and returns a Role.
// Returns an error if the role is unknown.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated identity attached to a request after the
// authorization gate succeeds. It is reconstructed fresh on every request
// from the decoded token and is never persisted.
type Principal struct {
	SubjectID   int64
	DisplayName string
	Role        Role
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
