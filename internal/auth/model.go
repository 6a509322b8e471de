package auth

import "fmt"

// Role is the closed set of roles a credential can carry.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a caller-supplied role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Credential represents a row in the users table. PasswordHash is opaque and
// never leaves the auth package.
type Credential struct {
	Username     string
	PasswordHash string
	Role         Role
}

// Principal is the authenticated identity stored in the request context.
// It is derived per request from a verified token plus a credential lookup.
type Principal struct {
	Username string
	Role     Role
}

// IsAdmin reports whether the principal may mutate records it does not own.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
