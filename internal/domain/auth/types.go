package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents a principal's authorization class.
// Keep string form for easy persistence and cookies.
// The set is closed: student and warden are the only valid values.
type Role string

const (
	RoleStudent Role = "student"
	RoleWarden  Role = "warden"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleWarden
}

// Roles returns the closed role set.
func Roles() []Role {
	return []Role{RoleStudent, RoleWarden}
}

// Identity represents the authenticated principal returned by an identity
// provider. Adapters map provider-specific records into this shape; the rest
// of the system treats it as opaque and read-only.
type Identity struct {
	ID          string // stable identity id (e.g., provider uid or sub)
	Email       string
	DisplayName string
	ExpiresAt   time.Time // absolute expiry from the provider; zero when the provider has no notion of expiry
}

// Session is the server-side record persisted for an authenticated user.
// ID is an opaque session identifier (random URL-safe string).
// Role holds the role resolved at login; an empty Role means resolution
// failed or no account record exists, which grants no role-gated access.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// HasRole reports whether the session carries a resolved role.
func (s Session) HasRole() bool { return s.Role.Valid() }
