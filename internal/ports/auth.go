package ports

// Package ports defines interfaces (hexagonal ports) for auth and storage
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service and internal/session.

import (
	"context"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
)

// RegisterInput carries inputs for creating a new identity.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// IdentityProvider wraps an external identity service: credential
// verification and identity lifecycle. It knows nothing about roles or
// account records.
type IdentityProvider interface {
	// Register creates a new identity. Duplicate emails fail with a conflict error.
	Register(ctx context.Context, in RegisterInput) (domainauth.Identity, error)

	// Login verifies credentials and returns the authenticated identity.
	// Bad credentials fail with an authentication error.
	Login(ctx context.Context, email, password string) (domainauth.Identity, error)

	// Logout invalidates provider-side state for the identity, if any.
	Logout(ctx context.Context, identityID string) error

	// ResetPassword starts a password reset for the given email. Unknown
	// emails succeed silently to avoid account enumeration.
	ResetPassword(ctx context.Context, email string) error

	// OnIdentityChange registers a callback invoked whenever the current
	// identity changes: a non-nil identity after register/login, nil after
	// logout. Callbacks run on the caller's goroutine.
	OnIdentityChange(fn func(identity *domainauth.Identity))
}

// BeginInput carries inputs for starting a browser SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput carries the callback parameters of a browser SSO flow.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider wraps an external single-sign-on service. Begin returns the
// authorization URL plus the state and nonce the callback must echo back;
// Exchange turns the callback code into a verified identity.
type SSOProvider interface {
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves server-side user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleResolver maps an identity id to its persisted role.
type RoleResolver interface {
	// Resolve returns the role for the identity id. Missing account records
	// fail with a not-found error; lookup failures with a resolution error.
	Resolve(ctx context.Context, identityID string) (domainauth.Role, error)
}
