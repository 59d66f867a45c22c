package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword uses email/password credentials stored in the database.
	AuthModePassword AuthMode = "password"
	// AuthModeSSO uses an external OIDC provider for authentication.
	AuthModeSSO AuthMode = "sso"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "sso":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, sso)", v)
	}
}

// PasswordAuthConfig controls the local email/password provider.
type PasswordAuthConfig struct {
	// SessionTTL is how long an issued session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// BcryptCost is the bcrypt work factor for password hashes.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// ResetTokenTTL is how long a password reset token stays redeemable.
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
}

// Sanitize applies guardrails to password auth configuration values.
func (p *PasswordAuthConfig) Sanitize() {
	if p.SessionTTL < time.Minute {
		p.SessionTTL = time.Minute
	}
	// bcrypt rejects costs outside [4, 31]; clamp to a sane production range.
	if p.BcryptCost < 10 {
		p.BcryptCost = 10
	}
	if p.BcryptCost > 16 {
		p.BcryptCost = 16
	}
	if p.ResetTokenTTL < time.Minute {
		p.ResetTokenTTL = time.Minute
	}
}

// SSOConfig contains OIDC configuration used when Mode=sso.
type SSOConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"hosteldesk"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// Password configuration (used when Mode=password, and always available
	// as a fallback for locally registered accounts).
	Password PasswordAuthConfig `envPrefix:"AUTH_"`

	// SSO configuration (used when Mode=sso).
	SSO SSOConfig `envPrefix:"SSO_"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	a.Password.Sanitize()
	a.SSO.DiscoveryURL = strings.TrimSpace(a.SSO.DiscoveryURL)
}

// SSOEnabled reports whether the SSO login routes should be wired.
func (a *AuthConfig) SSOEnabled() bool {
	return a.Mode == AuthModeSSO && a.SSO.DiscoveryURL != ""
}
