package bootstrap

import (
	"log/slog"

	"github.com/hosteldesk/hosteldesk/config"
	"github.com/hosteldesk/hosteldesk/internal/adapters/localauth"
	"github.com/hosteldesk/hosteldesk/internal/adapters/oidcauth"
	"github.com/hosteldesk/hosteldesk/internal/ports"
	"github.com/hosteldesk/hosteldesk/internal/service"
	"github.com/hosteldesk/hosteldesk/internal/session"
)

// AuthBuildConfig contains configuration for the auth service.
type AuthBuildConfig struct {
	Auth        config.AuthConfig
	Docs        ports.DocumentStore
	Sessions    ports.SessionStore
	CallbackURL string
	Logger      *slog.Logger
}

// authBundle is the auth service plus the adapters the background workers
// need direct access to.
type authBundle struct {
	service  *service.AuthService
	provider *localauth.Provider
}

// buildAuthService assembles the identity provider, role resolver, and session
// store into an auth service. The local password provider is always wired so
// registered accounts keep working; the SSO provider is layered on top only
// when the sso mode is fully configured.
func buildAuthService(cfg AuthBuildConfig) authBundle {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	provider := localauth.NewProvider(cfg.Docs, logger, localauth.Config{
		SessionDuration: cfg.Auth.Password.SessionTTL,
		BcryptCost:      cfg.Auth.Password.BcryptCost,
		ResetTokenTTL:   cfg.Auth.Password.ResetTokenTTL,
	})

	resolver := &session.AccountRoleResolver{Docs: cfg.Docs}

	opts := service.AuthServiceOptions{
		Provider: provider,
		Sessions: cfg.Sessions,
		Resolver: resolver,
		Docs:     cfg.Docs,
		Logger:   logger,
	}

	if cfg.Auth.SSOEnabled() {
		sso, err := buildSSOProvider(cfg)
		if err != nil {
			logger.Warn("failed to create SSO provider, falling back to password auth", "error", err)
		} else {
			opts.SSO = sso
		}
	}

	return authBundle{
		service:  service.NewAuthService(opts),
		provider: provider,
	}
}

func buildSSOProvider(cfg AuthBuildConfig) (ports.SSOProvider, error) {
	redirectURL := cfg.Auth.SSO.RedirectURL
	if redirectURL == "" {
		redirectURL = cfg.CallbackURL
	}

	return oidcauth.NewProvider(oidcauth.ProviderConfig{
		ClientID:     cfg.Auth.SSO.ClientID,
		ClientSecret: cfg.Auth.SSO.ClientSecret,
		RedirectURL:  redirectURL,
		Scope:        cfg.Auth.SSO.Scope,
		DiscoveryURL: cfg.Auth.SSO.DiscoveryURL,
	})
}
