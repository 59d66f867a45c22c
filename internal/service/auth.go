package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// passwordTooShortMessage is surfaced verbatim before any provider call.
const passwordTooShortMessage = "Password should be at least 6 characters"

const minPasswordLength = 6

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	SSO      ports.SSOProvider // optional, nil unless SSO mode is configured
	Sessions ports.SessionStore
	Resolver ports.RoleResolver
	Docs     ports.DocumentStore
	Logger   *slog.Logger
}

// AuthService orchestrates registration, login, and session lifecycle. Role
// resolution failures never fail a login; the session simply carries no role
// and the gate sends the user back to the landing page.
type AuthService struct {
	provider ports.IdentityProvider
	sso      ports.SSOProvider
	sessions ports.SessionStore
	resolver ports.RoleResolver
	docs     ports.DocumentStore
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		sso:      opts.SSO,
		sessions: opts.Sessions,
		resolver: opts.Resolver,
		docs:     opts.Docs,
		logger:   logger.With("component", "auth_service"),
	}
}

// RegisterRequest carries registration inputs. Role is fixed at creation;
// there is no later mutation path.
type RegisterRequest struct {
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirmPassword,omitempty"`
	DisplayName     string          `json:"displayName"`
	Role            domainauth.Role `json:"role"`
	Profile         model.Profile   `json:"profile"`
}

// Validate checks registration inputs before any provider call is made.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if len(r.Password) < minPasswordLength {
		return apperrors.ValidationField("password", passwordTooShortMessage)
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		return apperrors.ValidationField("confirmPassword", "passwords do not match")
	}
	if r.Role == "" {
		r.Role = domainauth.RoleStudent
	}
	if !r.Role.Valid() {
		return apperrors.ValidationField("role", "role must be student or warden")
	}
	return nil
}

// Register creates an identity, writes the account record carrying the role,
// and establishes a session.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domainauth.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity, err := s.provider.Register(ctx, ports.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := req.Profile
	if profile.DisplayName == "" {
		profile.DisplayName = strings.TrimSpace(req.DisplayName)
	}
	account := model.Account{
		ID:        identity.ID,
		Email:     identity.Email,
		Role:      req.Role,
		Profile:   profile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.docs.Create(ctx, ports.CollectionAccounts, identity.ID, account); err != nil {
		return nil, apperrors.Wrap(err, apperrors.GetCode(err), "write account record")
	}

	return s.establishSession(ctx, identity, account.Role)
}

// Login verifies credentials, resolves the role, and persists a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domainauth.Session, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	if password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	identity, err := s.provider.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establishSession(ctx, identity, s.resolveRole(ctx, identity.ID))
}

// BeginSSOResult contains the redirect target of a started SSO flow.
type BeginSSOResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO starts the browser SSO flow. Fails when SSO is not configured.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginSSOResult, error) {
	if s.sso == nil {
		return nil, apperrors.Validation("single sign-on is not configured")
	}
	authURL, state, nonce, err := s.sso.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuthentication, "begin sso flow")
	}
	return &BeginSSOResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteSSO exchanges the callback code for an identity and establishes a
// session. Identities without an account record get a session with no role.
func (s *AuthService) CompleteSSO(ctx context.Context, in ports.ExchangeInput) (*domainauth.Session, error) {
	if s.sso == nil {
		return nil, apperrors.Validation("single sign-on is not configured")
	}
	identity, err := s.sso.Exchange(ctx, in)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuthentication, "complete sso flow")
	}
	return s.establishSession(ctx, identity, s.resolveRole(ctx, identity.ID))
}

// GetSession retrieves a session by id, treating expired entries as absent.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.Authentication("no session")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			s.logger.Warn("failed to delete expired session", "error", deleteErr)
		}
		return nil, apperrors.NotFound("session not found")
	}
	return &sess, nil
}

// Logout removes the session and notifies the provider.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err == nil {
		if logoutErr := s.provider.Logout(ctx, sess.UserID); logoutErr != nil {
			s.logger.Warn("provider logout failed", "error", logoutErr)
		}
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	return s.sessions.Delete(ctx, sessionID)
}

// ResetPassword delegates to the provider. Unknown emails succeed silently.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	return s.provider.ResetPassword(ctx, email)
}

func (s *AuthService) establishSession(ctx context.Context, identity domainauth.Identity, role domainauth.Role) (*domainauth.Session, error) {
	sess := domainauth.Session{
		ID:          uuid.NewString(),
		UserID:      identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Role:        role,
		ExpiresAt:   identity.ExpiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, apperrors.Wrap(err, apperrors.GetCode(err), "save session")
	}
	return &sess, nil
}

// resolveRole performs exactly one role lookup. Failures degrade to an empty
// role; they are logged but never retried here.
func (s *AuthService) resolveRole(ctx context.Context, identityID string) domainauth.Role {
	role, err := s.resolver.Resolve(ctx, identityID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Warn("role resolution failed", "identity_id", identityID, "error", err)
		}
		return ""
	}
	return role
}

// decodeDoc unmarshals a document's fields into T.
func decodeDoc[T any](doc ports.Document) (T, error) {
	var out T
	if err := json.Unmarshal(doc.Fields, &out); err != nil {
		return out, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode document")
	}
	return out, nil
}

// decodeDocs unmarshals a document slice into []T.
func decodeDocs[T any](docs []ports.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeDoc[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
