package localauth

// Package localauth implements password-based identity against the
// credentials collection. Hashes are bcrypt; the provider never stores or
// returns a plaintext password.

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

const defaultSessionDuration = 8 * time.Hour

// credentialRecord is the stored shape of a credentials document.
type credentialRecord struct {
	Email            string     `json:"email"`
	PasswordHash     string     `json:"passwordHash"`
	DisplayName      string     `json:"displayName"`
	ResetToken       string     `json:"resetToken,omitempty"`
	ResetTokenExpiry *time.Time `json:"resetTokenExpiry,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Config controls the local auth provider.
type Config struct {
	SessionDuration time.Duration // default 8h when zero
	BcryptCost      int           // default bcrypt.DefaultCost when zero
	ResetTokenTTL   time.Duration // default 1h when zero
}

// Provider implements ports.IdentityProvider over the document store.
type Provider struct {
	docs   ports.DocumentStore
	logger *slog.Logger
	cfg    Config

	mu   sync.Mutex
	subs []func(*domainauth.Identity)
}

var _ ports.IdentityProvider = (*Provider)(nil)

func NewProvider(docs ports.DocumentStore, logger *slog.Logger, cfg Config) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaultSessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.ResetTokenTTL == 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &Provider{
		docs:   docs,
		logger: logger.With("component", "localauth"),
		cfg:    cfg,
	}
}

func (p *Provider) Register(ctx context.Context, in ports.RegisterInput) (domainauth.Identity, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return domainauth.Identity{}, apperrors.ValidationField("email", "email is required")
	}
	if in.Password == "" {
		return domainauth.Identity{}, apperrors.ValidationField("password", "password is required")
	}

	if _, _, err := p.findByEmail(ctx, email); err == nil {
		return domainauth.Identity{}, apperrors.Conflict("an account with this email already exists")
	} else if !apperrors.IsNotFound(err) {
		return domainauth.Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cfg.BcryptCost)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	id := uuid.NewString()
	record := credentialRecord{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := p.docs.Create(ctx, ports.CollectionCredentials, id, record); err != nil {
		return domainauth.Identity{}, err
	}

	identity := p.identity(id, record)
	p.notify(&identity)
	return identity, nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (domainauth.Identity, error) {
	email = normalizeEmail(email)
	id, record, err := p.findByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return domainauth.Identity{}, apperrors.Authentication("invalid email or password")
		}
		return domainauth.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return domainauth.Identity{}, apperrors.Authentication("invalid email or password")
	}

	identity := p.identity(id, record)
	p.notify(&identity)
	return identity, nil
}

func (p *Provider) Logout(_ context.Context, identityID string) error {
	p.logger.Debug("logout", "identity_id", identityID)
	p.notify(nil)
	return nil
}

// ResetPassword issues a reset token for the email. Unknown emails succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}

	id, _, err := p.findByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			p.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expiry := time.Now().UTC().Add(p.cfg.ResetTokenTTL)
	if err := p.docs.Update(ctx, ports.CollectionCredentials, id, map[string]any{
		"resetToken":       token,
		"resetTokenExpiry": expiry.Format(time.RFC3339),
	}); err != nil {
		return err
	}

	// Delivery is out of band; log so operators can hand the token over in dev.
	p.logger.Info("password reset token issued", "identity_id", id)
	return nil
}

// CompleteReset sets a new password when the token matches and is unexpired.
func (p *Provider) CompleteReset(ctx context.Context, email, token, newPassword string) error {
	email = normalizeEmail(email)
	id, record, err := p.findByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.Authentication("invalid reset token")
		}
		return err
	}

	if record.ResetToken == "" || record.ResetToken != token {
		return apperrors.Authentication("invalid reset token")
	}
	if record.ResetTokenExpiry == nil || time.Now().After(*record.ResetTokenExpiry) {
		return apperrors.Authentication("reset token has expired")
	}
	if newPassword == "" {
		return apperrors.ValidationField("password", "password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.cfg.BcryptCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}
	return p.docs.Update(ctx, ports.CollectionCredentials, id, map[string]any{
		"passwordHash":     string(hash),
		"resetToken":       "",
		"resetTokenExpiry": nil,
	})
}

// PurgeExpiredResetTokens clears reset tokens whose expiry is at or before
// now, up to batchSize per call. Returns the number of records cleaned.
func (p *Provider) PurgeExpiredResetTokens(ctx context.Context, now time.Time, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	docs, err := p.docs.Query(ctx, ports.CollectionCredentials, ports.Query{
		Filters: []ports.Filter{
			ports.WhereOp("resetTokenExpiry", ports.OpLessEqual, now.UTC().Format(time.RFC3339)),
		},
		Limit: batchSize,
	})
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, doc := range docs {
		if err := p.docs.Update(ctx, ports.CollectionCredentials, doc.ID, map[string]any{
			"resetToken":       "",
			"resetTokenExpiry": nil,
		}); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func (p *Provider) OnIdentityChange(fn func(*domainauth.Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

func (p *Provider) notify(identity *domainauth.Identity) {
	p.mu.Lock()
	subs := make([]func(*domainauth.Identity), len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}

func (p *Provider) identity(id string, record credentialRecord) domainauth.Identity {
	return domainauth.Identity{
		ID:          id,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		ExpiresAt:   time.Now().Add(p.cfg.SessionDuration),
	}
}

func (p *Provider) findByEmail(ctx context.Context, email string) (string, credentialRecord, error) {
	docs, err := p.docs.Query(ctx, ports.CollectionCredentials, ports.Query{
		Filters: []ports.Filter{ports.Where("email", email)},
		Limit:   1,
	})
	if err != nil {
		return "", credentialRecord{}, err
	}
	if len(docs) == 0 {
		return "", credentialRecord{}, apperrors.NotFound("credential not found")
	}

	var record credentialRecord
	if err := json.Unmarshal(docs[0].Fields, &record); err != nil {
		return "", credentialRecord{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode credential record")
	}
	return docs[0].ID, record, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
