package auth

// Package auth contains simple hand-written test doubles for the auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*StubIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.RoleResolver     = (*StaticRoleResolver)(nil)
	_ ports.SSOProvider      = (*StubSSOProvider)(nil)
)

// StubIdentityProvider simulates a credential provider. Behavior can be
// overridden per method; the default accepts any registered email/password
// pair it has seen.
type StubIdentityProvider struct {
	RegisterFunc func(ctx context.Context, in ports.RegisterInput) (domainauth.Identity, error)
	LoginFunc    func(ctx context.Context, email, password string) (domainauth.Identity, error)
	LogoutFunc   func(ctx context.Context, identityID string) error
	ResetFunc    func(ctx context.Context, email string) error

	mu         sync.Mutex
	seq        int
	accounts   map[string]string // email -> password
	identities map[string]domainauth.Identity
	subs       []func(*domainauth.Identity)

	ResetCalls []string
}

func NewStubIdentityProvider() *StubIdentityProvider {
	return &StubIdentityProvider{
		accounts:   make(map[string]string),
		identities: make(map[string]domainauth.Identity),
	}
}

func (p *StubIdentityProvider) Register(ctx context.Context, in ports.RegisterInput) (domainauth.Identity, error) {
	if p.RegisterFunc != nil {
		return p.RegisterFunc(ctx, in)
	}

	p.mu.Lock()
	if _, exists := p.accounts[in.Email]; exists {
		p.mu.Unlock()
		return domainauth.Identity{}, apperrors.Conflict("an account with this email already exists")
	}
	p.seq++
	identity := domainauth.Identity{
		ID:          fmt.Sprintf("stub-user-%d", p.seq),
		Email:       in.Email,
		DisplayName: in.DisplayName,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	p.accounts[in.Email] = in.Password
	p.identities[in.Email] = identity
	p.mu.Unlock()

	p.notify(&identity)
	return identity, nil
}

func (p *StubIdentityProvider) Login(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if p.LoginFunc != nil {
		return p.LoginFunc(ctx, email, password)
	}

	p.mu.Lock()
	stored, ok := p.accounts[email]
	identity := p.identities[email]
	p.mu.Unlock()

	if !ok || stored != password {
		return domainauth.Identity{}, apperrors.Authentication("invalid email or password")
	}
	identity.ExpiresAt = time.Now().Add(time.Hour)
	p.notify(&identity)
	return identity, nil
}

func (p *StubIdentityProvider) Logout(ctx context.Context, identityID string) error {
	if p.LogoutFunc != nil {
		return p.LogoutFunc(ctx, identityID)
	}
	p.notify(nil)
	return nil
}

func (p *StubIdentityProvider) ResetPassword(ctx context.Context, email string) error {
	p.mu.Lock()
	p.ResetCalls = append(p.ResetCalls, email)
	p.mu.Unlock()
	if p.ResetFunc != nil {
		return p.ResetFunc(ctx, email)
	}
	return nil
}

func (p *StubIdentityProvider) OnIdentityChange(fn func(*domainauth.Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

func (p *StubIdentityProvider) notify(identity *domainauth.Identity) {
	p.mu.Lock()
	subs := make([]func(*domainauth.Identity), len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(identity)
	}
}

// StubSSOProvider simulates an SSO provider with deterministic state/nonce.
type StubSSOProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (string, string, string, error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL  string
	Identity domainauth.Identity

	mu        sync.Mutex
	callCount int
}

func (p *StubSSOProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if p.BeginFunc != nil {
		return p.BeginFunc(ctx, in)
	}

	p.mu.Lock()
	p.callCount++
	n := p.callCount
	p.mu.Unlock()

	authURL := p.AuthURL
	if authURL == "" {
		authURL = "https://stub-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (p *StubSSOProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if p.ExchangeFunc != nil {
		return p.ExchangeFunc(ctx, in)
	}
	identity := p.Identity
	if identity.ID == "" {
		identity = domainauth.Identity{
			ID:          "sso-user-1",
			Email:       "sso.user@hostel.edu",
			DisplayName: "SSO User",
		}
	}
	identity.ExpiresAt = time.Now().Add(time.Hour)
	return identity, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StaticRoleResolver returns a fixed role per identity id.
type StaticRoleResolver struct {
	Roles map[string]domainauth.Role
	Err   error
}

func (r *StaticRoleResolver) Resolve(_ context.Context, identityID string) (domainauth.Role, error) {
	if r.Err != nil {
		return "", r.Err
	}
	role, ok := r.Roles[identityID]
	if !ok {
		return "", apperrors.NotFound("no account record for identity " + identityID)
	}
	return role, nil
}
