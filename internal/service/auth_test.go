package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	mockauth "github.com/hosteldesk/hosteldesk/internal/mocks/auth"
	"github.com/hosteldesk/hosteldesk/internal/ports"
	"github.com/hosteldesk/hosteldesk/internal/session"
)

type authFixture struct {
	svc      *AuthService
	provider *mockauth.StubIdentityProvider
	sessions *mockauth.MemorySessionStore
	docs     *memory.Store
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	docs := memory.NewStore()
	provider := mockauth.NewStubIdentityProvider()
	sessions := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Resolver: &session.AccountRoleResolver{Docs: docs},
		Docs:     docs,
	})
	return &authFixture{svc: svc, provider: provider, sessions: sessions, docs: docs}
}

func TestAuthService_Register_ShortPasswordExactMessage(t *testing.T) {
	f := newAuthFixture(t)
	providerCalled := false
	f.provider.RegisterFunc = func(context.Context, ports.RegisterInput) (domainauth.Identity, error) {
		providerCalled = true
		return domainauth.Identity{}, nil
	}

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "a@hostel.edu",
		Password: "12345",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "Password should be at least 6 characters", apperrors.GetMessage(err))
	assert.Equal(t, "password", apperrors.GetField(err))
	assert.False(t, providerCalled, "provider must not be called for invalid input")
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:           "a@hostel.edu",
		Password:        "secret123",
		ConfirmPassword: "secret124",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "confirmPassword", apperrors.GetField(err))
}

func TestAuthService_Register_CreatesAccountAndSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Register(ctx, RegisterRequest{
		Email:       "a@hostel.edu",
		Password:    "secret123",
		DisplayName: "Asha",
		Profile:     model.Profile{RollNo: "21CS001"},
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, sess.Role, "role defaults to student")
	assert.NotEmpty(t, sess.ID)

	doc, err := f.docs.Get(ctx, ports.CollectionAccounts, sess.UserID)
	require.NoError(t, err)
	account, err := decodeDoc[model.Account](doc)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, account.Role)
	assert.Equal(t, "Asha", account.Profile.DisplayName)
	assert.Equal(t, "21CS001", account.Profile.RollNo)

	stored, err := f.sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, stored.UserID)
}

func TestAuthService_Register_WardenRole(t *testing.T) {
	f := newAuthFixture(t)

	sess, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "warden@hostel.edu",
		Password: "secret123",
		Role:     domainauth.RoleWarden,
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleWarden, sess.Role)
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "a@hostel.edu",
		Password: "secret123",
		Role:     "superuser",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_Login_ResolvesRoleFromAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, RegisterRequest{
		Email:    "a@hostel.edu",
		Password: "secret123",
		Role:     domainauth.RoleWarden,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, registered.ID))

	sess, err := f.svc.Login(ctx, "a@hostel.edu", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleWarden, sess.Role)
	assert.NotEqual(t, registered.ID, sess.ID, "login issues a fresh session id")
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "ghost@hostel.edu", "whatever")
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthentication(err))
	assert.Equal(t, 0, f.sessions.Len(), "no session persisted on failed login")
}

func TestAuthService_Login_MissingAccountRecordYieldsNoRole(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// Identity exists at the provider but no account record was written.
	f.provider.LoginFunc = func(context.Context, string, string) (domainauth.Identity, error) {
		return domainauth.Identity{ID: "orphan", Email: "o@hostel.edu", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	sess, err := f.svc.Login(ctx, "o@hostel.edu", "secret123")
	require.NoError(t, err, "resolution failure must not fail the login")
	assert.Empty(t, sess.Role)
}

func TestAuthService_Login_ResolverFailureSoftFails(t *testing.T) {
	docs := memory.NewStore()
	provider := mockauth.NewStubIdentityProvider()
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mockauth.NewMemorySessionStore(),
		Resolver: &mockauth.StaticRoleResolver{Err: apperrors.Resolution("store unreachable")},
		Docs:     docs,
	})

	_, err := provider.Register(context.Background(), ports.RegisterInput{Email: "a@hostel.edu", Password: "secret123"})
	require.NoError(t, err)

	sess, err := svc.Login(context.Background(), "a@hostel.edu", "secret123")
	require.NoError(t, err)
	assert.Empty(t, sess.Role)
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	expired := domainauth.Session{
		ID:        "expired-session",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.sessions.Save(ctx, expired))

	_, err := f.svc.GetSession(ctx, "expired-session")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, f.sessions.Len(), "expired session is cleaned up")
}

func TestAuthService_Logout_RemovesSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Register(ctx, RegisterRequest{Email: "a@hostel.edu", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, sess.ID))

	_, err = f.svc.GetSession(ctx, sess.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_Logout_EmptySessionIDIsNoop(t *testing.T) {
	f := newAuthFixture(t)

	assert.NoError(t, f.svc.Logout(context.Background(), ""))
}

func TestAuthService_ResetPassword_Delegates(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.ResetPassword(context.Background(), "anyone@hostel.edu"))
	assert.Equal(t, []string{"anyone@hostel.edu"}, f.provider.ResetCalls)
}

func TestAuthService_SSO_NotConfigured(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.BeginSSO(context.Background(), "http://localhost/callback")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_CompleteSSO_EstablishesSession(t *testing.T) {
	docs := memory.NewStore()
	sso := &mockauth.StubSSOProvider{Identity: domainauth.Identity{
		ID:    "sso-1",
		Email: "w@hostel.edu",
	}}
	sessions := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider: mockauth.NewStubIdentityProvider(),
		SSO:      sso,
		Sessions: sessions,
		Resolver: &session.AccountRoleResolver{Docs: docs},
		Docs:     docs,
	})
	ctx := context.Background()

	_, err := docs.Create(ctx, ports.CollectionAccounts, "sso-1", map[string]any{
		"email": "w@hostel.edu", "role": "warden",
	})
	require.NoError(t, err)

	sess, err := svc.CompleteSSO(ctx, ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleWarden, sess.Role)
	assert.Equal(t, 1, sessions.Len())
}
