package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
)

func TestAuthHandlers_Register(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":       "asha@hostel.edu",
		"password":    "secret123",
		"displayName": "Asha",
	}))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "asha@hostel.edu", user["email"])
	assert.Equal(t, string(domainauth.RoleStudent), user["role"])
	assert.NotEmpty(t, sessionIDFromCookies(t, rec))
}

func TestAuthHandlers_Register_ShortPassword(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "asha@hostel.edu",
		"password": "12345",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "validation_failed", body["error"])
	assert.Equal(t, "Password should be at least 6 characters", body["message"])
	assert.Equal(t, "password", body["field"])
}

func TestAuthHandlers_Register_DuplicateEmail(t *testing.T) {
	s := newTestStack(t)
	s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "asha@hostel.edu",
		"password": "secret123",
	}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandlers_Register_RejectsUnknownFields(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "asha@hostel.edu",
		"password": "secret123",
		"isAdmin":  true,
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "invalid_json", body["error"])
}

func TestAuthHandlers_Login(t *testing.T) {
	s := newTestStack(t)
	s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "asha@hostel.edu",
		"password": "secret123",
	}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(domainauth.RoleStudent), user["role"], "role resolved from the account record")
	assert.NotEmpty(t, sessionIDFromCookies(t, rec))
}

func TestAuthHandlers_Login_BadCredentials(t *testing.T) {
	s := newTestStack(t)
	s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "asha@hostel.edu",
		"password": "wrong-password",
	}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlers_Status(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, jsonRequest(t, http.MethodGet, "/api/auth/status", nil))
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, body["authenticated"])

	sessionID := s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/auth/status", nil), sessionID))
	body = decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["authenticated"])
}

func TestAuthHandlers_Logout(t *testing.T) {
	s := newTestStack(t)
	sessionID := s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)

	rec := s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/auth/logout", nil), sessionID))
	require.Equal(t, http.StatusOK, rec.Code)

	// The session no longer authenticates requests.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me", nil), sessionID))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlers_ResetPassword_AlwaysSucceeds(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/reset-password", map[string]any{
		"email": "nobody@hostel.edu",
	}))

	assert.Equal(t, http.StatusOK, rec.Code, "unknown emails are indistinguishable from known ones")
}

func TestAuthHandlers_SSOCallback_MissingParams(t *testing.T) {
	s := newTestStack(t)

	rec := s.do(t, jsonRequest(t, http.MethodGet, "/auth/sso/callback", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, jsonRequest(t, http.MethodGet, "/auth/sso/callback?code=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "missing_state", body["error"])
}
