package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	"github.com/hosteldesk/hosteldesk/internal/adapters/localauth"
	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	mockauth "github.com/hosteldesk/hosteldesk/internal/mocks/auth"
	"github.com/hosteldesk/hosteldesk/internal/service"
	"github.com/hosteldesk/hosteldesk/internal/session"
)

// testStack wires the full application against in-memory adapters so routing,
// middleware, and handlers are exercised end to end.
type testStack struct {
	Router http.Handler
	Docs   *memory.Store
	Auth   *service.AuthService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	docs := memory.NewStore()
	provider := localauth.NewProvider(docs, nil, localauth.Config{BcryptCost: bcrypt.MinCost})
	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: mockauth.NewMemorySessionStore(),
		Resolver: &session.AccountRoleResolver{Docs: docs},
		Docs:     docs,
	})

	accounts := service.NewAccountService(docs, nil)
	rooms := service.NewRoomService(docs, nil)
	announcements := service.NewAnnouncementService(docs, nil)
	complaints := service.NewComplaintService(docs, nil)
	payments := service.NewPaymentService(docs, nil)
	dashboard := service.NewDashboardService(service.DashboardServiceOptions{
		Docs:          docs,
		Accounts:      accounts,
		Rooms:         rooms,
		Announcements: announcements,
		Complaints:    complaints,
		Payments:      payments,
	})

	router := NewRouter(RouterServices{
		Auth:          auth,
		Accounts:      accounts,
		Rooms:         rooms,
		Announcements: announcements,
		Complaints:    complaints,
		Payments:      payments,
		Dashboard:     dashboard,
	})

	return &testStack{Router: router, Docs: docs, Auth: auth}
}

// do runs a request through the router and returns the recorder.
func (s *testStack) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withSession attaches a session cookie to the request.
func withSession(req *http.Request, sessionID string) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
	return req
}

// decodeBody unmarshals the recorder body into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerUser registers an account through the API and returns its session id.
func (s *testStack) registerUser(t *testing.T, email string, role domainauth.Role) string {
	t.Helper()
	rec := s.do(t, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":       email,
		"password":    "secret123",
		"displayName": "User " + email,
		"role":        role,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionIDFromCookies(t, rec)
}

func sessionIDFromCookies(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}
