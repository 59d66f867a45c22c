package httpx

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
)

// TestWorkflow_HostelLifecycle drives a full term through the API: the warden
// sets up rooms, students register and move in, complaints and fees flow
// through their lifecycles, and both dashboards reflect the state.
func TestWorkflow_HostelLifecycle(t *testing.T) {
	s := newTestStack(t)

	warden := s.registerUser(t, "warden@hostel.edu", domainauth.RoleWarden)
	asha := s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)
	zara := s.registerUser(t, "zara@hostel.edu", domainauth.RoleStudent)

	// Warden creates a room.
	rec := s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/rooms", map[string]any{
		"roomNumber": "A-101",
		"block":      "A",
		"floor":      "1",
		"type":       "double",
		"capacity":   2,
	}), warden))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	room := decodeBody[model.Room](t, rec)

	// Students cannot create rooms.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/rooms", map[string]any{
		"roomNumber": "B-201",
		"type":       "single",
		"capacity":   1,
	}), asha))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Warden allocates Asha. The student id comes from the request, the
	// acting warden from the session.
	ashaID := s.accountID(t, asha)
	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/rooms/allocations", map[string]any{
		"roomId":    room.ID,
		"studentId": ashaID,
	}), warden))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Asha sees her allocation; Zara has none.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me/allocation", nil), asha))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me/allocation", nil), zara))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Both students file complaints; each sees only their own.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/complaints", map[string]any{
		"title":       "Leaking tap",
		"description": "Bathroom tap drips all night",
	}), asha))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ashaComplaint := decodeBody[model.Complaint](t, rec)

	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/complaints", map[string]any{
		"title":       "Noisy corridor",
		"description": "Block A corridor after midnight",
	}), zara))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me/complaints", nil), asha))
	require.Equal(t, http.StatusOK, rec.Code)
	own := decodeBody[map[string][]model.Complaint](t, rec)
	require.Len(t, own["complaints"], 1)
	assert.Equal(t, "Leaking tap", own["complaints"][0].Title)

	// Warden sees both and resolves Asha's.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/complaints?open=true", nil), warden))
	all := decodeBody[map[string][]model.Complaint](t, rec)
	assert.Len(t, all["complaints"], 2)

	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/api/complaints/%s/resolve", ashaComplaint.ID),
		map[string]any{"resolution": "washer replaced"}), warden))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resolved := decodeBody[model.Complaint](t, rec)
	assert.Equal(t, model.ComplaintStatusResolved, resolved.Status)

	// Warden raises a fee against Asha and settles it.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost, "/api/payments", map[string]any{
		"studentId":   ashaID,
		"amount":      4500,
		"description": "semester hostel fee",
		"type":        "hostel_fee",
		"dueDate":     time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}), warden))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	payment := decodeBody[model.Payment](t, rec)

	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me/payments", nil), asha))
	mine := decodeBody[map[string][]model.Payment](t, rec)
	require.Len(t, mine["payments"], 1)

	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me/payments", nil), zara))
	theirs := decodeBody[map[string][]model.Payment](t, rec)
	assert.Empty(t, theirs["payments"], "fees never leak across students")

	rec = s.do(t, withSession(jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/api/payments/%s/paid", payment.ID),
		map[string]any{"transactionId": "txn-42"}), warden))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Dashboards.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/dashboard/student", nil), asha))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/dashboard/warden", nil), warden))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	overview := decodeBody[map[string]int](t, rec)
	assert.Equal(t, 2, overview["totalStudents"])
	assert.Equal(t, 1, overview["totalRooms"])
	assert.Equal(t, 1, overview["pendingComplaints"])
	assert.Equal(t, 0, overview["pendingPayments"])
}

// TestWorkflow_ProfileEditCannotChangeRole exercises role immutability end to
// end: a student patches their profile with extra fields and the account's
// role is untouched.
func TestWorkflow_ProfileEditCannotChangeRole(t *testing.T) {
	s := newTestStack(t)
	asha := s.registerUser(t, "asha@hostel.edu", domainauth.RoleStudent)

	// A role field in the profile body is an unknown field, rejected outright.
	rec := s.do(t, withSession(jsonRequest(t, http.MethodPatch, "/api/me/profile", map[string]any{
		"displayName": "Asha K",
		"role":        "warden",
	}), asha))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A legitimate edit goes through and the role is still student.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodPatch, "/api/me/profile", map[string]any{
		"displayName": "Asha K",
		"rollNo":      "21CS001",
	}), asha))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	account := decodeBody[model.Account](t, rec)
	assert.Equal(t, domainauth.RoleStudent, account.Role)
	assert.Equal(t, "Asha K", account.Profile.DisplayName)

	// Still blocked from warden routes after the edit.
	rec = s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/students", nil), asha))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// accountID reads the caller's identity id via /api/me.
func (s *testStack) accountID(t *testing.T, sessionID string) string {
	t.Helper()
	rec := s.do(t, withSession(jsonRequest(t, http.MethodGet, "/api/me", nil), sessionID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	account := decodeBody[model.Account](t, rec)
	require.NotEmpty(t, account.ID)
	return account.ID
}
