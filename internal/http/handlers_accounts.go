package httpx

import (
	"errors"
	"net/http"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

// AccountHandlers provides HTTP handlers for account operations. The identity
// id for self-service endpoints always comes from the session in context.
type AccountHandlers struct {
	Svc *service.AccountService
}

// Me returns the caller's own account record.
// GET /api/me.
func (h *AccountHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	account, err := h.Svc.Get(r.Context(), sess.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// UpdateProfile applies a partial profile edit to the caller's own account.
// The request body has no role field; the account's role cannot be reached
// from here.
// PATCH /api/me/profile.
func (h *AccountHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.UpdateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := h.Svc.UpdateProfile(r.Context(), sess.UserID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, account)
}

// ListStudents returns all student accounts. Warden-only route.
// GET /api/students.
func (h *AccountHandlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Svc.ListStudents(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"students": students})
}
