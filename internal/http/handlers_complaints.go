package httpx

import (
	"errors"
	"net/http"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

const maxComplaintListLimit = 100

// ComplaintHandlers provides HTTP handlers for complaint operations. Student
// routes are self-scoped: the student id is always the session's, and the
// filter is applied in the store.
type ComplaintHandlers struct {
	Svc *service.ComplaintService
}

// Submit files a complaint for the calling student.
// POST /api/complaints.
func (h *ComplaintHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.SubmitComplaintRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	complaint, err := h.Svc.Submit(r.Context(), sess.UserID, sess.DisplayName, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, complaint)
}

// My returns the caller's own complaints, newest first.
// GET /api/me/complaints?limit=<n>.
func (h *ComplaintHandlers) My(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	complaints, err := h.Svc.FetchOwn(r.Context(), sess.UserID, parseLimit(r, maxComplaintListLimit))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"complaints": complaints})
}

// List returns complaints across all students. Warden-only route.
// GET /api/complaints?open=true returns only unresolved ones.
func (h *ComplaintHandlers) List(w http.ResponseWriter, r *http.Request) {
	var (
		complaints []model.Complaint
		err        error
	)
	if r.URL.Query().Get("open") == "true" {
		complaints, err = h.Svc.ListUnresolved(r.Context())
	} else {
		complaints, err = h.Svc.ListAll(r.Context())
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"complaints": complaints})
}

// MarkInProgress moves a complaint into in-progress. Warden-only route.
// POST /api/complaints/{id}/progress.
func (h *ComplaintHandlers) MarkInProgress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("complaint id is required")},
		)
		return
	}

	if err := h.Svc.MarkInProgress(r.Context(), id); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": string(model.ComplaintStatusInProgress)})
}

// resolveComplaintRequest is the Resolve body.
type resolveComplaintRequest struct {
	Resolution string `json:"resolution"`
}

// Resolve closes a complaint with a resolution note. Warden-only route.
// POST /api/complaints/{id}/resolve.
func (h *ComplaintHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("complaint id is required")},
		)
		return
	}

	var req resolveComplaintRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	complaint, err := h.Svc.Resolve(r.Context(), id, req.Resolution)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, complaint)
}
