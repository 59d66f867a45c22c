package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

const maxAnnouncementListLimit = 100

// AnnouncementHandlers provides HTTP handlers for announcement operations.
type AnnouncementHandlers struct {
	Svc *service.AnnouncementService
}

// Create publishes an announcement. Warden-only route; the author comes from
// the session.
// POST /api/announcements.
func (h *AnnouncementHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.CreateAnnouncementRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	announcement, err := h.Svc.Create(r.Context(), sess.UserID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, announcement)
}

// List returns recent announcements, newest first.
// GET /api/announcements?limit=<n>.
func (h *AnnouncementHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, maxAnnouncementListLimit)

	announcements, err := h.Svc.Recent(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"announcements": announcements})
}

// Delete removes an announcement. Warden-only route.
// DELETE /api/announcements/{id}.
func (h *AnnouncementHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("announcement id is required")},
		)
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// parseLimit reads a non-negative ?limit= query parameter, capped at maxLimit.
// Zero means "use the service default".
func parseLimit(r *http.Request, maxLimit int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
