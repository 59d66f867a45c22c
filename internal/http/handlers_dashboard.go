package httpx

import (
	"errors"
	"net/http"

	"github.com/hosteldesk/hosteldesk/internal/service"
)

// DashboardHandlers provides HTTP handlers for the two home screens.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// StudentOverview returns the caller's own dashboard. Student-only route.
// GET /api/dashboard/student.
func (h *DashboardHandlers) StudentOverview(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	overview, err := h.Svc.StudentOverview(r.Context(), sess.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, overview)
}

// WardenOverview returns hostel-wide counters. Warden-only route.
// GET /api/dashboard/warden.
func (h *DashboardHandlers) WardenOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Svc.WardenOverview(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, overview)
}
