package httpx

import (
	"errors"
	"net/http"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

// RoomHandlers provides HTTP handlers for room and allocation operations.
type RoomHandlers struct {
	Svc *service.RoomService
}

// Create adds a room. Warden-only route.
// POST /api/rooms.
func (h *RoomHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	room, err := h.Svc.Create(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, room)
}

// List returns all rooms, optionally filtered by ?status=.
// GET /api/rooms.
func (h *RoomHandlers) List(w http.ResponseWriter, r *http.Request) {
	var (
		rooms []model.Room
		err   error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		rooms, err = h.Svc.ListByStatus(r.Context(), model.RoomStatus(status))
	} else {
		rooms, err = h.Svc.List(r.Context())
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// GetByID returns a room.
// GET /api/rooms/{id}.
func (h *RoomHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("room id is required")},
		)
		return
	}

	room, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, room)
}

// Allocate assigns a student to a room. Warden-only route; the acting warden
// comes from the session.
// POST /api/rooms/allocations.
func (h *RoomHandlers) Allocate(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.AllocateRoomRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	allocation, err := h.Svc.Allocate(r.Context(), sess.UserID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, allocation)
}

// Deallocate closes a student's active allocation. Warden-only route.
// DELETE /api/rooms/allocations/{studentId}.
func (h *RoomHandlers) Deallocate(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentId")
	if studentID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("student id is required")},
		)
		return
	}

	if err := h.Svc.Deallocate(r.Context(), studentID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deallocated": true})
}

// ListAllocations returns the allocation history of a room. Warden-only route.
// GET /api/rooms/{id}/allocations.
func (h *RoomHandlers) ListAllocations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("room id is required")},
		)
		return
	}

	allocations, err := h.Svc.ListAllocations(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"allocations": allocations})
}

// MyAllocation returns the caller's active allocation and its room. The
// student id is taken from the session; there is no way to request another
// student's allocation through this route.
// GET /api/me/allocation.
func (h *RoomHandlers) MyAllocation(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	allocation, room, err := h.Svc.FetchOwnActiveAllocation(r.Context(), sess.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"allocation": allocation,
		"room":       room,
	})
}
