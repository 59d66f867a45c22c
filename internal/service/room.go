package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// RoomService manages rooms and allocations. Allocation keeps the invariant
// that a student has at most one active allocation: an existing active one is
// deactivated before the new one is written.
type RoomService struct {
	docs   ports.DocumentStore
	logger *slog.Logger
}

func NewRoomService(docs ports.DocumentStore, logger *slog.Logger) *RoomService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomService{docs: docs, logger: logger.With("component", "room_service")}
}

// Create adds a room.
func (s *RoomService) Create(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Room numbers are unique; a duplicate is a conflict, not a second room.
	existing, err := s.docs.Query(ctx, ports.CollectionRooms, ports.Query{
		Filters: []ports.Filter{ports.Where("roomNumber", req.RoomNumber)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperrors.Conflict("room " + req.RoomNumber + " already exists")
	}

	room := model.Room{
		ID:         uuid.NewString(),
		RoomNumber: req.RoomNumber,
		Block:      req.Block,
		Floor:      req.Floor,
		Type:       req.Type,
		Capacity:   req.Capacity,
		Status:     req.Status,
		Facilities: req.Facilities,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.docs.Create(ctx, ports.CollectionRooms, room.ID, room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, roomID string) (*model.Room, error) {
	if roomID == "" {
		return nil, apperrors.Validation("room id is required")
	}
	doc, err := s.docs.Get(ctx, ports.CollectionRooms, roomID)
	if err != nil {
		return nil, err
	}
	room, err := decodeDoc[model.Room](doc)
	if err != nil {
		return nil, err
	}
	room.ID = doc.ID
	return &room, nil
}

// List returns all rooms ordered by room number.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	docs, err := s.docs.Query(ctx, ports.CollectionRooms, ports.Query{
		OrderBy: "roomNumber",
		Dir:     ports.Ascending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Room](docs)
}

// ListByStatus returns rooms with the given status.
func (s *RoomService) ListByStatus(ctx context.Context, status model.RoomStatus) ([]model.Room, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "invalid room status")
	}
	docs, err := s.docs.Query(ctx, ports.CollectionRooms, ports.Query{
		Filters: []ports.Filter{ports.Where("status", string(status))},
		OrderBy: "roomNumber",
		Dir:     ports.Ascending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Room](docs)
}

// Allocate assigns a student to a room. Any previously active allocation for
// the student is closed first; room occupancy and status follow.
func (s *RoomService) Allocate(ctx context.Context, wardenID string, req model.AllocateRoomRequest) (*model.RoomAllocation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	room, err := s.Get(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if room.Status == model.RoomStatusMaintenance {
		return nil, apperrors.Conflict("room " + room.RoomNumber + " is under maintenance")
	}
	if room.CurrentOccupants >= room.Capacity {
		return nil, apperrors.Conflict("room " + room.RoomNumber + " is full")
	}

	// Ensure the student account exists before we touch any allocation state.
	if _, err := s.docs.Get(ctx, ports.CollectionAccounts, req.StudentID); err != nil {
		return nil, err
	}

	if err := s.deactivateCurrent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	allocation := model.RoomAllocation{
		ID:            uuid.NewString(),
		RoomID:        room.ID,
		StudentID:     req.StudentID,
		Active:        true,
		AllocatedFrom: now,
		CreatedBy:     wardenID,
		CreatedAt:     now,
	}
	if _, err := s.docs.Create(ctx, ports.CollectionAllocations, allocation.ID, allocation); err != nil {
		return nil, err
	}

	occupants := room.CurrentOccupants + 1
	status := room.Status
	if occupants >= room.Capacity {
		status = model.RoomStatusOccupied
	}
	if err := s.docs.Update(ctx, ports.CollectionRooms, room.ID, map[string]any{
		"currentOccupants": occupants,
		"status":           string(status),
	}); err != nil {
		return nil, err
	}

	// Mirror the room number into the student's profile for display.
	if err := s.docs.Update(ctx, ports.CollectionAccounts, req.StudentID, map[string]any{
		"profile.roomNo": room.RoomNumber,
	}); err != nil {
		s.logger.Warn("failed to mirror room number to profile", "student_id", req.StudentID, "error", err)
	}

	return &allocation, nil
}

// Deallocate closes the student's active allocation and releases the slot.
func (s *RoomService) Deallocate(ctx context.Context, studentID string) error {
	if studentID == "" {
		return apperrors.Validation("student id is required")
	}

	allocation, err := s.activeAllocation(ctx, studentID)
	if err != nil {
		return err
	}
	if allocation == nil {
		return apperrors.NotFound("student has no active allocation")
	}

	if err := s.closeAllocation(ctx, *allocation); err != nil {
		return err
	}

	room, err := s.Get(ctx, allocation.RoomID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	occupants := room.CurrentOccupants - 1
	if occupants < 0 {
		occupants = 0
	}
	status := room.Status
	if status == model.RoomStatusOccupied && occupants < room.Capacity {
		status = model.RoomStatusVacant
	}
	if err := s.docs.Update(ctx, ports.CollectionRooms, room.ID, map[string]any{
		"currentOccupants": occupants,
		"status":           string(status),
	}); err != nil {
		return err
	}

	if err := s.docs.Update(ctx, ports.CollectionAccounts, studentID, map[string]any{
		"profile.roomNo": "",
	}); err != nil {
		s.logger.Warn("failed to clear room number on profile", "student_id", studentID, "error", err)
	}
	return nil
}

// FetchOwnActiveAllocation returns the caller's active allocation with its
// room, or not-found when none exists. The studentId filter is applied in the
// store.
func (s *RoomService) FetchOwnActiveAllocation(ctx context.Context, studentID string) (*model.RoomAllocation, *model.Room, error) {
	if studentID == "" {
		return nil, nil, apperrors.Validation("student id is required")
	}

	allocation, err := s.activeAllocation(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	if allocation == nil {
		return nil, nil, apperrors.NotFound("no active allocation")
	}

	room, err := s.Get(ctx, allocation.RoomID)
	if err != nil {
		return nil, nil, err
	}
	return allocation, room, nil
}

// ListAllocations returns allocations for a room, active first by creation time.
func (s *RoomService) ListAllocations(ctx context.Context, roomID string) ([]model.RoomAllocation, error) {
	if roomID == "" {
		return nil, apperrors.Validation("room id is required")
	}
	docs, err := s.docs.Query(ctx, ports.CollectionAllocations, ports.Query{
		Filters: []ports.Filter{ports.Where("roomId", roomID)},
		OrderBy: "createdAt",
		Dir:     ports.Descending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.RoomAllocation](docs)
}

func (s *RoomService) activeAllocation(ctx context.Context, studentID string) (*model.RoomAllocation, error) {
	docs, err := s.docs.Query(ctx, ports.CollectionAllocations, ports.Query{
		Filters: []ports.Filter{
			ports.Where("studentId", studentID),
			ports.Where("active", true),
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	allocation, err := decodeDoc[model.RoomAllocation](docs[0])
	if err != nil {
		return nil, err
	}
	allocation.ID = docs[0].ID
	return &allocation, nil
}

func (s *RoomService) closeAllocation(ctx context.Context, allocation model.RoomAllocation) error {
	now := time.Now().UTC()
	return s.docs.Update(ctx, ports.CollectionAllocations, allocation.ID, map[string]any{
		"active":         false,
		"allocatedUntil": now.Format(time.RFC3339),
	})
}

// deactivateCurrent closes an existing active allocation and releases its
// room slot, so re-allocation moves the student instead of double-booking.
func (s *RoomService) deactivateCurrent(ctx context.Context, studentID string) error {
	allocation, err := s.activeAllocation(ctx, studentID)
	if err != nil || allocation == nil {
		return err
	}

	if err := s.closeAllocation(ctx, *allocation); err != nil {
		return err
	}

	room, err := s.Get(ctx, allocation.RoomID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	occupants := room.CurrentOccupants - 1
	if occupants < 0 {
		occupants = 0
	}
	status := room.Status
	if status == model.RoomStatusOccupied && occupants < room.Capacity {
		status = model.RoomStatusVacant
	}
	return s.docs.Update(ctx, ports.CollectionRooms, room.ID, map[string]any{
		"currentOccupants": occupants,
		"status":           string(status),
	})
}
