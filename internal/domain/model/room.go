//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

// RoomType describes the sharing arrangement of a room.
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeTriple RoomType = "triple"
)

// Valid reports whether the room type is supported.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeTriple:
		return true
	default:
		return false
	}
}

// RoomStatus tracks the occupancy state of a room.
type RoomStatus string

const (
	RoomStatusVacant      RoomStatus = "vacant"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

// Valid reports whether the room status is supported.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusVacant, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	default:
		return false
	}
}

// Room represents a hostel room.
type Room struct {
	ID               string     `json:"id"`
	RoomNumber       string     `json:"roomNumber"`
	Block            string     `json:"block"`
	Floor            string     `json:"floor"`
	Type             RoomType   `json:"type"`
	Capacity         int        `json:"capacity"`
	Status           RoomStatus `json:"status"`
	Facilities       []string   `json:"facilities,omitempty"`
	CurrentOccupants int        `json:"currentOccupants"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// CreateRoomRequest represents parameters to create a Room.
type CreateRoomRequest struct {
	RoomNumber string     `json:"roomNumber"`
	Block      string     `json:"block"`
	Floor      string     `json:"floor"`
	Type       RoomType   `json:"type"`
	Capacity   int        `json:"capacity"`
	Status     RoomStatus `json:"status,omitempty"`
	Facilities []string   `json:"facilities,omitempty"`
}

// Validate validates CreateRoomRequest.
func (r *CreateRoomRequest) Validate() error {
	if strings.TrimSpace(r.RoomNumber) == "" {
		return apperrors.ValidationField("roomNumber", "room number is required")
	}
	normalized := RoomType(strings.ToLower(strings.TrimSpace(string(r.Type))))
	if !normalized.Valid() {
		return apperrors.ValidationField("type", "room type must be single, double or triple")
	}
	r.Type = normalized
	if r.Capacity <= 0 {
		return apperrors.ValidationField("capacity", "capacity must be greater than zero")
	}
	if r.Status == "" {
		r.Status = RoomStatusVacant
	}
	if !r.Status.Valid() {
		return apperrors.ValidationField("status", "invalid room status")
	}
	return nil
}

// RoomAllocation binds a student to a room. At most one allocation per student
// may have Active=true at a time; the warden-side allocation workflow enforces
// this by deactivating the previous allocation before creating a new one.
type RoomAllocation struct {
	ID             string     `json:"id"`
	RoomID         string     `json:"roomId"`
	StudentID      string     `json:"studentId"`
	Active         bool       `json:"active"`
	AllocatedFrom  time.Time  `json:"allocatedFrom"`
	AllocatedUntil *time.Time `json:"allocatedUntil,omitempty"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// AllocateRoomRequest represents parameters to allocate a room to a student.
type AllocateRoomRequest struct {
	RoomID    string `json:"roomId"`
	StudentID string `json:"studentId"`
}

// Validate validates AllocateRoomRequest.
func (r *AllocateRoomRequest) Validate() error {
	if strings.TrimSpace(r.RoomID) == "" {
		return apperrors.ValidationField("roomId", "room id is required")
	}
	if strings.TrimSpace(r.StudentID) == "" {
		return apperrors.ValidationField("studentId", "student id is required")
	}
	return nil
}
