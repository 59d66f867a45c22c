package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

func newRoomFixture(t *testing.T) (*RoomService, *memory.Store) {
	t.Helper()
	docs := memory.NewStore()
	return NewRoomService(docs, nil), docs
}

func seedStudent(t *testing.T, docs *memory.Store, id string) {
	t.Helper()
	_, err := docs.Create(context.Background(), ports.CollectionAccounts, id, map[string]any{
		"email": id + "@hostel.edu",
		"role":  "student",
		"profile": map[string]any{
			"displayName": "Student " + id,
		},
	})
	require.NoError(t, err)
}

func createRoom(t *testing.T, svc *RoomService, number string, capacity int) *model.Room {
	t.Helper()
	room, err := svc.Create(context.Background(), model.CreateRoomRequest{
		RoomNumber: number,
		Block:      "A",
		Floor:      "1",
		Type:       model.RoomTypeDouble,
		Capacity:   capacity,
	})
	require.NoError(t, err)
	return room
}

func TestRoomService_Create(t *testing.T) {
	svc, _ := newRoomFixture(t)

	room, err := svc.Create(context.Background(), model.CreateRoomRequest{
		RoomNumber: "A-101",
		Block:      "A",
		Floor:      "1",
		Type:       "Double", // mixed case normalizes
		Capacity:   2,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, model.RoomTypeDouble, room.Type)
	assert.Equal(t, model.RoomStatusVacant, room.Status, "status defaults to vacant")
	assert.Zero(t, room.CurrentOccupants)
}

func TestRoomService_Create_DuplicateRoomNumber(t *testing.T) {
	svc, _ := newRoomFixture(t)
	createRoom(t, svc, "A-101", 2)

	_, err := svc.Create(context.Background(), model.CreateRoomRequest{
		RoomNumber: "A-101",
		Type:       model.RoomTypeSingle,
		Capacity:   1,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRoomService_Create_Validation(t *testing.T) {
	svc, _ := newRoomFixture(t)

	cases := []struct {
		name  string
		req   model.CreateRoomRequest
		field string
	}{
		{"missing number", model.CreateRoomRequest{Type: model.RoomTypeSingle, Capacity: 1}, "roomNumber"},
		{"bad type", model.CreateRoomRequest{RoomNumber: "B-1", Type: "quad", Capacity: 4}, "type"},
		{"zero capacity", model.CreateRoomRequest{RoomNumber: "B-1", Type: model.RoomTypeSingle}, "capacity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tc.field, apperrors.GetField(err))
		})
	}
}

func TestRoomService_Allocate(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	room := createRoom(t, svc, "A-101", 2)
	seedStudent(t, docs, "s1")

	allocation, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{
		RoomID:    room.ID,
		StudentID: "s1",
	})

	require.NoError(t, err)
	assert.True(t, allocation.Active)
	assert.Equal(t, "warden-1", allocation.CreatedBy)

	updated, err := svc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentOccupants)
	assert.Equal(t, model.RoomStatusVacant, updated.Status, "room with spare capacity stays vacant")

	// Room number is mirrored into the student's profile.
	accountDoc, err := docs.Get(ctx, ports.CollectionAccounts, "s1")
	require.NoError(t, err)
	account, err := decodeDoc[model.Account](accountDoc)
	require.NoError(t, err)
	assert.Equal(t, "A-101", account.Profile.RoomNo)
}

func TestRoomService_Allocate_RoomBecomesOccupiedAtCapacity(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	room := createRoom(t, svc, "A-101", 2)
	seedStudent(t, docs, "s1")
	seedStudent(t, docs, "s2")

	for _, id := range []string{"s1", "s2"} {
		_, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: id})
		require.NoError(t, err)
	}

	updated, err := svc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentOccupants)
	assert.Equal(t, model.RoomStatusOccupied, updated.Status)
}

func TestRoomService_Allocate_FullRoomConflicts(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	room := createRoom(t, svc, "A-101", 1)
	seedStudent(t, docs, "s1")
	seedStudent(t, docs, "s2")

	_, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s1"})
	require.NoError(t, err)

	_, err = svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s2"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRoomService_Allocate_MaintenanceRoomConflicts(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	room, err := svc.Create(ctx, model.CreateRoomRequest{
		RoomNumber: "M-1",
		Type:       model.RoomTypeSingle,
		Capacity:   1,
		Status:     model.RoomStatusMaintenance,
	})
	require.NoError(t, err)
	seedStudent(t, docs, "s1")

	_, err = svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s1"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRoomService_Allocate_UnknownStudent(t *testing.T) {
	svc, _ := newRoomFixture(t)
	room := createRoom(t, svc, "A-101", 2)

	_, err := svc.Allocate(context.Background(), "warden-1", model.AllocateRoomRequest{
		RoomID:    room.ID,
		StudentID: "ghost",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRoomService_Allocate_MovesStudentBetweenRooms(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	first := createRoom(t, svc, "A-101", 1)
	second := createRoom(t, svc, "A-102", 1)
	seedStudent(t, docs, "s1")

	_, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: first.ID, StudentID: "s1"})
	require.NoError(t, err)

	moved, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: second.ID, StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.RoomID)

	// The old allocation is closed and the old room's slot is released.
	allocation, room, err := svc.FetchOwnActiveAllocation(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, allocation.RoomID)
	assert.Equal(t, "A-102", room.RoomNumber)

	old, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, old.CurrentOccupants)
	assert.Equal(t, model.RoomStatusVacant, old.Status)

	history, err := svc.ListAllocations(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Active)
	assert.NotNil(t, history[0].AllocatedUntil)
}

func TestRoomService_Deallocate(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	room := createRoom(t, svc, "A-101", 1)
	seedStudent(t, docs, "s1")

	_, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s1"})
	require.NoError(t, err)

	require.NoError(t, svc.Deallocate(ctx, "s1"))

	_, _, err = svc.FetchOwnActiveAllocation(ctx, "s1")
	assert.True(t, apperrors.IsNotFound(err))

	updated, err := svc.Get(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.CurrentOccupants)
	assert.Equal(t, model.RoomStatusVacant, updated.Status)

	accountDoc, err := docs.Get(ctx, ports.CollectionAccounts, "s1")
	require.NoError(t, err)
	account, err := decodeDoc[model.Account](accountDoc)
	require.NoError(t, err)
	assert.Empty(t, account.Profile.RoomNo)
}

func TestRoomService_Deallocate_NoActiveAllocation(t *testing.T) {
	svc, docs := newRoomFixture(t)
	seedStudent(t, docs, "s1")

	err := svc.Deallocate(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRoomService_FetchOwnActiveAllocation_ScopedToStudent(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	room := createRoom(t, svc, "A-101", 2)
	seedStudent(t, docs, "s1")
	seedStudent(t, docs, "s2")

	_, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s1"})
	require.NoError(t, err)

	allocation, _, err := svc.FetchOwnActiveAllocation(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", allocation.StudentID)

	_, _, err = svc.FetchOwnActiveAllocation(ctx, "s2")
	assert.True(t, apperrors.IsNotFound(err), "other students never see this allocation")
}

func TestRoomService_ListByStatus(t *testing.T) {
	svc, docs := newRoomFixture(t)
	ctx := context.Background()
	createRoom(t, svc, "A-101", 1)
	room := createRoom(t, svc, "A-102", 1)
	seedStudent(t, docs, "s1")

	_, err := svc.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s1"})
	require.NoError(t, err)

	vacant, err := svc.ListByStatus(ctx, model.RoomStatusVacant)
	require.NoError(t, err)
	require.Len(t, vacant, 1)
	assert.Equal(t, "A-101", vacant[0].RoomNumber)

	occupied, err := svc.ListByStatus(ctx, model.RoomStatusOccupied)
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, "A-102", occupied[0].RoomNumber)
}
