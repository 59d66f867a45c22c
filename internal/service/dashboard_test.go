package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/testutil"
)

type dashboardFixture struct {
	svc        *DashboardService
	docs       *memory.Store
	rooms      *RoomService
	complaints *ComplaintService
	payments   *PaymentService
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	docs := memory.NewStore()
	rooms := NewRoomService(docs, nil)
	complaints := NewComplaintService(docs, nil)
	payments := NewPaymentService(docs, nil)
	svc := NewDashboardService(DashboardServiceOptions{
		Docs:          docs,
		Accounts:      NewAccountService(docs, nil),
		Rooms:         rooms,
		Announcements: NewAnnouncementService(docs, nil),
		Complaints:    complaints,
		Payments:      payments,
	})
	return &dashboardFixture{svc: svc, docs: docs, rooms: rooms, complaints: complaints, payments: payments}
}

func TestDashboardService_StudentOverview(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	seedAccount(t, f.docs, "s1", domainauth.RoleStudent, "Asha")
	seedAccount(t, f.docs, "s2", domainauth.RoleStudent, "Zara")

	room := createRoom(t, f.rooms, "A-101", 2)
	_, err := f.rooms.Allocate(ctx, "warden-1", model.AllocateRoomRequest{RoomID: room.ID, StudentID: "s1"})
	require.NoError(t, err)

	seedAnnouncement(t, f.docs, "a1", "Water outage", testutil.TestTime())
	submitComplaint(t, f.complaints, "s1", "Broken fan")
	submitComplaint(t, f.complaints, "s2", "Noisy corridor")
	recordPayment(t, f.payments, "s1", 2000, testutil.TestTime().Add(24*time.Hour))
	recordPayment(t, f.payments, "s2", 9000, testutil.TestTime().Add(24*time.Hour))

	overview, err := f.svc.StudentOverview(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, "Asha", overview.Account.Profile.DisplayName)
	require.NotNil(t, overview.Allocation)
	require.NotNil(t, overview.Room)
	assert.Equal(t, "A-101", overview.Room.RoomNumber)
	require.Len(t, overview.Announcements, 1)

	require.Len(t, overview.Payments, 1)
	assert.Equal(t, "s1", overview.Payments[0].StudentID, "payments belong to the caller only")
	require.Len(t, overview.RecentComplaints, 1)
	assert.Equal(t, "s1", overview.RecentComplaints[0].StudentID)
}

func TestDashboardService_StudentOverview_NoAllocation(t *testing.T) {
	f := newDashboardFixture(t)
	seedAccount(t, f.docs, "s1", domainauth.RoleStudent, "Asha")

	overview, err := f.svc.StudentOverview(context.Background(), "s1")
	require.NoError(t, err, "missing allocation is not an error")
	assert.Nil(t, overview.Allocation)
	assert.Nil(t, overview.Room)
}

func TestDashboardService_StudentOverview_UnknownStudent(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.svc.StudentOverview(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDashboardService_WardenOverview(t *testing.T) {
	f := newDashboardFixture(t)
	ctx := context.Background()
	seedAccount(t, f.docs, "s1", domainauth.RoleStudent, "Asha")
	seedAccount(t, f.docs, "s2", domainauth.RoleStudent, "Zara")
	seedAccount(t, f.docs, "w1", domainauth.RoleWarden, "Warden")

	createRoom(t, f.rooms, "A-101", 2)
	single := createRoom(t, f.rooms, "A-102", 1)
	_, err := f.rooms.Allocate(ctx, "w1", model.AllocateRoomRequest{RoomID: single.ID, StudentID: "s1"})
	require.NoError(t, err)

	open := submitComplaint(t, f.complaints, "s1", "Broken fan")
	submitComplaint(t, f.complaints, "s2", "Noisy corridor")
	_, err = f.complaints.Resolve(ctx, open.ID, "fixed")
	require.NoError(t, err)

	due := recordPayment(t, f.payments, "s1", 2000, testutil.TestTime())
	recordPayment(t, f.payments, "s2", 3000, testutil.TestTime())
	_, err = f.payments.MarkPaid(ctx, due.ID, model.MarkPaymentPaidRequest{})
	require.NoError(t, err)

	overview, err := f.svc.WardenOverview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, overview.TotalStudents, "wardens are not counted")
	assert.Equal(t, 2, overview.TotalRooms)
	assert.Equal(t, 1, overview.VacantRooms)
	assert.Equal(t, 1, overview.PendingComplaints)
	assert.Equal(t, 1, overview.PendingPayments)
}

func TestDashboardService_WardenOverview_EmptyHostel(t *testing.T) {
	f := newDashboardFixture(t)

	overview, err := f.svc.WardenOverview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, overview.TotalStudents)
	assert.Zero(t, overview.TotalRooms)
}
