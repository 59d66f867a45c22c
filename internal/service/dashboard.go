package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// DashboardService aggregates overview data for the two home screens. Counts
// are derived from filtered fetches; the store keeps no counters.
type DashboardService struct {
	docs          ports.DocumentStore
	accounts      *AccountService
	rooms         *RoomService
	announcements *AnnouncementService
	complaints    *ComplaintService
	payments      *PaymentService
	logger        *slog.Logger
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Docs          ports.DocumentStore
	Accounts      *AccountService
	Rooms         *RoomService
	Announcements *AnnouncementService
	Complaints    *ComplaintService
	Payments      *PaymentService
	Logger        *slog.Logger
}

func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		docs:          opts.Docs,
		accounts:      opts.Accounts,
		rooms:         opts.Rooms,
		announcements: opts.Announcements,
		complaints:    opts.Complaints,
		payments:      opts.Payments,
		logger:        logger.With("component", "dashboard_service"),
	}
}

// StudentOverview is the student home screen payload.
type StudentOverview struct {
	Account          model.Account         `json:"account"`
	Allocation       *model.RoomAllocation `json:"allocation,omitempty"`
	Room             *model.Room           `json:"room,omitempty"`
	Announcements    []model.Announcement  `json:"announcements"`
	Payments         []model.Payment       `json:"payments"`
	RecentComplaints []model.Complaint     `json:"recentComplaints"`
}

// StudentOverview assembles the student's own data. Every scoped fetch runs
// concurrently; a missing allocation is normal, not an error.
func (s *DashboardService) StudentOverview(ctx context.Context, studentID string) (*StudentOverview, error) {
	if studentID == "" {
		return nil, apperrors.Validation("student id is required")
	}

	var overview StudentOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		account, err := s.accounts.Get(gctx, studentID)
		if err != nil {
			return err
		}
		overview.Account = *account
		return nil
	})
	g.Go(func() error {
		allocation, room, err := s.rooms.FetchOwnActiveAllocation(gctx, studentID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil
			}
			return err
		}
		overview.Allocation = allocation
		overview.Room = room
		return nil
	})
	g.Go(func() error {
		announcements, err := s.announcements.Recent(gctx, 3)
		if err != nil {
			return err
		}
		overview.Announcements = announcements
		return nil
	})
	g.Go(func() error {
		payments, err := s.payments.FetchOwn(gctx, studentID)
		if err != nil {
			return err
		}
		overview.Payments = payments
		return nil
	})
	g.Go(func() error {
		complaints, err := s.complaints.FetchOwn(gctx, studentID, 3)
		if err != nil {
			return err
		}
		overview.RecentComplaints = complaints
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// WardenOverview is the warden home screen payload.
type WardenOverview struct {
	TotalStudents     int `json:"totalStudents"`
	TotalRooms        int `json:"totalRooms"`
	VacantRooms       int `json:"vacantRooms"`
	PendingComplaints int `json:"pendingComplaints"`
	PendingPayments   int `json:"pendingPayments"`
}

// WardenOverview computes the hostel-wide counters concurrently.
func (s *DashboardService) WardenOverview(ctx context.Context) (*WardenOverview, error) {
	var overview WardenOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.count(gctx, ports.CollectionAccounts,
			ports.Where("role", string(domainauth.RoleStudent)))
		overview.TotalStudents = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, ports.CollectionRooms)
		overview.TotalRooms = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, ports.CollectionRooms,
			ports.Where("status", string(model.RoomStatusVacant)))
		overview.VacantRooms = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, ports.CollectionComplaints,
			ports.WhereOp("status", ports.OpNotEqual, string(model.ComplaintStatusResolved)))
		overview.PendingComplaints = n
		return err
	})
	g.Go(func() error {
		n, err := s.count(gctx, ports.CollectionPayments,
			ports.Where("status", string(model.PaymentStatusPending)))
		overview.PendingPayments = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *DashboardService) count(ctx context.Context, collection string, filters ...ports.Filter) (int, error) {
	docs, err := s.docs.Query(ctx, collection, ports.Query{Filters: filters})
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}
