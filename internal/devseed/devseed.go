// Package devseed populates a development instance with a warden account,
// a handful of rooms, and a welcome announcement so the API is usable
// immediately after startup. It is only invoked in dev mode and every step
// is idempotent: rerunning against an already-seeded store is a no-op.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

// WardenEmail is the dev warden login. The password is fixed and only valid
// for local development.
const (
	WardenEmail    = "warden@hosteldesk.local"
	wardenPassword = "warden-dev-password"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Auth          *service.AuthService
	Rooms         *service.RoomService
	Announcements *service.AnnouncementService
}

// Run executes the full development seeding workflow.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "devseed")

	wardenID, err := seedWarden(ctx, svcs.Auth, logger)
	if err != nil {
		return err
	}

	failures := 0
	failures += seedRooms(ctx, svcs.Rooms, logger)
	failures += seedAnnouncement(ctx, svcs.Announcements, wardenID, logger)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

// seedWarden registers the dev warden and returns its identity id. When the
// account already exists it logs in instead, so reruns keep working.
func seedWarden(ctx context.Context, auth *service.AuthService, logger *slog.Logger) (string, error) {
	sess, err := auth.Register(ctx, service.RegisterRequest{
		Email:       WardenEmail,
		Password:    wardenPassword,
		DisplayName: "Dev Warden",
		Role:        domainauth.RoleWarden,
	})
	if err == nil {
		logger.InfoContext(ctx, "created dev warden account", "email", WardenEmail)
		return sess.UserID, nil
	}
	if !apperrors.IsConflict(err) {
		return "", fmt.Errorf("seed warden account: %w", err)
	}

	sess, err = auth.Login(ctx, WardenEmail, wardenPassword)
	if err != nil {
		return "", fmt.Errorf("login existing dev warden: %w", err)
	}
	logger.InfoContext(ctx, "dev warden account already exists", "email", WardenEmail)
	return sess.UserID, nil
}

func seedRooms(ctx context.Context, svc *service.RoomService, logger *slog.Logger) int {
	rooms := []model.CreateRoomRequest{
		{RoomNumber: "A-101", Block: "A", Floor: "1", Type: model.RoomTypeDouble, Capacity: 2, Facilities: []string{"fan", "desk"}},
		{RoomNumber: "A-102", Block: "A", Floor: "1", Type: model.RoomTypeDouble, Capacity: 2, Facilities: []string{"fan", "desk"}},
		{RoomNumber: "A-201", Block: "A", Floor: "2", Type: model.RoomTypeTriple, Capacity: 3},
		{RoomNumber: "B-101", Block: "B", Floor: "1", Type: model.RoomTypeSingle, Capacity: 1, Facilities: []string{"fan", "desk", "balcony"}},
	}

	failures := 0
	for _, req := range rooms {
		if _, err := svc.Create(ctx, req); err != nil {
			if apperrors.IsConflict(err) {
				logger.InfoContext(ctx, "room already exists", "room", req.RoomNumber)
				continue
			}
			logger.ErrorContext(ctx, "failed to create room", "room", req.RoomNumber, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created room", "room", req.RoomNumber)
	}
	return failures
}

func seedAnnouncement(ctx context.Context, svc *service.AnnouncementService, wardenID string, logger *slog.Logger) int {
	const title = "Welcome to HostelDesk"

	existing, err := svc.Recent(ctx, 10)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list announcements", "error", err)
		return 1
	}
	for _, a := range existing {
		if a.Title == title {
			logger.InfoContext(ctx, "welcome announcement already exists")
			return 0
		}
	}

	_, err = svc.Create(ctx, wardenID, model.CreateAnnouncementRequest{
		Title:    title,
		Content:  "This is a development instance. Log in as " + WardenEmail + " to manage rooms, complaints, and payments.",
		Priority: model.PriorityLow,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create welcome announcement", "error", err)
		return 1
	}
	logger.InfoContext(ctx, "created welcome announcement")
	return 0
}
