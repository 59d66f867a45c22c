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

const defaultAnnouncementLimit = 20

// AnnouncementService manages broadcast notices. Announcements are unscoped:
// every authenticated user sees the same list.
type AnnouncementService struct {
	docs   ports.DocumentStore
	logger *slog.Logger
}

func NewAnnouncementService(docs ports.DocumentStore, logger *slog.Logger) *AnnouncementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnnouncementService{docs: docs, logger: logger.With("component", "announcement_service")}
}

// Create publishes an announcement stamped with its author.
func (s *AnnouncementService) Create(ctx context.Context, authorID string, req model.CreateAnnouncementRequest) (*model.Announcement, error) {
	if authorID == "" {
		return nil, apperrors.Validation("author id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	announcement := model.Announcement{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Priority:  req.Priority,
		CreatedBy: authorID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.docs.Create(ctx, ports.CollectionAnnouncements, announcement.ID, announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Recent returns the newest announcements, newest first.
func (s *AnnouncementService) Recent(ctx context.Context, limit int) ([]model.Announcement, error) {
	if limit <= 0 {
		limit = defaultAnnouncementLimit
	}
	docs, err := s.docs.Query(ctx, ports.CollectionAnnouncements, ports.Query{
		OrderBy: "createdAt",
		Dir:     ports.Descending,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Announcement](docs)
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("announcement id is required")
	}
	return s.docs.Delete(ctx, ports.CollectionAnnouncements, id)
}
