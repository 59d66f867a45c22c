package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// ComplaintService handles the complaint lifecycle. Student-facing reads are
// self-scoped: the studentId filter is part of the store query, so a student
// can never widen it from the request.
type ComplaintService struct {
	docs   ports.DocumentStore
	logger *slog.Logger
}

func NewComplaintService(docs ports.DocumentStore, logger *slog.Logger) *ComplaintService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComplaintService{docs: docs, logger: logger.With("component", "complaint_service")}
}

// Submit files a complaint for the calling student. StudentID comes from the
// session, never the request body.
func (s *ComplaintService) Submit(ctx context.Context, studentID, studentName string, req model.SubmitComplaintRequest) (*model.Complaint, error) {
	if studentID == "" {
		return nil, apperrors.Validation("student id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	complaint := model.Complaint{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		StudentName: studentName,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      model.ComplaintStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.docs.Create(ctx, ports.CollectionComplaints, complaint.ID, complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FetchOwn returns the caller's complaints, newest first.
func (s *ComplaintService) FetchOwn(ctx context.Context, studentID string, limit int) ([]model.Complaint, error) {
	if studentID == "" {
		return nil, apperrors.Validation("student id is required")
	}
	docs, err := s.docs.Query(ctx, ports.CollectionComplaints, ports.Query{
		Filters: []ports.Filter{ports.Where("studentId", studentID)},
		OrderBy: "createdAt",
		Dir:     ports.Descending,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Complaint](docs)
}

// ListUnresolved returns complaints that still need warden attention, oldest
// first so the queue drains fairly.
func (s *ComplaintService) ListUnresolved(ctx context.Context) ([]model.Complaint, error) {
	docs, err := s.docs.Query(ctx, ports.CollectionComplaints, ports.Query{
		Filters: []ports.Filter{
			ports.WhereOp("status", ports.OpNotEqual, string(model.ComplaintStatusResolved)),
		},
		OrderBy: "createdAt",
		Dir:     ports.Ascending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Complaint](docs)
}

// ListAll returns every complaint, newest first.
func (s *ComplaintService) ListAll(ctx context.Context) ([]model.Complaint, error) {
	docs, err := s.docs.Query(ctx, ports.CollectionComplaints, ports.Query{
		OrderBy: "createdAt",
		Dir:     ports.Descending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Complaint](docs)
}

// MarkInProgress moves a pending complaint into in-progress.
func (s *ComplaintService) MarkInProgress(ctx context.Context, complaintID string) error {
	if complaintID == "" {
		return apperrors.Validation("complaint id is required")
	}
	return s.docs.Update(ctx, ports.CollectionComplaints, complaintID, map[string]any{
		"status":    string(model.ComplaintStatusInProgress),
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

// Resolve closes a complaint with a resolution note.
func (s *ComplaintService) Resolve(ctx context.Context, complaintID, resolution string) (*model.Complaint, error) {
	if complaintID == "" {
		return nil, apperrors.Validation("complaint id is required")
	}

	doc, err := s.docs.Get(ctx, ports.CollectionComplaints, complaintID)
	if err != nil {
		return nil, err
	}
	complaint, err := decodeDoc[model.Complaint](doc)
	if err != nil {
		return nil, err
	}
	if complaint.Status == model.ComplaintStatusResolved {
		return nil, apperrors.Conflict("complaint is already resolved")
	}

	now := time.Now().UTC()
	if err := s.docs.Update(ctx, ports.CollectionComplaints, complaintID, map[string]any{
		"status":     string(model.ComplaintStatusResolved),
		"resolution": strings.TrimSpace(resolution),
		"resolvedAt": now.Format(time.RFC3339),
		"updatedAt":  now.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}

	complaint.ID = doc.ID
	complaint.Status = model.ComplaintStatusResolved
	complaint.Resolution = strings.TrimSpace(resolution)
	complaint.ResolvedAt = &now
	complaint.UpdatedAt = now
	return &complaint, nil
}
