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

// PaymentService manages fee records. Student reads are self-scoped in the
// store query, same as complaints.
type PaymentService struct {
	docs   ports.DocumentStore
	logger *slog.Logger
}

func NewPaymentService(docs ports.DocumentStore, logger *slog.Logger) *PaymentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{docs: docs, logger: logger.With("component", "payment_service")}
}

// Record raises a payment against a student, stamped with the warden who
// created it.
func (s *PaymentService) Record(ctx context.Context, wardenID string, req model.RecordPaymentRequest) (*model.Payment, error) {
	if wardenID == "" {
		return nil, apperrors.Validation("warden id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The student must exist; a typo'd id should fail loudly, not create an
	// orphaned fee record.
	accountDoc, err := s.docs.Get(ctx, ports.CollectionAccounts, req.StudentID)
	if err != nil {
		return nil, err
	}
	account, err := decodeDoc[model.Account](accountDoc)
	if err != nil {
		return nil, err
	}

	payment := model.Payment{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		StudentName: account.Profile.DisplayName,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		Status:      model.PaymentStatusPending,
		DueDate:     req.DueDate.UTC(),
		CreatedBy:   wardenID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.docs.Create(ctx, ports.CollectionPayments, payment.ID, payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FetchOwn returns the caller's payments ordered by due date.
func (s *PaymentService) FetchOwn(ctx context.Context, studentID string) ([]model.Payment, error) {
	if studentID == "" {
		return nil, apperrors.Validation("student id is required")
	}
	docs, err := s.docs.Query(ctx, ports.CollectionPayments, ports.Query{
		Filters: []ports.Filter{ports.Where("studentId", studentID)},
		OrderBy: "dueDate",
		Dir:     ports.Ascending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Payment](docs)
}

// ListByStatus returns payments in the given status, due-soonest first.
func (s *PaymentService) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error) {
	switch status {
	case model.PaymentStatusPending, model.PaymentStatusPaid, model.PaymentStatusOverdue:
	default:
		return nil, apperrors.ValidationField("status", "invalid payment status")
	}
	docs, err := s.docs.Query(ctx, ports.CollectionPayments, ports.Query{
		Filters: []ports.Filter{ports.Where("status", string(status))},
		OrderBy: "dueDate",
		Dir:     ports.Ascending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Payment](docs)
}

// MarkPaid settles a pending or overdue payment.
func (s *PaymentService) MarkPaid(ctx context.Context, paymentID string, req model.MarkPaymentPaidRequest) (*model.Payment, error) {
	if paymentID == "" {
		return nil, apperrors.Validation("payment id is required")
	}

	doc, err := s.docs.Get(ctx, ports.CollectionPayments, paymentID)
	if err != nil {
		return nil, err
	}
	payment, err := decodeDoc[model.Payment](doc)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.PaymentStatusPaid {
		return nil, apperrors.Conflict("payment is already settled")
	}

	now := time.Now().UTC()
	if err := s.docs.Update(ctx, ports.CollectionPayments, paymentID, map[string]any{
		"status":        string(model.PaymentStatusPaid),
		"paidAt":        now.Format(time.RFC3339),
		"transactionId": strings.TrimSpace(req.TransactionID),
	}); err != nil {
		return nil, err
	}

	payment.ID = doc.ID
	payment.Status = model.PaymentStatusPaid
	payment.PaidAt = &now
	payment.TransactionID = strings.TrimSpace(req.TransactionID)
	return &payment, nil
}

// MarkOverdue flags pending payments whose due date has passed. Returns the
// number of payments flagged.
func (s *PaymentService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	docs, err := s.docs.Query(ctx, ports.CollectionPayments, ports.Query{
		Filters: []ports.Filter{
			ports.Where("status", string(model.PaymentStatusPending)),
			ports.WhereOp("dueDate", ports.OpLess, now.UTC().Format(time.RFC3339Nano)),
		},
	})
	if err != nil {
		return 0, err
	}

	flagged := 0
	for _, doc := range docs {
		if err := s.docs.Update(ctx, ports.CollectionPayments, doc.ID, map[string]any{
			"status": string(model.PaymentStatusOverdue),
		}); err != nil {
			return flagged, err
		}
		flagged++
	}
	return flagged, nil
}
