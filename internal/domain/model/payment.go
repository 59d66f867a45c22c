//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

// PaymentType classifies what a payment is for.
type PaymentType string

const (
	PaymentTypeHostelFee PaymentType = "hostel_fee"
	PaymentTypeMessFee   PaymentType = "mess_fee"
	PaymentTypeOther     PaymentType = "other"
)

// Valid reports whether the payment type is supported.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeHostelFee, PaymentTypeMessFee, PaymentTypeOther:
		return true
	default:
		return false
	}
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Payment is a fee record raised by a warden against a student. StudentID is
// the scoping field for student-facing listings.
type Payment struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"studentId"`
	StudentName   string        `json:"studentName,omitempty"`
	Amount        float64       `json:"amount"`
	Description   string        `json:"description"`
	Type          PaymentType   `json:"type"`
	Status        PaymentStatus `json:"status"`
	DueDate       time.Time     `json:"dueDate"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
	TransactionID string        `json:"transactionId,omitempty"`
	CreatedBy     string        `json:"createdBy"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// RecordPaymentRequest represents parameters to raise a Payment. CreatedBy is
// stamped by the service from the warden's session.
type RecordPaymentRequest struct {
	StudentID   string      `json:"studentId"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	Type        PaymentType `json:"type,omitempty"`
	DueDate     time.Time   `json:"dueDate"`
}

// Validate validates RecordPaymentRequest.
func (r *RecordPaymentRequest) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return apperrors.ValidationField("studentId", "student id is required")
	}
	if r.Amount <= 0 {
		return apperrors.ValidationField("amount", "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Description) == "" {
		return apperrors.ValidationField("description", "description is required")
	}
	if r.Type == "" {
		r.Type = PaymentTypeOther
	}
	if !r.Type.Valid() {
		return apperrors.ValidationField("type", "payment type must be hostel_fee, mess_fee or other")
	}
	if r.DueDate.IsZero() {
		return apperrors.ValidationField("dueDate", "due date is required")
	}
	return nil
}

// MarkPaymentPaidRequest represents parameters to mark a Payment as paid.
type MarkPaymentPaidRequest struct {
	TransactionID string `json:"transactionId,omitempty"`
}
