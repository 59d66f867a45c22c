//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

// ComplaintCategory classifies a complaint.
type ComplaintCategory string

const (
	ComplaintCategoryMaintenance ComplaintCategory = "maintenance"
	ComplaintCategoryFacility    ComplaintCategory = "facility"
	ComplaintCategoryOther       ComplaintCategory = "other"
)

// Valid reports whether the complaint category is supported.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case ComplaintCategoryMaintenance, ComplaintCategoryFacility, ComplaintCategoryOther:
		return true
	default:
		return false
	}
}

// Complaint is a student-authored record. StudentID always carries the
// creator's identity id; self-scoped listings filter on it in the store, not
// in the caller.
type Complaint struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"`
	StudentName string            `json:"studentName,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    ComplaintCategory `json:"category"`
	Priority    Priority          `json:"priority"`
	Status      ComplaintStatus   `json:"status"`
	Resolution  string            `json:"resolution,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	ResolvedAt  *time.Time        `json:"resolvedAt,omitempty"`
}

// SubmitComplaintRequest represents parameters to submit a Complaint.
// StudentID and StudentName are stamped by the service from the caller's
// session, never taken from the request body.
type SubmitComplaintRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    ComplaintCategory `json:"category,omitempty"`
	Priority    Priority          `json:"priority,omitempty"`
}

// Validate validates SubmitComplaintRequest.
func (r *SubmitComplaintRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ValidationField("title", "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return apperrors.ValidationField("description", "description is required")
	}
	if r.Category == "" {
		r.Category = ComplaintCategoryOther
	}
	if !r.Category.Valid() {
		return apperrors.ValidationField("category", "category must be maintenance, facility or other")
	}
	r.Priority = normalizePriority(r.Priority)
	if !r.Priority.Valid() {
		return apperrors.ValidationField("priority", "priority must be low, medium or high")
	}
	return nil
}
