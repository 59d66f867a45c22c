//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

// Priority grades announcements and complaints.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is supported.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// normalizePriority trims and lowercases the input, defaulting to medium when empty.
func normalizePriority(p Priority) Priority {
	normalized := Priority(strings.ToLower(strings.TrimSpace(string(p))))
	if normalized == "" {
		return PriorityMedium
	}
	return normalized
}

// Announcement is a broadcast notice; it is never scoped to an identity.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAnnouncementRequest represents parameters to create an Announcement.
type CreateAnnouncementRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Priority Priority `json:"priority,omitempty"`
}

// Validate validates CreateAnnouncementRequest.
func (r *CreateAnnouncementRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperrors.ValidationField("title", "title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return apperrors.ValidationField("content", "content is required")
	}
	r.Priority = normalizePriority(r.Priority)
	if !r.Priority.Valid() {
		return apperrors.ValidationField("priority", "priority must be low, medium or high")
	}
	return nil
}
