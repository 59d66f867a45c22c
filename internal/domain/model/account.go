//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	"github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

// Account is the persisted record keyed by identity id. Role is assigned at
// registration and immutable afterwards; everything mutable lives in Profile
// so a profile-edit code path cannot rewrite the role by construction.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile groups the self-service fields an account owner may edit.
type Profile struct {
	DisplayName string `json:"displayName"`
	RollNo      string `json:"rollNo,omitempty"`
	Batch       string `json:"batch,omitempty"`
	Branch      string `json:"branch,omitempty"`
	RoomNo      string `json:"roomNo,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// UpdateProfileRequest carries a partial profile edit. There is deliberately
// no role field here.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	RollNo      *string `json:"rollNo,omitempty"`
	Batch       *string `json:"batch,omitempty"`
	Branch      *string `json:"branch,omitempty"`
	RoomNo      *string `json:"roomNo,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// HasUpdates reports whether any field is set.
func (r *UpdateProfileRequest) HasUpdates() bool {
	return r.DisplayName != nil || r.RollNo != nil || r.Batch != nil ||
		r.Branch != nil || r.RoomNo != nil || r.Phone != nil
}

// Validate validates UpdateProfileRequest.
func (r *UpdateProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return apperrors.Validation("at least one field must be updated")
	}
	if r.DisplayName != nil && strings.TrimSpace(*r.DisplayName) == "" {
		return apperrors.ValidationField("displayName", "display name cannot be empty")
	}
	return nil
}

// Apply merges the request into an existing profile.
func (r *UpdateProfileRequest) Apply(p Profile) Profile {
	if r.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*r.DisplayName)
	}
	if r.RollNo != nil {
		p.RollNo = strings.TrimSpace(*r.RollNo)
	}
	if r.Batch != nil {
		p.Batch = strings.TrimSpace(*r.Batch)
	}
	if r.Branch != nil {
		p.Branch = strings.TrimSpace(*r.Branch)
	}
	if r.RoomNo != nil {
		p.RoomNo = strings.TrimSpace(*r.RoomNo)
	}
	if r.Phone != nil {
		p.Phone = strings.TrimSpace(*r.Phone)
	}
	return p
}
