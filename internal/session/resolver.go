package session

import (
	"context"
	"encoding/json"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// AccountRoleResolver resolves roles by reading the account record keyed by
// identity id from the document store. It is stateless: every call performs a
// fresh lookup, so roles are never served from a stale cross-identity cache.
type AccountRoleResolver struct {
	Docs ports.DocumentStore
}

var _ ports.RoleResolver = (*AccountRoleResolver)(nil)

// Resolve returns the persisted role for the identity id. A missing account
// record or a record without a valid role fails with not-found; a store
// failure fails with a resolution error. Neither is retried here.
func (r *AccountRoleResolver) Resolve(ctx context.Context, identityID string) (domainauth.Role, error) {
	if identityID == "" {
		return "", apperrors.Validation("identity id is required")
	}

	doc, err := r.Docs.Get(ctx, ports.CollectionAccounts, identityID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", apperrors.NotFoundf("no account record for identity %s", identityID)
		}
		return "", apperrors.Wrap(err, apperrors.ErrCodeResolution, "role lookup failed")
	}

	var record struct {
		Role domainauth.Role `json:"role"`
	}
	if err := json.Unmarshal(doc.Fields, &record); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeResolution, "decode account record")
	}
	if !record.Role.Valid() {
		return "", apperrors.NotFound("account record carries no valid role")
	}
	return record.Role, nil
}
