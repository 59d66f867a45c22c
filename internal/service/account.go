package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// AccountService reads and edits account records. The role field has no write
// path here: profile updates patch only profile.* keys.
type AccountService struct {
	docs   ports.DocumentStore
	logger *slog.Logger
}

func NewAccountService(docs ports.DocumentStore, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{docs: docs, logger: logger.With("component", "account_service")}
}

// Get returns the account record for an identity id.
func (s *AccountService) Get(ctx context.Context, identityID string) (*model.Account, error) {
	if identityID == "" {
		return nil, apperrors.Validation("identity id is required")
	}
	doc, err := s.docs.Get(ctx, ports.CollectionAccounts, identityID)
	if err != nil {
		return nil, err
	}
	account, err := decodeDoc[model.Account](doc)
	if err != nil {
		return nil, err
	}
	account.ID = doc.ID
	return &account, nil
}

// UpdateProfile applies a partial profile edit to the caller's own account.
func (s *AccountService) UpdateProfile(ctx context.Context, identityID string, req model.UpdateProfileRequest) (*model.Account, error) {
	if identityID == "" {
		return nil, apperrors.Validation("identity id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}

	updated := req.Apply(account.Profile)
	now := time.Now().UTC()
	if err := s.docs.Update(ctx, ports.CollectionAccounts, identityID, map[string]any{
		"profile":   updated,
		"updatedAt": now.Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}

	account.Profile = updated
	account.UpdatedAt = now
	return account, nil
}

// ListStudents returns all student accounts ordered by display name.
func (s *AccountService) ListStudents(ctx context.Context) ([]model.Account, error) {
	docs, err := s.docs.Query(ctx, ports.CollectionAccounts, ports.Query{
		Filters: []ports.Filter{ports.Where("role", string(domainauth.RoleStudent))},
		OrderBy: "profile.displayName",
		Dir:     ports.Ascending,
	})
	if err != nil {
		return nil, err
	}
	return decodeDocs[model.Account](docs)
}
