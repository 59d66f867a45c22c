package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
)

// docGetter stubs the single DocumentStore method the resolver uses.
type docGetter struct {
	doc ports.Document
	err error
}

func (g *docGetter) Get(context.Context, string, string) (ports.Document, error) {
	return g.doc, g.err
}

func (g *docGetter) Query(context.Context, string, ports.Query) ([]ports.Document, error) {
	return nil, nil
}

func (g *docGetter) Create(context.Context, string, string, any) (string, error) {
	return "", nil
}

func (g *docGetter) Update(context.Context, string, string, map[string]any) error { return nil }

func (g *docGetter) Delete(context.Context, string, string) error { return nil }

func TestAccountRoleResolver_Resolve_ReturnsStoredRole(t *testing.T) {
	docs := &docGetter{doc: ports.Document{ID: "u1", Fields: []byte(`{"email":"s@hostel.edu","role":"student"}`)}}
	resolver := &AccountRoleResolver{Docs: docs}

	role, err := resolver.Resolve(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, role)
}

func TestAccountRoleResolver_Resolve_MissingAccount(t *testing.T) {
	docs := &docGetter{err: apperrors.NotFound("document not found")}
	resolver := &AccountRoleResolver{Docs: docs}

	_, err := resolver.Resolve(context.Background(), "ghost")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountRoleResolver_Resolve_InvalidRole(t *testing.T) {
	docs := &docGetter{doc: ports.Document{ID: "u1", Fields: []byte(`{"role":"superuser"}`)}}
	resolver := &AccountRoleResolver{Docs: docs}

	_, err := resolver.Resolve(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountRoleResolver_Resolve_LookupFailure(t *testing.T) {
	docs := &docGetter{err: apperrors.Internal("connection refused")}
	resolver := &AccountRoleResolver{Docs: docs}

	_, err := resolver.Resolve(context.Background(), "u1")

	require.Error(t, err)
	assert.True(t, apperrors.IsResolution(err))
}

func TestAccountRoleResolver_Resolve_EmptyID(t *testing.T) {
	resolver := &AccountRoleResolver{Docs: &docGetter{}}

	_, err := resolver.Resolve(context.Background(), "")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
