package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/ports"
	"github.com/hosteldesk/hosteldesk/internal/testutil"
)

func seedAccount(t *testing.T, docs *memory.Store, id string, role domainauth.Role, displayName string) {
	t.Helper()
	_, err := docs.Create(context.Background(), ports.CollectionAccounts, id, model.Account{
		ID:    id,
		Email: id + "@hostel.edu",
		Role:  role,
		Profile: model.Profile{
			DisplayName: displayName,
		},
		CreatedAt: testutil.TestTime(),
		UpdatedAt: testutil.TestTime(),
	})
	require.NoError(t, err)
}

func TestAccountService_Get(t *testing.T) {
	docs := memory.NewStore()
	svc := NewAccountService(docs, nil)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")

	account, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", account.ID)
	assert.Equal(t, domainauth.RoleStudent, account.Role)
	assert.Equal(t, "Asha", account.Profile.DisplayName)
}

func TestAccountService_Get_NotFound(t *testing.T) {
	svc := NewAccountService(memory.NewStore(), nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountService_UpdateProfile(t *testing.T) {
	docs := memory.NewStore()
	svc := NewAccountService(docs, nil)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	ctx := context.Background()

	account, err := svc.UpdateProfile(ctx, "s1", model.UpdateProfileRequest{
		RollNo: testutil.StringPtr("21CS001"),
		Phone:  testutil.StringPtr(" 555-0101 "),
	})

	require.NoError(t, err)
	assert.Equal(t, "21CS001", account.Profile.RollNo)
	assert.Equal(t, "555-0101", account.Profile.Phone, "whitespace is trimmed")
	assert.Equal(t, "Asha", account.Profile.DisplayName, "untouched fields survive")

	reread, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "21CS001", reread.Profile.RollNo)
}

func TestAccountService_UpdateProfile_CannotTouchRole(t *testing.T) {
	docs := memory.NewStore()
	svc := NewAccountService(docs, nil)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, "s1", model.UpdateProfileRequest{
		DisplayName: testutil.StringPtr("Asha K"),
	})
	require.NoError(t, err)

	account, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, account.Role, "profile edits never change the role")
}

func TestAccountService_UpdateProfile_Validation(t *testing.T) {
	docs := memory.NewStore()
	svc := NewAccountService(docs, nil)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")

	_, err := svc.UpdateProfile(context.Background(), "s1", model.UpdateProfileRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateProfile(context.Background(), "s1", model.UpdateProfileRequest{
		DisplayName: testutil.StringPtr("   "),
	})
	require.Error(t, err)
	assert.Equal(t, "displayName", apperrors.GetField(err))
}

func TestAccountService_ListStudents(t *testing.T) {
	docs := memory.NewStore()
	svc := NewAccountService(docs, nil)
	seedAccount(t, docs, "s2", domainauth.RoleStudent, "Zara")
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	seedAccount(t, docs, "w1", domainauth.RoleWarden, "Warden")

	students, err := svc.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2, "wardens are excluded")
	assert.Equal(t, "Asha", students[0].Profile.DisplayName)
	assert.Equal(t, "Zara", students[1].Profile.DisplayName)
}
