package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/hosteldesk/internal/adapters/docstore/memory"
	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
	"github.com/hosteldesk/hosteldesk/internal/testutil"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *memory.Store) {
	t.Helper()
	docs := memory.NewStore()
	return NewPaymentService(docs, nil), docs
}

func recordPayment(t *testing.T, svc *PaymentService, studentID string, amount float64, due time.Time) *model.Payment {
	t.Helper()
	payment, err := svc.Record(context.Background(), "warden-1", model.RecordPaymentRequest{
		StudentID:   studentID,
		Amount:      amount,
		Description: "hostel fee",
		Type:        model.PaymentTypeHostelFee,
		DueDate:     due,
	})
	require.NoError(t, err)
	return payment
}

func TestPaymentService_Record(t *testing.T) {
	svc, docs := newPaymentFixture(t)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	due := testutil.TestTime().Add(30 * 24 * time.Hour)

	payment, err := svc.Record(context.Background(), "warden-1", model.RecordPaymentRequest{
		StudentID:   "s1",
		Amount:      4500,
		Description: "  semester hostel fee  ",
		DueDate:     due,
	})

	require.NoError(t, err)
	assert.Equal(t, "s1", payment.StudentID)
	assert.Equal(t, "Asha", payment.StudentName, "display name is denormalized from the account")
	assert.Equal(t, "semester hostel fee", payment.Description)
	assert.Equal(t, model.PaymentTypeOther, payment.Type, "type defaults when omitted")
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, "warden-1", payment.CreatedBy)
}

func TestPaymentService_Record_UnknownStudent(t *testing.T) {
	svc, _ := newPaymentFixture(t)

	_, err := svc.Record(context.Background(), "warden-1", model.RecordPaymentRequest{
		StudentID:   "ghost",
		Amount:      100,
		Description: "fee",
		DueDate:     testutil.TestTime(),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPaymentService_Record_Validation(t *testing.T) {
	svc, _ := newPaymentFixture(t)

	cases := []struct {
		name  string
		req   model.RecordPaymentRequest
		field string
	}{
		{"missing student", model.RecordPaymentRequest{Amount: 1, Description: "x", DueDate: testutil.TestTime()}, "studentId"},
		{"zero amount", model.RecordPaymentRequest{StudentID: "s1", Description: "x", DueDate: testutil.TestTime()}, "amount"},
		{"missing description", model.RecordPaymentRequest{StudentID: "s1", Amount: 1, DueDate: testutil.TestTime()}, "description"},
		{"missing due date", model.RecordPaymentRequest{StudentID: "s1", Amount: 1, Description: "x"}, "dueDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), "warden-1", tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.field, apperrors.GetField(err))
		})
	}
}

func TestPaymentService_FetchOwn_ScopedAndOrdered(t *testing.T) {
	svc, docs := newPaymentFixture(t)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	seedAccount(t, docs, "s2", domainauth.RoleStudent, "Zara")
	base := testutil.TestTime()

	recordPayment(t, svc, "s1", 2000, base.Add(48*time.Hour))
	recordPayment(t, svc, "s2", 9999, base.Add(time.Hour))
	recordPayment(t, svc, "s1", 1000, base.Add(24*time.Hour))

	own, err := svc.FetchOwn(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, float64(1000), own[0].Amount, "soonest due first")
	assert.Equal(t, float64(2000), own[1].Amount)
	for _, p := range own {
		assert.Equal(t, "s1", p.StudentID)
	}
}

func TestPaymentService_MarkPaid(t *testing.T) {
	svc, docs := newPaymentFixture(t)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	payment := recordPayment(t, svc, "s1", 2000, testutil.TestTime())

	paid, err := svc.MarkPaid(context.Background(), payment.ID, model.MarkPaymentPaidRequest{
		TransactionID: " txn-42 ",
	})

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, paid.Status)
	assert.Equal(t, "txn-42", paid.TransactionID)
	require.NotNil(t, paid.PaidAt)
}

func TestPaymentService_MarkPaid_AlreadyPaid(t *testing.T) {
	svc, docs := newPaymentFixture(t)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	payment := recordPayment(t, svc, "s1", 2000, testutil.TestTime())

	_, err := svc.MarkPaid(context.Background(), payment.ID, model.MarkPaymentPaidRequest{})
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), payment.ID, model.MarkPaymentPaidRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestPaymentService_MarkOverdue(t *testing.T) {
	svc, docs := newPaymentFixture(t)
	seedAccount(t, docs, "s1", domainauth.RoleStudent, "Asha")
	now := testutil.TestTime()

	overdue := recordPayment(t, svc, "s1", 1000, now.Add(-72*time.Hour))
	recordPayment(t, svc, "s1", 2000, now.Add(72*time.Hour))
	settled := recordPayment(t, svc, "s1", 3000, now.Add(-72*time.Hour))
	_, err := svc.MarkPaid(context.Background(), settled.ID, model.MarkPaymentPaidRequest{})
	require.NoError(t, err)

	flagged, err := svc.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged, "only pending payments past their due date flip")

	listed, err := svc.ListByStatus(context.Background(), model.PaymentStatusOverdue)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, overdue.ID, listed[0].ID)
}

func TestPaymentService_ListByStatus_InvalidStatus(t *testing.T) {
	svc, _ := newPaymentFixture(t)

	_, err := svc.ListByStatus(context.Background(), "refunded")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
