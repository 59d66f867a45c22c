package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/hosteldesk/hosteldesk/internal/domain/model"
	"github.com/hosteldesk/hosteldesk/internal/service"
)

// PaymentHandlers provides HTTP handlers for fee operations.
type PaymentHandlers struct {
	Svc *service.PaymentService
}

// Record raises a payment against a student. Warden-only route.
// POST /api/payments.
func (h *PaymentHandlers) Record(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.RecordPaymentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := h.Svc.Record(r.Context(), sess.UserID, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, payment)
}

// My returns the caller's own payments, due-soonest first.
// GET /api/me/payments.
func (h *PaymentHandlers) My(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	payments, err := h.Svc.FetchOwn(r.Context(), sess.UserID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// ListByStatus returns payments in a given status. Warden-only route.
// GET /api/payments?status=<pending|paid|overdue>.
func (h *PaymentHandlers) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(model.PaymentStatusPending)
	}

	payments, err := h.Svc.ListByStatus(r.Context(), model.PaymentStatus(status))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// MarkPaid settles a payment. Warden-only route.
// POST /api/payments/{id}/paid.
func (h *PaymentHandlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("payment id is required")},
		)
		return
	}

	var req model.MarkPaymentPaidRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	payment, err := h.Svc.MarkPaid(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, payment)
}

// MarkOverdue flags pending payments past their due date. Warden-only route.
// POST /api/payments/mark-overdue.
func (h *PaymentHandlers) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	flagged, err := h.Svc.MarkOverdue(r.Context(), time.Now())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"flagged": flagged})
}
