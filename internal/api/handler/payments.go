package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/service"
)

// PaymentHandler processes public checkout submissions.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Process settles a payment against a link. A declined settlement answers
// 402 so the checkout page can prompt a retry; the failed attempt is still
// recorded in the ledger.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req service.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	tx, err := h.payments.ProcessPayment(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrPaymentLinkNotFound):
		RespondError(w, r, http.StatusNotFound, "payments/link-not-found", "The specified payment link does not exist")
		return
	case errors.Is(err, service.ErrLinkNotActive):
		RespondError(w, r, http.StatusGone, "payments/link-unavailable", err.Error())
		return
	case errors.Is(err, service.ErrPaymentDeclined):
		RespondError(w, r, http.StatusPaymentRequired, "payments/declined", "Transaction could not be processed. Please try again.")
		return
	default:
		RespondError(w, r, http.StatusBadRequest, "payments/invalid", err.Error())
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"transaction":    tx,
		"signature":      tx.Signature,
		"gridTransferId": tx.TransferRef,
	})
}
