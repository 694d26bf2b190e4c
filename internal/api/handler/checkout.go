package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
)

// CheckoutHandler serves the public checkout page's link lookup. It is
// unauthenticated: payers hold only the short link id.
type CheckoutHandler struct {
	store *store.Store
}

func NewCheckoutHandler(st *store.Store) *CheckoutHandler {
	return &CheckoutHandler{store: st}
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkId")
	if linkID == "" {
		RespondError(w, r, http.StatusBadRequest, "checkout/missing-link-id", "Payment link ID is required")
		return
	}

	link, err := h.store.PaymentLinkByLinkID(linkID)
	if err != nil {
		if errors.Is(err, models.ErrPaymentLinkNotFound) {
			RespondError(w, r, http.StatusNotFound, "checkout/link-not-found", "The payment link you are looking for does not exist or has been deleted")
			return
		}
		RespondError(w, r, http.StatusInternalServerError, "checkout/lookup-failed", err.Error())
		return
	}

	if link.Status == domain.LinkStatusExpired || link.Status == domain.LinkStatusPaused {
		RespondError(w, r, http.StatusGone, "checkout/link-unavailable", fmt.Sprintf("This payment link is %s", link.Status))
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"paymentLink": link,
	})
}
