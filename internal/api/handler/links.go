package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/squadgrid/payment-dashboard/internal/domain"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
)

// PaymentLinkHandler serves the merchant's payment link CRUD surface.
type PaymentLinkHandler struct {
	store *store.Store
}

func NewPaymentLinkHandler(st *store.Store) *PaymentLinkHandler {
	return &PaymentLinkHandler{store: st}
}

func (h *PaymentLinkHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"paymentLinks": h.store.AllPaymentLinks(),
	})
}

func (h *PaymentLinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		Description string `json:"description"`
		SuccessURL  string `json:"successUrl"`
		CancelURL   string `json:"cancelUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if req.Amount == "" || req.Currency == "" {
		RespondError(w, r, http.StatusBadRequest, "links/missing-fields", "Amount and currency are required")
		return
	}

	// The merchant wallet would come from the authenticated merchant's
	// profile; on this rail each link gets a fresh receive address.
	link, err := h.store.CreatePaymentLink(store.CreatePaymentLinkParams{
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		SuccessURL:     req.SuccessURL,
		CancelURL:      req.CancelURL,
		MerchantWallet: domain.NewWalletAddress(),
	})
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "links/invalid", err.Error())
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"paymentLink": link,
	})
}

func (h *PaymentLinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkId")
	link, err := h.store.PaymentLinkByLinkID(linkID)
	if err != nil {
		if errors.Is(err, models.ErrPaymentLinkNotFound) {
			RespondError(w, r, http.StatusNotFound, "links/not-found", "The specified payment link does not exist")
			return
		}
		RespondError(w, r, http.StatusInternalServerError, "links/lookup-failed", err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"paymentLink": link,
	})
}

// UpdateStatus moves a link through its lifecycle, e.g. pausing a live link
// or reactivating a paused one. Checkout returns 410 for non-active links.
func (h *PaymentLinkHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkId")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if err := h.store.UpdatePaymentLinkStatus(linkID, req.Status); err != nil {
		if errors.Is(err, models.ErrPaymentLinkNotFound) {
			RespondError(w, r, http.StatusNotFound, "links/not-found", "The specified payment link does not exist")
			return
		}
		RespondError(w, r, http.StatusBadRequest, "links/invalid-status", err.Error())
		return
	}
	link, err := h.store.PaymentLinkByLinkID(linkID)
	if err != nil {
		RespondError(w, r, http.StatusInternalServerError, "links/lookup-failed", err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"paymentLink": link,
	})
}

func (h *PaymentLinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkId")
	if !h.store.DeletePaymentLink(linkID) {
		RespondError(w, r, http.StatusNotFound, "links/not-found", "The specified payment link does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Transactions lists the ledger records attributed to one link.
func (h *PaymentLinkHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkId")
	if _, err := h.store.PaymentLinkByLinkID(linkID); err != nil {
		RespondError(w, r, http.StatusNotFound, "links/not-found", "The specified payment link does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": h.store.TransactionsByPaymentLinkID(linkID),
	})
}
