package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
)

// YieldHandler serves the yield earnings surface.
type YieldHandler struct {
	store *store.Store
}

func NewYieldHandler(st *store.Store) *YieldHandler {
	return &YieldHandler{store: st}
}

func (h *YieldHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"earnings": h.store.AllYieldEarnings(),
	})
}

func (h *YieldHandler) ByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	if _, err := h.store.VirtualAccountByAccountID(accountID); err != nil {
		RespondError(w, r, http.StatusNotFound, "accounts/not-found", "The specified account does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"earnings": h.store.YieldEarningsByAccountID(accountID),
	})
}

func (h *YieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID   string  `json:"accountId"`
		Currency    string  `json:"currency"`
		Principal   string  `json:"principal"`
		Earned      string  `json:"earned"`
		CurrentRate float64 `json:"currentRate"`
		Period      string  `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	earning, err := h.store.CreateYieldEarning(store.CreateYieldEarningParams{
		AccountID:   req.AccountID,
		Currency:    req.Currency,
		Principal:   req.Principal,
		Earned:      req.Earned,
		CurrentRate: req.CurrentRate,
		Period:      req.Period,
	})
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			RespondError(w, r, http.StatusNotFound, "accounts/not-found", "The specified account does not exist")
			return
		}
		RespondError(w, r, http.StatusBadRequest, "yield/invalid", err.Error())
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"earning": earning,
	})
}
