package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
)

// AccountHandler serves the virtual account surface.
type AccountHandler struct {
	store *store.Store
}

func NewAccountHandler(st *store.Store) *AccountHandler {
	return &AccountHandler{store: st}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"accounts": h.store.AllVirtualAccounts(),
	})
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountName string `json:"accountName"`
		AccountType string `json:"accountType"`
		EnableYield bool   `json:"enableYield"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	account, err := h.store.CreateVirtualAccount(store.CreateVirtualAccountParams{
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		EnableYield: req.EnableYield,
	})
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "accounts/invalid", err.Error())
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"account": account,
	})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	account, err := h.store.VirtualAccountByAccountID(accountID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			RespondError(w, r, http.StatusNotFound, "accounts/not-found", "The specified account does not exist")
			return
		}
		RespondError(w, r, http.StatusInternalServerError, "accounts/lookup-failed", err.Error())
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"account": account,
	})
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	if !h.store.DeleteVirtualAccount(accountID) {
		RespondError(w, r, http.StatusNotFound, "accounts/not-found", "The specified account does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Transactions lists the ledger records touching one account, including legs
// where it appears as sender or recipient.
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")
	if _, err := h.store.VirtualAccountByAccountID(accountID); err != nil {
		RespondError(w, r, http.StatusNotFound, "accounts/not-found", "The specified account does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": h.store.TransactionsByAccountID(accountID),
	})
}
