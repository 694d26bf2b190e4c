package handler

import (
	"net/http"

	"github.com/squadgrid/payment-dashboard/internal/store"
)

// TransactionHandler serves the dashboard's ledger views.
type TransactionHandler struct {
	store *store.Store
}

func NewTransactionHandler(st *store.Store) *TransactionHandler {
	return &TransactionHandler{store: st}
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": h.store.AllTransactions(),
	})
}

// CrossBorder lists only cross-border transfer records.
func (h *TransactionHandler) CrossBorder(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": h.store.CrossBorderTransactions(),
	})
}
