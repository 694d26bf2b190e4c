package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/service"
)

// TransferHandler serves account funding and transfer operations.
type TransferHandler struct {
	transfers *service.TransferService
}

func NewTransferHandler(transfers *service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req service.InternalTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	send, receive, err := h.transfers.Transfer(r.Context(), req)
	if err != nil {
		respondTransferError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"send":    send,
		"receive": receive,
	})
}

func (h *TransferHandler) CrossBorder(w http.ResponseWriter, r *http.Request) {
	var req service.CrossBorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	tx, err := h.transfers.CrossBorder(r.Context(), req)
	if err != nil {
		respondTransferError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"transaction": tx,
	})
}

func (h *TransferHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req service.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	tx, err := h.transfers.Deposit(r.Context(), req)
	if err != nil {
		respondTransferError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"transaction": tx,
	})
}

func (h *TransferHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req service.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	tx, err := h.transfers.Withdraw(r.Context(), req)
	if err != nil {
		respondTransferError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"transaction": tx,
	})
}

func respondTransferError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrAccountNotFound):
		RespondError(w, r, http.StatusNotFound, "transfers/account-not-found", "The specified account does not exist")
	case errors.Is(err, service.ErrTransferDeclined):
		RespondError(w, r, http.StatusPaymentRequired, "transfers/declined", "Transfer could not be settled. Please try again.")
	default:
		RespondError(w, r, http.StatusBadRequest, "transfers/invalid", err.Error())
	}
}
