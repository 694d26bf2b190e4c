package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/squadgrid/payment-dashboard/internal/models"
	"github.com/squadgrid/payment-dashboard/internal/store"
)

// WidgetHandler serves the embeddable widget surface.
type WidgetHandler struct {
	store *store.Store
}

func NewWidgetHandler(st *store.Store) *WidgetHandler {
	return &WidgetHandler{store: st}
}

func (h *WidgetHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"widgets": h.store.AllWidgets(),
	})
}

func (h *WidgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		Type          string `json:"type"`
		Style         string `json:"style"`
		Size          string `json:"size"`
		ButtonText    string `json:"buttonText"`
		Description   string `json:"description"`
		ImageURL      string `json:"imageUrl"`
		PaymentLinkID string `json:"paymentLinkId"`
		PrimaryColor  string `json:"primaryColor"`
		BorderRadius  int    `json:"borderRadius"`
		ShowAmount    bool   `json:"showAmount"`
		ShowCurrency  bool   `json:"showCurrency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if req.Name == "" || req.ButtonText == "" || req.PaymentLinkID == "" || req.Type == "" {
		RespondError(w, r, http.StatusBadRequest, "widgets/missing-fields", "Name, type, button text, and payment link ID are required")
		return
	}

	widget, err := h.store.CreateWidget(store.CreateWidgetParams{
		Name:          req.Name,
		Type:          req.Type,
		Style:         req.Style,
		Size:          req.Size,
		ButtonText:    req.ButtonText,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		PaymentLinkID: req.PaymentLinkID,
		PrimaryColor:  req.PrimaryColor,
		BorderRadius:  req.BorderRadius,
		ShowAmount:    req.ShowAmount,
		ShowCurrency:  req.ShowCurrency,
	})
	if err != nil {
		if errors.Is(err, models.ErrPaymentLinkNotFound) {
			RespondError(w, r, http.StatusNotFound, "widgets/link-not-found", "The specified payment link does not exist")
			return
		}
		RespondError(w, r, http.StatusBadRequest, "widgets/invalid", err.Error())
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"widget":  widget,
	})
}

func (h *WidgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "widgetId"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "widgets/invalid-id", "Invalid widget id")
		return
	}
	widget, err := h.store.WidgetByID(id)
	if err != nil {
		RespondError(w, r, http.StatusNotFound, "widgets/not-found", "The specified widget does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"widget":  widget,
	})
}

func (h *WidgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "widgetId"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "widgets/invalid-id", "Invalid widget id")
		return
	}
	if !h.store.DeleteWidget(id) {
		RespondError(w, r, http.StatusNotFound, "widgets/not-found", "The specified widget does not exist")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
