package handler

import (
	"net/http"

	"github.com/squadgrid/payment-dashboard/internal/service"
)

// AnalyticsHandler serves the dashboard's aggregate stats.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   h.analytics.ComputeStats(),
	})
}
