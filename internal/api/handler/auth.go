package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/squadgrid/payment-dashboard/internal/api/middleware"
)

// AuthHandler issues dashboard tokens. Login is mocked: any merchant id is
// accepted and signed, since the ledger is single-tenant.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MerchantID string `json:"merchant_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if req.MerchantID == "" {
		RespondError(w, r, http.StatusBadRequest, "auth/missing-merchant-id", "merchant_id is required")
		return
	}

	claims := jwt.MapClaims{
		"merchant_id": req.MerchantID,
		"role":        "merchant",
		"sub":         req.MerchantID,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	}
	if iss := middleware.JWTIssuer(); iss != "" {
		claims["iss"] = iss
	}
	if aud := middleware.JWTAudience(); aud != "" {
		claims["aud"] = aud
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(middleware.JWTSecret())
	if err != nil {
		RespondError(w, r, http.StatusInternalServerError, "auth/sign-failed", "Failed to sign token")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{
		"token": tokenString,
	})
}
