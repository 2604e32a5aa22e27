package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	logindto "github.com/showroomlab/showroom-token-service/internal/delivery/http/dto/login"
	"github.com/showroomlab/showroom-token-service/internal/domain"
)

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req logindto.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	out, err := rt.access.Login(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		rt.log.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, logindto.LoginResponse{
		OrderID:           out.OrderID,
		OrderNumber:       out.OrderNumber,
		Email:             out.Email,
		CustomerFirstName: out.CustomerFirstName,
		CustomerLastName:  out.CustomerLastName,
		BillingName:       out.BillingName,
		ShippingName:      out.ShippingName,
		FinancialStatus:   out.FinancialStatus,
		Test:              out.Test,
		CreatedAt:         out.OrderCreatedAt,
		ProcessedAt:       out.ProcessedAt,
	})
}

func (rt *Router) handleResend(w http.ResponseWriter, r *http.Request, email string) {
	out, err := rt.access.Resend(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailNotFound):
			writeError(w, http.StatusNotFound, "Not Found")
		case errors.Is(err, domain.ErrNoUsableRecipient):
			writeError(w, http.StatusConflict, "no usable recipient or tokens")
		default:
			rt.log.Error("manual resend failed", "email", email, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "sent",
		"orders": out.Orders,
		"tokens": out.Tokens,
	})
}
