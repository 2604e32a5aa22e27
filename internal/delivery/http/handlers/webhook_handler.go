package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	orderdto "github.com/showroomlab/showroom-token-service/internal/delivery/http/dto/order"
	"github.com/showroomlab/showroom-token-service/internal/domain"
	intakedto "github.com/showroomlab/showroom-token-service/internal/usecase/dto/intake"
)

// maxWebhookBodyBytes caps inbound payloads at 10 KB.
const maxWebhookBodyBytes = 10 * 1024

func (rt *Router) handleOrderWebhook(w http.ResponseWriter, r *http.Request) {
	if !isJSONRequest(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Unsupported Media Type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	dec := json.NewDecoder(r.Body)
	// Order ids can exceed float64 precision.
	dec.UseNumber()

	var payload intakedto.OrderPayload
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := rt.intake.ProcessOrder(r.Context(), payload)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Code)
			return
		}
		rt.log.Error("order webhook failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch result.Status {
	case intakedto.StatusStored:
		writeJSON(w, http.StatusCreated, orderdto.StoredResponse{
			Status:        string(result.Status),
			CreatedTokens: result.Created,
			TotalTokens:   len(result.Tokens),
		})
	case intakedto.StatusAlreadyProcessed:
		writeJSON(w, http.StatusOK, orderdto.AlreadyProcessedResponse{
			Status: string(result.Status),
			Tokens: result.Tokens,
		})
	default:
		writeJSON(w, http.StatusAccepted, orderdto.IgnoredResponse{
			Status: string(result.Status),
			Reason: result.Reason,
		})
	}
}

func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
