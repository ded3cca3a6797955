package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/consultly/verification-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerificationEnvelope is the uniform result shape for the two-step flow:
// a success flag plus a user-safe error message. The code value itself never
// appears here — it travels only over the delivery channel.
type VerificationEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError converts a domain sentinel into a status code and the safe message
// shown to the client. Wrapped detail (provider text, store errors) is dropped
// here; it has already been logged at the orchestrator.
func httpError(w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	writeJSON(w, status, VerificationEnvelope{Success: false, Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingPhone):
		return http.StatusBadRequest, domain.ErrMissingPhone.Error()
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, domain.ErrBadRequest.Error()
	case errors.Is(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, domain.ErrCodeNotFound.Error()
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusUnprocessableEntity, domain.ErrCodeExpired.Error()
	case errors.Is(err, domain.ErrCodeMismatch):
		return http.StatusUnprocessableEntity, domain.ErrCodeMismatch.Error()
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway, domain.ErrDeliveryFailed.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.ErrUnauthorized.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
