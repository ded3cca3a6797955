package handler

import (
	"encoding/json"
	"net/http"

	"github.com/consultly/verification-api/internal/application/verification"
	"github.com/consultly/verification-api/internal/domain"
	"github.com/consultly/verification-api/internal/pkg/validate"
	"github.com/consultly/verification-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// PhoneVerificationHandler is the service-side surface of the two-step
// verification flow: the client requests a code, then submits it together with
// the phone it was sent to. A resend is a repeat of the request action.
type PhoneVerificationHandler struct {
	svc verification.Service
}

func NewPhoneVerificationHandler(svc verification.Service) *PhoneVerificationHandler {
	return &PhoneVerificationHandler{svc: svc}
}

func (h *PhoneVerificationHandler) Action(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	switch chi.URLParam(r, "action") {
	case "request":
		if err := h.svc.RequestCode(r.Context(), claims.UserID); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true})
	case "verify":
		var req domain.VerifyPhoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := h.svc.VerifyCode(r.Context(), claims.UserID, req.Phone, req.Code); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, VerificationEnvelope{Success: true})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
