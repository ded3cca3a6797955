package handler

import (
	"net/http"

	"github.com/consultly/verification-api/internal/application/verification"
)

// AdminVerificationHandler exposes record lookups for support staff working an
// escalated verification case. The code value is never serialised in the
// response; the record's existence, phone and expiry are enough to diagnose.
type AdminVerificationHandler struct {
	svc verification.Service
}

func NewAdminVerificationHandler(svc verification.Service) *AdminVerificationHandler {
	return &AdminVerificationHandler{svc: svc}
}

// Lookup finds an outstanding record by ?phone= or, failing that, by ?code=.
func (h *AdminVerificationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		rec, err := h.svc.LookupByPhone(r.Context(), phone)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	if code := r.URL.Query().Get("code"); code != "" {
		rec, err := h.svc.LookupByCode(r.Context(), code)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	writeError(w, http.StatusBadRequest, "phone or code query parameter required")
}
