package server

import (
	"errors"
	"net/http"

	"github.com/thep200/gitgrade/internal/payment"
)

func (h *Handler) generatePaymentLink(w http.ResponseWriter, r *http.Request) {
	if h.deps.Payments == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var req payment.Request
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.deps.Payments.Generate(req)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			h.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.Logger.Error(r.Context(), "Failed to generate payment link: %v", err)
		h.writeError(w, r, http.StatusInternalServerError, "Failed to generate payment link")
		return
	}
	h.writeJSON(w, r, http.StatusOK, link)
}
