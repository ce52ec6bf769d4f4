package handlers

import (
	"errors"
	"net/http"

	"github.com/rkbeauty/booking-gateway/internal/confirmation"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// ConfirmationHandler resolves the post-payment return page.
type ConfirmationHandler struct {
	resolver *confirmation.Resolver
	logger   *logging.Logger
}

func NewConfirmationHandler(resolver *confirmation.Resolver, logger *logging.Logger) *ConfirmationHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfirmationHandler{resolver: resolver, logger: logger}
}

// Get handles GET /api/confirmation?session_id=...
func (h *ConfirmationHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.resolver.Resolve(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		if errors.Is(err, confirmation.ErrMissingSessionID) {
			writeError(w, http.StatusBadRequest, "ID de session manquant.")
			return
		}
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
