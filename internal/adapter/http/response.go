package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"portal-ads/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

// respondError maps business outcomes to HTTP statuses. Anything outside
// the domain taxonomy is a genuine infrastructure failure: logged and
// surfaced as a generic server error.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "campaign not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrCampaignNotActive):
		writeError(w, http.StatusBadRequest, "campaign_not_active", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, domain.ErrBudgetExhausted):
		writeError(w, http.StatusConflict, "budget_exhausted", err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, domain.ErrNotEditable):
		writeError(w, http.StatusConflict, "not_editable", err.Error())
	case errors.Is(err, domain.ErrDeleteActive):
		writeError(w, http.StatusBadRequest, "cannot_delete_active", err.Error())
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
