package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fundsRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description"`
}

type refundRequest struct {
	Amount      int64      `json:"amount" validate:"required,gt=0"`
	CampaignID  *uuid.UUID `json:"campaign_id"`
	Description string     `json:"description"`
}

// handleGetWallet handles GET /api/v1/wallet: balance plus the full
// transaction history for display.
func (h *Handler) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	view, err := h.wallets.Get(r.Context(), caller.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleAddFunds handles POST /api/v1/wallet/funds.
func (h *Handler) handleAddFunds(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Description == "" {
		req.Description = "funds added"
	}
	view, err := h.wallets.AddFunds(r.Context(), caller.UserID, req.Amount, req.Description)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleRefund handles POST /api/v1/admin/wallets/{advertiserID}/refund, an
// admin adjustment returning funds to an advertiser's wallet.
func (h *Handler) handleRefund(w http.ResponseWriter, r *http.Request) {
	advertiserID, err := uuid.Parse(chi.URLParam(r, "advertiserID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "advertiser id must be a UUID")
		return
	}
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.Description == "" {
		req.Description = "admin refund"
	}
	view, err := h.wallets.Refund(r.Context(), advertiserID, req.Amount, req.CampaignID, req.Description)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
