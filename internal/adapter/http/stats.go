package httpadapter

import "net/http"

// handleDashboard handles GET /api/v1/dashboard: the advertiser's aggregate
// figures plus wallet balance.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	d, err := h.campaigns.Dashboard(r.Context(), caller.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleAdminSummary handles GET /api/v1/admin/summary: platform-wide
// campaign counts and revenue figures, read-only projections of the fields
// the ledger maintains.
func (h *Handler) handleAdminSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.campaigns.AdminSummary(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
