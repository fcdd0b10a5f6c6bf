package httpadapter

import (
	"net"
	"net/http"
	"time"

	"portal-ads/internal/core/domain"
)

// handleTrackImpression handles POST /api/v1/campaigns/{id}/impression.
// The caller's address is the deduplication source id; chi's RealIP
// middleware has already unwrapped any forwarding headers.
func (h *Handler) handleTrackImpression(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, domain.EventImpression)
}

// handleTrackClick handles POST /api/v1/campaigns/{id}/click.
func (h *Handler) handleTrackClick(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, domain.EventClick)
}

func (h *Handler) track(w http.ResponseWriter, r *http.Request, kind domain.EventKind) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	res, err := h.delivery.Process(r.Context(), id, sourceID(r), kind, time.Now().UTC())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// sourceID returns the caller's IP without the port.
func sourceID(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
