package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
)

// Defaults applied when the advertiser omits the rates, matching the seeded
// campaign defaults: 5.00 per click, 0.50 per impression (integer cents).
const (
	defaultCostPerClick      = 500
	defaultCostPerImpression = 50
)

type campaignRequest struct {
	Title             string    `json:"title" validate:"required"`
	Description       string    `json:"description"`
	MediaURL          string    `json:"media_url" validate:"omitempty,url"`
	MediaType         string    `json:"media_type" validate:"omitempty,oneof=image video gif"`
	Placement         string    `json:"placement" validate:"required,oneof=homepage_top homepage_middle sidebar article_top article_bottom footer"`
	TargetCity        string    `json:"target_city"`
	TargetState       string    `json:"target_state"`
	BudgetTotal       int64     `json:"budget_total" validate:"required,gt=0"`
	CostPerClick      *int64    `json:"cost_per_click" validate:"omitempty,gte=0"`
	CostPerImpression *int64    `json:"cost_per_impression" validate:"omitempty,gte=0"`
	StartDate         time.Time `json:"start_date" validate:"required"`
	EndDate           time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

func (r campaignRequest) draft() port.CampaignDraft {
	target := domain.DefaultTarget()
	if r.TargetCity != "" {
		target.City = r.TargetCity
	}
	if r.TargetState != "" {
		target.State = r.TargetState
	}
	cpc := int64(defaultCostPerClick)
	if r.CostPerClick != nil {
		cpc = *r.CostPerClick
	}
	cpi := int64(defaultCostPerImpression)
	if r.CostPerImpression != nil {
		cpi = *r.CostPerImpression
	}
	return port.CampaignDraft{
		Title:             r.Title,
		Description:       r.Description,
		Media:             domain.Media{URL: r.MediaURL, Type: domain.MediaType(r.MediaType)},
		Placement:         r.Placement,
		Target:            target,
		BudgetTotal:       r.BudgetTotal,
		CostPerClick:      cpc,
		CostPerImpression: cpi,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
	}
}

type campaignResponse struct {
	ID                uuid.UUID           `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Media             domain.Media        `json:"media"`
	Placement         string              `json:"placement"`
	Target            domain.Target       `json:"target"`
	Status            domain.Status       `json:"status"`
	BudgetTotal       int64               `json:"budget_total"`
	Spent             int64               `json:"spent"`
	CostPerClick      int64               `json:"cost_per_click"`
	CostPerImpression int64               `json:"cost_per_impression"`
	StartDate         time.Time           `json:"start_date"`
	EndDate           time.Time           `json:"end_date"`
	Impressions       int64               `json:"impressions"`
	Clicks            int64               `json:"clicks"`
	RejectionReason   string              `json:"rejection_reason,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:                c.ID,
		Title:             c.Title,
		Description:       c.Description,
		Media:             c.Media,
		Placement:         c.Placement,
		Target:            c.Target,
		Status:            c.Status,
		BudgetTotal:       c.Budget.Total,
		Spent:             c.Budget.Spent,
		CostPerClick:      c.Budget.CostPerClick,
		CostPerImpression: c.Budget.CostPerImpression,
		StartDate:         c.Schedule.StartDate,
		EndDate:           c.Schedule.EndDate,
		Impressions:       c.Impressions,
		Clicks:            c.Clicks,
		RejectionReason:   c.RejectionReason,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (h *Handler) decodeCampaignRequest(w http.ResponseWriter, r *http.Request) (campaignRequest, bool) {
	var req campaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return req, false
	}
	return req, true
}

func campaignID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "campaign id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func identity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing identity")
	}
	return id, ok
}

// handleCreateCampaign handles POST /api/v1/campaigns. New campaigns always
// start as drafts.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeCampaignRequest(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Create(r.Context(), caller.UserID, req.draft())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCampaignResponse(c))
}

// handleListCampaigns handles GET /api/v1/campaigns.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	rows, err := h.campaigns.List(r.Context(), caller.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleGetCampaign handles GET /api/v1/campaigns/{id}.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Get(r.Context(), caller.UserID, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

// handleUpdateCampaign handles PUT /api/v1/campaigns/{id}. Only draft and
// rejected campaigns are editable.
func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeCampaignRequest(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.Update(r.Context(), caller.UserID, id, req.draft())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

// handleDeleteCampaign handles DELETE /api/v1/campaigns/{id}. Deleting an
// active campaign is refused.
func (h *Handler) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	if err := h.campaigns.Delete(r.Context(), caller.UserID, id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

func (h *Handler) lifecycleHandler(do func(r *http.Request, advertiserID, id uuid.UUID) error, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity(w, r)
		if !ok {
			return
		}
		id, ok := campaignID(w, r)
		if !ok {
			return
		}
		if err := do(r, caller.UserID, id); err != nil {
			h.respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

// handleSubmitCampaign handles POST /api/v1/campaigns/{id}/submit.
func (h *Handler) handleSubmitCampaign(w http.ResponseWriter, r *http.Request) {
	h.lifecycleHandler(func(r *http.Request, advertiserID, id uuid.UUID) error {
		return h.campaigns.Submit(r.Context(), advertiserID, id)
	}, "submitted for admin approval")(w, r)
}

// handlePauseCampaign handles POST /api/v1/campaigns/{id}/pause.
func (h *Handler) handlePauseCampaign(w http.ResponseWriter, r *http.Request) {
	h.lifecycleHandler(func(r *http.Request, advertiserID, id uuid.UUID) error {
		return h.campaigns.Pause(r.Context(), advertiserID, id)
	}, "campaign paused")(w, r)
}

// handleResumeCampaign handles POST /api/v1/campaigns/{id}/resume. Only a
// paused campaign can be resumed.
func (h *Handler) handleResumeCampaign(w http.ResponseWriter, r *http.Request) {
	h.lifecycleHandler(func(r *http.Request, advertiserID, id uuid.UUID) error {
		return h.campaigns.Resume(r.Context(), advertiserID, id)
	}, "campaign resumed")(w, r)
}

// handleApproveCampaign handles POST /api/v1/admin/campaigns/{id}/approve.
func (h *Handler) handleApproveCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	if err := h.campaigns.Approve(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "campaign approved"})
}

// handleRejectCampaign handles POST /api/v1/admin/campaigns/{id}/reject.
func (h *Handler) handleRejectCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if body.Reason == "" {
		body.Reason = "Not specified"
	}
	if err := h.campaigns.Reject(r.Context(), id, body.Reason); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "campaign rejected"})
}
