package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"portal-ads/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the usecases, a structured
// logger and the request validator, and registers all routes on a chi
// router. Delivery tracking endpoints are public; management endpoints are
// gated by the bearer-token middleware and the caller's role.
type Handler struct {
	campaigns port.CampaignUseCase
	wallets   port.WalletUseCase
	delivery  port.DeliveryUseCase
	logger    *slog.Logger
	validate  *validator.Validate
	router    chi.Router
}

// NewHandler creates a handler with all routes configured. metricsHandler
// serves the Prometheus registry on /metrics; jwtSecret verifies bearer
// tokens issued by the identity collaborator.
func NewHandler(campaigns port.CampaignUseCase, wallets port.WalletUseCase, delivery port.DeliveryUseCase,
	metricsHandler http.Handler, logger *slog.Logger, jwtSecret string) *Handler {
	h := &Handler{
		campaigns: campaigns,
		wallets:   wallets,
		delivery:  delivery,
		logger:    logger,
		validate:  validator.New(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Delivery tracking is called from ad placements, not by the
		// advertiser, so it carries no token.
		r.Post("/campaigns/{id}/impression", h.handleTrackImpression)
		r.Post("/campaigns/{id}/click", h.handleTrackClick)

		r.Group(func(r chi.Router) {
			r.Use(Auth(jwtSecret))
			r.Use(RequireRole(RoleAdvertiser))

			r.Post("/campaigns", h.handleCreateCampaign)
			r.Get("/campaigns", h.handleListCampaigns)
			r.Get("/campaigns/{id}", h.handleGetCampaign)
			r.Put("/campaigns/{id}", h.handleUpdateCampaign)
			r.Delete("/campaigns/{id}", h.handleDeleteCampaign)
			r.Post("/campaigns/{id}/submit", h.handleSubmitCampaign)
			r.Post("/campaigns/{id}/pause", h.handlePauseCampaign)
			r.Post("/campaigns/{id}/resume", h.handleResumeCampaign)

			r.Get("/wallet", h.handleGetWallet)
			r.Post("/wallet/funds", h.handleAddFunds)

			r.Get("/dashboard", h.handleDashboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(Auth(jwtSecret))
			r.Use(RequireRole(RoleAdmin))

			r.Post("/admin/campaigns/{id}/approve", h.handleApproveCampaign)
			r.Post("/admin/campaigns/{id}/reject", h.handleRejectCampaign)
			r.Post("/admin/wallets/{advertiserID}/refund", h.handleRefund)
			r.Get("/admin/summary", h.handleAdminSummary)
		})
	})

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
