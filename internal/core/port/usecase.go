package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
)

// DeliveryOutcome enumerates the mutually exclusive results of processing
// one delivery event.
type DeliveryOutcome string

const (
	// OutcomeRecorded: the event was counted and charged.
	OutcomeRecorded DeliveryOutcome = "recorded"
	// OutcomeDuplicate: suppressed by the cooldown window; nothing mutated.
	OutcomeDuplicate DeliveryOutcome = "duplicate"
	// OutcomeWalletPaused: the wallet could not cover the cost; the campaign
	// was paused and no counter or spend was touched. Recoverable by topping
	// up funds and resuming.
	OutcomeWalletPaused DeliveryOutcome = "insufficient_wallet_balance"
	// OutcomeBudgetExhausted: the charge would overflow the total budget;
	// the campaign completed without applying any partial charge. Permanent.
	OutcomeBudgetExhausted DeliveryOutcome = "budget_exhausted"
)

// DeliveryResult reports the effect of one processed event.
type DeliveryResult struct {
	Outcome       DeliveryOutcome `json:"outcome"`
	Impressions   int64           `json:"impressions"`
	Clicks        int64           `json:"clicks"`
	Spent         int64           `json:"spent"`
	WalletBalance int64           `json:"wallet_balance"`
}

// DeliveryUseCase processes impression and click events.
type DeliveryUseCase interface {
	// Process runs one event through duplicate suppression, wallet and
	// budget checks, and applies the charge atomically. It returns
	// domain.ErrNotFound for unknown campaigns and domain.ErrCampaignNotActive
	// for events on non-active campaigns; all other outcomes are reported in
	// the result, not as errors.
	Process(ctx context.Context, campaignID uuid.UUID, sourceID string, kind domain.EventKind, now time.Time) (DeliveryResult, error)
}

// CampaignDraft carries advertiser-supplied campaign fields for create and
// update operations. Money fields are integer cents.
type CampaignDraft struct {
	Title             string
	Description       string
	Media             domain.Media
	Placement         string
	Target            domain.Target
	BudgetTotal       int64
	CostPerClick      int64
	CostPerImpression int64
	StartDate         time.Time
	EndDate           time.Time
}

// CampaignSummary is the advertiser-facing listing row.
type CampaignSummary struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Placement   string        `json:"placement"`
	Status      domain.Status `json:"status"`
	BudgetTotal int64         `json:"budget_total"`
	Spent       int64         `json:"spent"`
	Remaining   int64         `json:"remaining"`
	Clicks      int64         `json:"clicks"`
	Impressions int64         `json:"impressions"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
}

// Dashboard aggregates one advertiser's figures.
type Dashboard struct {
	TotalCampaigns   int   `json:"total_campaigns"`
	ActiveCampaigns  int   `json:"active_campaigns"`
	TotalClicks      int64 `json:"total_clicks"`
	TotalImpressions int64 `json:"total_impressions"`
	TotalSpent       int64 `json:"total_spent"`
	WalletBalance    int64 `json:"wallet_balance"`
}

// AdminSummary aggregates platform-wide campaign figures. These are
// read-only projections of fields the ledger maintains.
type AdminSummary struct {
	TotalCampaigns     int64 `json:"total_campaigns"`
	ActiveCampaigns    int64 `json:"active_campaigns"`
	PendingCampaigns   int64 `json:"pending_campaigns"`
	CompletedCampaigns int64 `json:"completed_campaigns"`
	RejectedCampaigns  int64 `json:"rejected_campaigns"`
	TotalClicks        int64 `json:"total_clicks"`
	TotalImpressions   int64 `json:"total_impressions"`
	TotalSpent         int64 `json:"total_spent"`
}

// CampaignUseCase covers campaign management and lifecycle commands. All
// advertiser-scoped methods treat campaigns owned by someone else as
// domain.ErrNotFound.
type CampaignUseCase interface {
	Create(ctx context.Context, advertiserID uuid.UUID, draft CampaignDraft) (*domain.Campaign, error)
	Get(ctx context.Context, advertiserID, id uuid.UUID) (*domain.Campaign, error)
	List(ctx context.Context, advertiserID uuid.UUID) ([]CampaignSummary, error)
	// Update modifies a draft or rejected campaign; anything else returns
	// domain.ErrNotEditable.
	Update(ctx context.Context, advertiserID, id uuid.UUID, draft CampaignDraft) (*domain.Campaign, error)
	// Delete refuses active campaigns with domain.ErrDeleteActive.
	Delete(ctx context.Context, advertiserID, id uuid.UUID) error

	Submit(ctx context.Context, advertiserID, id uuid.UUID) error
	Pause(ctx context.Context, advertiserID, id uuid.UUID) error
	Resume(ctx context.Context, advertiserID, id uuid.UUID) error

	// Approve and Reject act on behalf of the admin approval workflow.
	Approve(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, reason string) error

	Dashboard(ctx context.Context, advertiserID uuid.UUID) (*Dashboard, error)
	AdminSummary(ctx context.Context) (*AdminSummary, error)
}

// WalletView is the advertiser-facing wallet projection.
type WalletView struct {
	Balance      int64                `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

// WalletUseCase covers fund management on advertiser wallets.
type WalletUseCase interface {
	Get(ctx context.Context, advertiserID uuid.UUID) (*WalletView, error)
	// AddFunds credits the wallet; amount must be positive.
	AddFunds(ctx context.Context, advertiserID uuid.UUID, amount int64, description string) (*WalletView, error)
	// Refund applies an admin adjustment crediting the wallet with a refund
	// entry, optionally referencing a campaign.
	Refund(ctx context.Context, advertiserID uuid.UUID, amount int64, campaignID *uuid.UUID, description string) (*WalletView, error)
}
