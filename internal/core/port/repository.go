package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
)

// CampaignRepository is the outbound port for campaign persistence.
// Implementations must be concurrency-safe. UpdateAtomic serializes
// read-modify-write cycles per campaign; campaigns never block each other.
type CampaignRepository interface {
	// Create stores a new campaign.
	Create(ctx context.Context, c *domain.Campaign) error
	// GetByID returns the campaign or domain.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// ListByAdvertiser returns the advertiser's campaigns, newest first.
	ListByAdvertiser(ctx context.Context, advertiserID uuid.UUID) ([]*domain.Campaign, error)
	// UpdateAtomic loads the campaign, runs fn against it inside the
	// per-campaign critical section and persists the result when fn returns
	// nil. A non-nil error from fn discards all changes and is returned.
	UpdateAtomic(ctx context.Context, id uuid.UUID, fn func(*domain.Campaign) error) error
	// Delete removes the campaign or returns domain.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// ActivateDue transitions approved campaigns whose schedule has started
	// (and not yet ended) to active. Returns the number transitioned.
	ActivateDue(ctx context.Context, now time.Time) (int64, error)
	// CompleteDue transitions active and approved campaigns whose end date
	// has passed to completed. Returns the number transitioned.
	CompleteDue(ctx context.Context, now time.Time) (int64, error)

	// Summary returns platform-wide aggregates for the admin dashboard.
	Summary(ctx context.Context) (*AdminSummary, error)
}

// WalletRepository is the outbound port for wallet persistence. Wallets are
// keyed by advertiser id and materialize lazily: reading an absent wallet
// yields a zero balance and empty history.
type WalletRepository interface {
	// GetByAdvertiser returns the advertiser's wallet with full history.
	GetByAdvertiser(ctx context.Context, advertiserID uuid.UUID) (*domain.Wallet, error)
	// Update loads the wallet, runs fn inside the per-wallet critical
	// section and persists the new balance plus appended ledger entries when
	// fn returns nil.
	Update(ctx context.Context, advertiserID uuid.UUID, fn func(*domain.Wallet) error) error
}

// DeliveryStore serializes the authorize-and-apply sequence of a delivery
// event against both the campaign and its advertiser's wallet. The two rows
// are locked campaign first, then wallet, and persisted together when fn
// returns nil; any error from fn rolls back both.
type DeliveryStore interface {
	UpdateCampaignAndWallet(ctx context.Context, campaignID uuid.UUID, fn func(*domain.Campaign, *domain.Wallet) error) error
}
