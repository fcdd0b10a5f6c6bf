package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal-ads/internal/core/domain"
)

// DeliveryStore implements port.DeliveryStore. One delivery event runs in a
// single serializable transaction holding row locks on the campaign and its
// advertiser's wallet, always acquired in that order so concurrent events
// on the same campaign or wallet serialize instead of deadlocking. Events
// on different campaigns lock disjoint rows and proceed independently.
//
// The wallet is loaded without its history; delivery only needs the balance
// and appends entries, which are inserted on commit.
type DeliveryStore struct {
	pool *pgxpool.Pool
}

// NewDeliveryStore returns a new store instance.
func NewDeliveryStore(pool *pgxpool.Pool) *DeliveryStore {
	return &DeliveryStore{pool: pool}
}

// UpdateCampaignAndWallet runs fn against the locked campaign and wallet
// and persists both together when fn returns nil.
func (s *DeliveryStore) UpdateCampaignAndWallet(ctx context.Context, campaignID uuid.UUID, fn func(*domain.Campaign, *domain.Wallet) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	c, err := lockCampaign(ctx, tx, campaignID)
	if err != nil {
		return err
	}
	w, err := lockWallet(ctx, tx, c.AdvertiserID)
	if err != nil {
		return err
	}

	if err = fn(c, w); err != nil {
		return err
	}

	if err = persistCampaign(ctx, tx, c); err != nil {
		return err
	}
	if err = persistWallet(ctx, tx, w); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
