package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal-ads/internal/core/domain"
)

// WalletRepository implements port.WalletRepository using pgxpool. The
// balance row and the transaction rows are written in one transaction, so
// no observer ever sees a balance change without its ledger entry.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository returns a new repository instance.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// GetByAdvertiser returns the wallet with full history. Advertisers without
// a wallet row read as a zero balance with no history.
func (r *WalletRepository) GetByAdvertiser(ctx context.Context, advertiserID uuid.UUID) (*domain.Wallet, error) {
	w := domain.NewWallet(advertiserID)
	err := r.pool.QueryRow(ctx, `SELECT balance FROM wallets WHERE advertiser_id = $1`, advertiserID).Scan(&w.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return w, nil
	}
	if err != nil {
		return nil, err
	}
	w.History, err = r.loadHistory(ctx, r.pool, advertiserID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *WalletRepository) loadHistory(ctx context.Context, q querier, advertiserID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := q.Query(ctx, `SELECT type, amount, campaign_id, description, created_at
		FROM wallet_transactions WHERE advertiser_id = $1 ORDER BY id`, advertiserID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		var t domain.Transaction
		err := row.Scan(&t.Type, &t.Amount, &t.CampaignID, &t.Description, &t.CreatedAt)
		return t, err
	})
}

// Update locks the wallet row (creating it first when absent), applies fn
// and persists the new balance plus the appended ledger entries.
func (r *WalletRepository) Update(ctx context.Context, advertiserID uuid.UUID, fn func(*domain.Wallet) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	w, err := lockWallet(ctx, tx, advertiserID)
	if err != nil {
		return err
	}
	w.History, err = r.loadHistory(ctx, tx, advertiserID)
	if err != nil {
		return err
	}
	if err = fn(w); err != nil {
		return err
	}
	if err = persistWallet(ctx, tx, w); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockWallet upserts the wallet row and acquires its row lock. Wallet rows
// materialize lazily on first write.
func lockWallet(ctx context.Context, tx pgx.Tx, advertiserID uuid.UUID) (*domain.Wallet, error) {
	if _, err := tx.Exec(ctx, `INSERT INTO wallets (advertiser_id, balance) VALUES ($1, 0)
		ON CONFLICT (advertiser_id) DO NOTHING`, advertiserID); err != nil {
		return nil, err
	}
	w := domain.NewWallet(advertiserID)
	err := tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE advertiser_id = $1 FOR UPDATE`, advertiserID).Scan(&w.Balance)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func persistWallet(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $2 WHERE advertiser_id = $1`, w.AdvertiserID, w.Balance); err != nil {
		return err
	}
	for _, t := range w.Appended() {
		_, err := tx.Exec(ctx, `INSERT INTO wallet_transactions (advertiser_id, type, amount, campaign_id, description, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			w.AdvertiserID, t.Type, t.Amount, t.CampaignID, t.Description, t.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}
