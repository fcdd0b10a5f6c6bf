package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
	"portal-ads/internal/metrics"
)

// WalletUseCase implements fund management on advertiser wallets. Balances
// only ever change through the wallet's own credit/debit/refund operations,
// so the balance stays a faithful projection of the ledger.
type WalletUseCase struct {
	wallets port.WalletRepository
	mts     *metrics.Metrics
}

// NewWalletUseCase creates the usecase with the provided repository.
func NewWalletUseCase(wallets port.WalletRepository, mts *metrics.Metrics) *WalletUseCase {
	return &WalletUseCase{wallets: wallets, mts: mts}
}

// Get returns the balance and transaction history for display.
func (u *WalletUseCase) Get(ctx context.Context, advertiserID uuid.UUID) (*port.WalletView, error) {
	w, err := u.wallets.GetByAdvertiser(ctx, advertiserID)
	if err != nil {
		return nil, err
	}
	return walletView(w), nil
}

// AddFunds credits the wallet. Non-positive amounts fail with
// domain.ErrInvalidAmount.
func (u *WalletUseCase) AddFunds(ctx context.Context, advertiserID uuid.UUID, amount int64, description string) (*port.WalletView, error) {
	view, err := u.update(ctx, advertiserID, func(w *domain.Wallet) error {
		return w.Credit(amount, description, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	u.mts.WalletTransactions.WithLabelValues(string(domain.TransactionAdd)).Inc()
	return view, nil
}

// Refund applies an admin adjustment returning funds to the wallet.
func (u *WalletUseCase) Refund(ctx context.Context, advertiserID uuid.UUID, amount int64, campaignID *uuid.UUID, description string) (*port.WalletView, error) {
	view, err := u.update(ctx, advertiserID, func(w *domain.Wallet) error {
		return w.Refund(amount, campaignID, description, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	u.mts.WalletTransactions.WithLabelValues(string(domain.TransactionRefund)).Inc()
	return view, nil
}

func (u *WalletUseCase) update(ctx context.Context, advertiserID uuid.UUID, fn func(*domain.Wallet) error) (*port.WalletView, error) {
	var view *port.WalletView
	err := u.wallets.Update(ctx, advertiserID, func(w *domain.Wallet) error {
		if err := fn(w); err != nil {
			return err
		}
		view = walletView(w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func walletView(w *domain.Wallet) *port.WalletView {
	txs := make([]domain.Transaction, len(w.History))
	copy(txs, w.History)
	return &port.WalletView{Balance: w.Balance, Transactions: txs}
}
