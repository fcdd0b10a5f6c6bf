package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"portal-ads/internal/adapter/memory"
	"portal-ads/internal/core/domain"
)

func TestAddFunds(t *testing.T) {
	store := memory.NewStore()
	u := NewWalletUseCase(store, newTestMetrics())
	advertiser := uuid.New()

	view, err := u.AddFunds(context.Background(), advertiser, 5_000, "card top up")
	require.NoError(t, err)
	require.Equal(t, int64(5_000), view.Balance)
	require.Len(t, view.Transactions, 1)
	require.Equal(t, domain.TransactionAdd, view.Transactions[0].Type)
	require.Equal(t, "card top up", view.Transactions[0].Description)
}

func TestAddFundsRejectsNonPositiveAmounts(t *testing.T) {
	store := memory.NewStore()
	u := NewWalletUseCase(store, newTestMetrics())
	advertiser := uuid.New()

	_, err := u.AddFunds(context.Background(), advertiser, 0, "zero")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = u.AddFunds(context.Background(), advertiser, -100, "negative")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	view, err := u.Get(context.Background(), advertiser)
	require.NoError(t, err)
	require.Zero(t, view.Balance)
	require.Empty(t, view.Transactions)
}

func TestRefundReferencesCampaign(t *testing.T) {
	store := memory.NewStore()
	u := NewWalletUseCase(store, newTestMetrics())
	advertiser := uuid.New()
	campaignID := uuid.New()

	_, err := u.AddFunds(context.Background(), advertiser, 1_000, "top up")
	require.NoError(t, err)

	view, err := u.Refund(context.Background(), advertiser, 250, &campaignID, "goodwill refund")
	require.NoError(t, err)
	require.Equal(t, int64(1_250), view.Balance)
	require.Equal(t, domain.TransactionRefund, view.Transactions[1].Type)
	require.Equal(t, campaignID, *view.Transactions[1].CampaignID)
}

func TestGetUnknownWalletIsEmpty(t *testing.T) {
	store := memory.NewStore()
	u := NewWalletUseCase(store, newTestMetrics())

	view, err := u.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Zero(t, view.Balance)
	require.Empty(t, view.Transactions)
}
