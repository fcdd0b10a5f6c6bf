package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"portal-ads/internal/adapter/memory"
	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
	"portal-ads/internal/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// seedCampaign stores an active campaign and funds its advertiser's wallet.
func seedCampaign(t *testing.T, store *memory.Store, total, cpc, cpi, balance int64) *domain.Campaign {
	t.Helper()
	now := time.Now().UTC()
	c := domain.NewCampaign(uuid.New(), now)
	c.Title = "test campaign"
	c.Budget = domain.Budget{Total: total, CostPerClick: cpc, CostPerImpression: cpi}
	c.Schedule = domain.Schedule{StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}
	c.Status = domain.StatusActive
	require.NoError(t, store.Create(context.Background(), c))
	if balance > 0 {
		err := store.Update(context.Background(), c.AdvertiserID, func(w *domain.Wallet) error {
			return w.Credit(balance, "seed", now)
		})
		require.NoError(t, err)
	}
	return c
}

func TestProcessRecordsEvent(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 1000, 500, 50, 10_000)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	res, err := u.Process(context.Background(), c.ID, "203.0.113.7", domain.EventClick, now)
	require.NoError(t, err)
	require.Equal(t, port.OutcomeRecorded, res.Outcome)
	require.Equal(t, int64(1), res.Clicks)
	require.Equal(t, int64(0), res.Impressions)
	require.Equal(t, int64(500), res.Spent)
	require.Equal(t, int64(9_500), res.WalletBalance)

	// The spent entry references the campaign.
	w, err := store.GetByAdvertiser(context.Background(), c.AdvertiserID)
	require.NoError(t, err)
	require.Len(t, w.History, 2)
	require.Equal(t, domain.TransactionSpent, w.History[1].Type)
	require.Equal(t, c.ID, *w.History[1].CampaignID)
}

func TestProcessUnknownCampaign(t *testing.T) {
	u := NewDeliveryUseCase(memory.NewStore(), newTestMetrics())
	_, err := u.Process(context.Background(), uuid.New(), "203.0.113.7", domain.EventClick, time.Now())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcessNonActiveCampaign(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 1000, 500, 50, 10_000)
	require.NoError(t, store.UpdateAtomic(context.Background(), c.ID, (*domain.Campaign).Pause))
	u := NewDeliveryUseCase(store, newTestMetrics())

	_, err := u.Process(context.Background(), c.ID, "203.0.113.7", domain.EventImpression, time.Now())
	require.ErrorIs(t, err, domain.ErrCampaignNotActive)
}

// TestProcessDuplicateSuppression: two events from the same source within the
// cooldown yield one counter increment and one charge; a third after the
// cooldown elapses yields another.
func TestProcessDuplicateSuppression(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 10_000, 500, 50, 10_000)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	res, err := u.Process(context.Background(), c.ID, "198.51.100.2", domain.EventImpression, now)
	require.NoError(t, err)
	require.Equal(t, port.OutcomeRecorded, res.Outcome)

	res, err = u.Process(context.Background(), c.ID, "198.51.100.2", domain.EventImpression, now.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, port.OutcomeDuplicate, res.Outcome)
	require.Equal(t, int64(1), res.Impressions)
	require.Equal(t, int64(50), res.Spent)

	// Impression cooldown is 2 minutes.
	res, err = u.Process(context.Background(), c.ID, "198.51.100.2", domain.EventImpression, now.Add(2*time.Minute))
	require.NoError(t, err)
	require.Equal(t, port.OutcomeRecorded, res.Outcome)
	require.Equal(t, int64(2), res.Impressions)
	require.Equal(t, int64(100), res.Spent)
}

// TestProcessClickCooldownDoesNotSuppressImpressions: the windows are scoped
// per event kind.
func TestProcessClickCooldownDoesNotSuppressImpressions(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 10_000, 500, 50, 10_000)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	_, err := u.Process(context.Background(), c.ID, "198.51.100.9", domain.EventClick, now)
	require.NoError(t, err)

	res, err := u.Process(context.Background(), c.ID, "198.51.100.9", domain.EventImpression, now.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, port.OutcomeRecorded, res.Outcome)
}

// TestProcessInsufficientWalletPauses: wallet balance 3, costPerImpression 5;
// the first impression pauses the campaign, leaves spent and counters
// untouched.
func TestProcessInsufficientWalletPauses(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 100, 5, 5, 3)
	u := NewDeliveryUseCase(store, newTestMetrics())

	res, err := u.Process(context.Background(), c.ID, "203.0.113.1", domain.EventImpression, time.Now())
	require.NoError(t, err)
	require.Equal(t, port.OutcomeWalletPaused, res.Outcome)
	require.Equal(t, int64(0), res.Spent)
	require.Equal(t, int64(0), res.Impressions)
	require.Equal(t, int64(3), res.WalletBalance)

	// The pause is persisted; a top-up plus manual resume recovers delivery.
	got, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaused, got.Status)
}

// TestProcessBudgetExhaustedScenario: total 100, costPerClick 5, balance
// 1000; 21 clicks from distinct sources. The 20th click lands spent exactly
// on total and completes the campaign; the 21st is refused because the
// campaign is no longer active, and the wallet reflects exactly 20 debits.
func TestProcessBudgetExhaustedScenario(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 100, 5, 0, 1000)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	for i := 0; i < 20; i++ {
		res, err := u.Process(context.Background(), c.ID, fmt.Sprintf("10.0.0.%d", i), domain.EventClick, now)
		require.NoError(t, err)
		require.Equal(t, port.OutcomeRecorded, res.Outcome)
	}

	got, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), got.Budget.Spent)
	require.Equal(t, int64(20), got.Clicks)
	require.Equal(t, domain.StatusCompleted, got.Status)

	_, err = u.Process(context.Background(), c.ID, "10.0.0.21", domain.EventClick, now)
	require.ErrorIs(t, err, domain.ErrCampaignNotActive)

	w, err := store.GetByAdvertiser(context.Background(), c.AdvertiserID)
	require.NoError(t, err)
	require.Equal(t, int64(900), w.Balance)
	require.Len(t, w.History, 21) // seed credit + 20 debits
}

// TestProcessRefusesPartialCharge: a charge that would overflow the budget
// completes the campaign without spending anything.
func TestProcessRefusesPartialCharge(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 10, 4, 0, 1000)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		_, err := u.Process(context.Background(), c.ID, fmt.Sprintf("10.1.0.%d", i), domain.EventClick, now)
		require.NoError(t, err)
	}

	res, err := u.Process(context.Background(), c.ID, "10.1.0.9", domain.EventClick, now)
	require.NoError(t, err)
	require.Equal(t, port.OutcomeBudgetExhausted, res.Outcome)
	require.Equal(t, int64(8), res.Spent)
	require.Equal(t, int64(2), res.Clicks)

	got, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, got.Status)
	require.Equal(t, int64(8), got.Budget.Spent)
}

// TestProcessZeroCostEventCountsWithoutDebit: a zero rate still counts the
// event but appends no ledger entry.
func TestProcessZeroCostEventCountsWithoutDebit(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 100, 5, 0, 0)
	u := NewDeliveryUseCase(store, newTestMetrics())

	res, err := u.Process(context.Background(), c.ID, "203.0.113.3", domain.EventImpression, time.Now())
	require.NoError(t, err)
	require.Equal(t, port.OutcomeRecorded, res.Outcome)
	require.Equal(t, int64(1), res.Impressions)
	require.Equal(t, int64(0), res.Spent)

	w, err := store.GetByAdvertiser(context.Background(), c.AdvertiserID)
	require.NoError(t, err)
	require.Empty(t, w.History)
}

// TestConcurrentDeliveryNeverOverspends hammers one campaign from many
// goroutines and checks that the budget and wallet invariants hold.
func TestConcurrentDeliveryNeverOverspends(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 100, 5, 0, 1000)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	const events = 50
	var wg sync.WaitGroup
	wg.Add(events)
	for i := 0; i < events; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = u.Process(context.Background(), c.ID, fmt.Sprintf("10.2.0.%d", i), domain.EventClick, now)
		}(i)
	}
	wg.Wait()

	got, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), got.Budget.Spent)
	require.Equal(t, int64(20), got.Clicks)
	require.Equal(t, domain.StatusCompleted, got.Status)

	w, err := store.GetByAdvertiser(context.Background(), c.AdvertiserID)
	require.NoError(t, err)
	require.Equal(t, int64(900), w.Balance)

	var sum int64
	for _, tx := range w.History {
		switch tx.Type {
		case domain.TransactionAdd, domain.TransactionRefund:
			sum += tx.Amount
		case domain.TransactionSpent:
			sum -= tx.Amount
		}
	}
	require.Equal(t, sum, w.Balance)
}

// TestConcurrentDeliveryNeverOverdrawsWallet: the wallet runs dry before the
// budget does; the campaign pauses and the balance never goes negative.
func TestConcurrentDeliveryNeverOverdrawsWallet(t *testing.T) {
	store := memory.NewStore()
	c := seedCampaign(t, store, 10_000, 0, 5, 20)
	u := NewDeliveryUseCase(store, newTestMetrics())
	now := time.Now().UTC()

	const events = 30
	var wg sync.WaitGroup
	wg.Add(events)
	for i := 0; i < events; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = u.Process(context.Background(), c.ID, fmt.Sprintf("10.3.0.%d", i), domain.EventImpression, now)
		}(i)
	}
	wg.Wait()

	got, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(4), got.Impressions)
	require.Equal(t, int64(20), got.Budget.Spent)
	require.Equal(t, domain.StatusPaused, got.Status)

	w, err := store.GetByAdvertiser(context.Background(), c.AdvertiserID)
	require.NoError(t, err)
	require.Equal(t, int64(0), w.Balance)
}
