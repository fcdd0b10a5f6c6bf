package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"portal-ads/internal/adapter/memory"
	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
)

func testDraft() port.CampaignDraft {
	now := time.Now().UTC()
	return port.CampaignDraft{
		Title:             "Spring sale",
		Description:       "Banner for the spring sale",
		Media:             domain.Media{URL: "https://cdn.example.com/spring.png", Type: domain.MediaImage},
		Placement:         "homepage_top",
		Target:            domain.DefaultTarget(),
		BudgetTotal:       10_000,
		CostPerClick:      500,
		CostPerImpression: 50,
		StartDate:         now.Add(time.Hour),
		EndDate:           now.Add(24 * time.Hour),
	}
}

func newCampaignUseCase() (*CampaignUseCase, *memory.Store) {
	store := memory.NewStore()
	return NewCampaignUseCase(store, store), store
}

func TestCreateCampaignStartsAsDraft(t *testing.T) {
	u, _ := newCampaignUseCase()
	advertiser := uuid.New()

	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, c.Status)
	require.Equal(t, advertiser, c.AdvertiserID)
	require.Equal(t, int64(10_000), c.Budget.Total)
	require.Zero(t, c.Budget.Spent)

	got, err := u.Get(context.Background(), advertiser, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Spring sale", got.Title)
}

func TestCampaignsAreScopedToOwner(t *testing.T) {
	u, _ := newCampaignUseCase()
	owner := uuid.New()
	c, err := u.Create(context.Background(), owner, testDraft())
	require.NoError(t, err)

	_, err = u.Get(context.Background(), uuid.New(), c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, u.Submit(context.Background(), uuid.New(), c.ID), domain.ErrNotFound)
	require.ErrorIs(t, u.Delete(context.Background(), uuid.New(), c.ID), domain.ErrNotFound)
}

func TestUpdateOnlyDraftOrRejected(t *testing.T) {
	u, store := newCampaignUseCase()
	advertiser := uuid.New()
	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)

	draft := testDraft()
	draft.Title = "Renamed"
	updated, err := u.Update(context.Background(), advertiser, c.ID, draft)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)

	require.NoError(t, u.Submit(context.Background(), advertiser, c.ID))
	_, err = u.Update(context.Background(), advertiser, c.ID, draft)
	require.ErrorIs(t, err, domain.ErrNotEditable)

	// Rejected campaigns become editable again.
	require.NoError(t, u.Reject(context.Background(), c.ID, "bad creative"))
	draft.Title = "Fixed"
	updated, err = u.Update(context.Background(), advertiser, c.ID, draft)
	require.NoError(t, err)
	require.Equal(t, "Fixed", updated.Title)

	got, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, "Fixed", got.Title)
}

func TestDeleteRefusedWhileActive(t *testing.T) {
	u, store := newCampaignUseCase()
	advertiser := uuid.New()
	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)

	require.NoError(t, store.UpdateAtomic(context.Background(), c.ID, func(c *domain.Campaign) error {
		c.Status = domain.StatusActive
		return nil
	}))
	require.ErrorIs(t, u.Delete(context.Background(), advertiser, c.ID), domain.ErrDeleteActive)

	require.NoError(t, u.Pause(context.Background(), advertiser, c.ID))
	require.NoError(t, u.Delete(context.Background(), advertiser, c.ID))
	_, err = store.GetByID(context.Background(), c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprovalWorkflow(t *testing.T) {
	u, _ := newCampaignUseCase()
	advertiser := uuid.New()
	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)

	// Approve before submission is an invalid transition.
	require.ErrorIs(t, u.Approve(context.Background(), c.ID), domain.ErrInvalidTransition)

	require.NoError(t, u.Submit(context.Background(), advertiser, c.ID))
	require.NoError(t, u.Approve(context.Background(), c.ID))

	got, err := u.Get(context.Background(), advertiser, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, got.Status)
}

func TestRejectThenResubmit(t *testing.T) {
	u, _ := newCampaignUseCase()
	advertiser := uuid.New()
	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)

	require.NoError(t, u.Submit(context.Background(), advertiser, c.ID))
	require.NoError(t, u.Reject(context.Background(), c.ID, "missing landing page"))

	got, err := u.Get(context.Background(), advertiser, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, got.Status)
	require.Equal(t, "missing landing page", got.RejectionReason)

	require.NoError(t, u.Submit(context.Background(), advertiser, c.ID))
}

func TestResumeOnlyFromPaused(t *testing.T) {
	u, store := newCampaignUseCase()
	advertiser := uuid.New()
	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)

	require.ErrorIs(t, u.Resume(context.Background(), advertiser, c.ID), domain.ErrInvalidTransition)

	require.NoError(t, store.UpdateAtomic(context.Background(), c.ID, func(c *domain.Campaign) error {
		c.Status = domain.StatusPaused
		return nil
	}))
	require.NoError(t, u.Resume(context.Background(), advertiser, c.ID))

	got, err := u.Get(context.Background(), advertiser, c.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, got.Status)
}

func TestDashboardAggregates(t *testing.T) {
	u, store := newCampaignUseCase()
	advertiser := uuid.New()

	for i := 0; i < 3; i++ {
		c, err := u.Create(context.Background(), advertiser, testDraft())
		require.NoError(t, err)
		require.NoError(t, store.UpdateAtomic(context.Background(), c.ID, func(c *domain.Campaign) error {
			c.Status = domain.StatusActive
			c.Clicks = 10
			c.Impressions = 100
			c.Budget.Spent = 5_000
			return nil
		}))
	}
	_, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)
	require.NoError(t, store.Update(context.Background(), advertiser, func(w *domain.Wallet) error {
		return w.Credit(42_000, "top up", time.Now())
	}))

	d, err := u.Dashboard(context.Background(), advertiser)
	require.NoError(t, err)
	require.Equal(t, 4, d.TotalCampaigns)
	require.Equal(t, 3, d.ActiveCampaigns)
	require.Equal(t, int64(30), d.TotalClicks)
	require.Equal(t, int64(300), d.TotalImpressions)
	require.Equal(t, int64(15_000), d.TotalSpent)
	require.Equal(t, int64(42_000), d.WalletBalance)
}

func TestListSummaries(t *testing.T) {
	u, _ := newCampaignUseCase()
	advertiser := uuid.New()
	c, err := u.Create(context.Background(), advertiser, testDraft())
	require.NoError(t, err)

	rows, err := u.List(context.Background(), advertiser)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, c.ID, rows[0].ID)
	require.Equal(t, int64(10_000), rows[0].BudgetTotal)
	require.Equal(t, int64(10_000), rows[0].Remaining)
}

func TestAdminSummaryCounts(t *testing.T) {
	u, store := newCampaignUseCase()
	advertiser := uuid.New()
	for _, st := range []domain.Status{domain.StatusActive, domain.StatusPending, domain.StatusCompleted, domain.StatusRejected, domain.StatusDraft} {
		c, err := u.Create(context.Background(), advertiser, testDraft())
		require.NoError(t, err)
		require.NoError(t, store.UpdateAtomic(context.Background(), c.ID, func(c *domain.Campaign) error {
			c.Status = st
			c.Clicks = 2
			c.Impressions = 5
			c.Budget.Spent = 100
			return nil
		}))
	}

	sum, err := u.AdminSummary(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), sum.TotalCampaigns)
	require.Equal(t, int64(1), sum.ActiveCampaigns)
	require.Equal(t, int64(1), sum.PendingCampaigns)
	require.Equal(t, int64(1), sum.CompletedCampaigns)
	require.Equal(t, int64(1), sum.RejectedCampaigns)
	require.Equal(t, int64(10), sum.TotalClicks)
	require.Equal(t, int64(25), sum.TotalImpressions)
	require.Equal(t, int64(500), sum.TotalSpent)
}
