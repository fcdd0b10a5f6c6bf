package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
)

// CampaignUseCase implements campaign management and lifecycle commands on
// top of the campaign and wallet repositories. Advertiser-scoped methods
// never reveal campaigns owned by other advertisers: a wrong owner behaves
// exactly like a missing campaign.
type CampaignUseCase struct {
	campaigns port.CampaignRepository
	wallets   port.WalletRepository
}

// NewCampaignUseCase creates the usecase with the provided repositories.
func NewCampaignUseCase(campaigns port.CampaignRepository, wallets port.WalletRepository) *CampaignUseCase {
	return &CampaignUseCase{campaigns: campaigns, wallets: wallets}
}

// Create stores a new draft campaign owned by the advertiser.
func (u *CampaignUseCase) Create(ctx context.Context, advertiserID uuid.UUID, draft port.CampaignDraft) (*domain.Campaign, error) {
	c := domain.NewCampaign(advertiserID, time.Now().UTC())
	applyDraft(c, draft)
	if err := u.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the advertiser's campaign.
func (u *CampaignUseCase) Get(ctx context.Context, advertiserID, id uuid.UUID) (*domain.Campaign, error) {
	c, err := u.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AdvertiserID != advertiserID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// List returns the advertiser's campaigns as listing rows, newest first.
func (u *CampaignUseCase) List(ctx context.Context, advertiserID uuid.UUID) ([]port.CampaignSummary, error) {
	cs, err := u.campaigns.ListByAdvertiser(ctx, advertiserID)
	if err != nil {
		return nil, err
	}
	out := make([]port.CampaignSummary, 0, len(cs))
	for _, c := range cs {
		out = append(out, port.CampaignSummary{
			ID:          c.ID,
			Title:       c.Title,
			Placement:   c.Placement,
			Status:      c.Status,
			BudgetTotal: c.Budget.Total,
			Spent:       c.Budget.Spent,
			Remaining:   c.Budget.Remaining(),
			Clicks:      c.Clicks,
			Impressions: c.Impressions,
			StartDate:   c.Schedule.StartDate,
			EndDate:     c.Schedule.EndDate,
		})
	}
	return out, nil
}

// Update replaces the advertiser-supplied fields of a draft or rejected
// campaign. Spent, counters and recent windows are never touched.
func (u *CampaignUseCase) Update(ctx context.Context, advertiserID, id uuid.UUID, draft port.CampaignDraft) (*domain.Campaign, error) {
	var updated *domain.Campaign
	err := u.campaigns.UpdateAtomic(ctx, id, func(c *domain.Campaign) error {
		if c.AdvertiserID != advertiserID {
			return domain.ErrNotFound
		}
		if !c.Editable() {
			return domain.ErrNotEditable
		}
		applyDraft(c, draft)
		updated = c.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the campaign. Active campaigns are refused outright.
func (u *CampaignUseCase) Delete(ctx context.Context, advertiserID, id uuid.UUID) error {
	c, err := u.Get(ctx, advertiserID, id)
	if err != nil {
		return err
	}
	if c.Status == domain.StatusActive {
		return domain.ErrDeleteActive
	}
	return u.campaigns.Delete(ctx, id)
}

// Submit queues a draft or rejected campaign for admin approval.
func (u *CampaignUseCase) Submit(ctx context.Context, advertiserID, id uuid.UUID) error {
	return u.ownedTransition(ctx, advertiserID, id, (*domain.Campaign).Submit)
}

// Pause suspends the advertiser's active campaign.
func (u *CampaignUseCase) Pause(ctx context.Context, advertiserID, id uuid.UUID) error {
	return u.ownedTransition(ctx, advertiserID, id, (*domain.Campaign).Pause)
}

// Resume reactivates the advertiser's paused campaign.
func (u *CampaignUseCase) Resume(ctx context.Context, advertiserID, id uuid.UUID) error {
	return u.ownedTransition(ctx, advertiserID, id, (*domain.Campaign).Resume)
}

func (u *CampaignUseCase) ownedTransition(ctx context.Context, advertiserID, id uuid.UUID, do func(*domain.Campaign) error) error {
	return u.campaigns.UpdateAtomic(ctx, id, func(c *domain.Campaign) error {
		if c.AdvertiserID != advertiserID {
			return domain.ErrNotFound
		}
		return do(c)
	})
}

// Approve marks a pending campaign approved. Admin workflow.
func (u *CampaignUseCase) Approve(ctx context.Context, id uuid.UUID) error {
	return u.campaigns.UpdateAtomic(ctx, id, (*domain.Campaign).Approve)
}

// Reject declines a pending campaign with a reason. Admin workflow.
func (u *CampaignUseCase) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	return u.campaigns.UpdateAtomic(ctx, id, func(c *domain.Campaign) error {
		return c.Reject(reason)
	})
}

// Dashboard aggregates the advertiser's campaigns and wallet balance.
func (u *CampaignUseCase) Dashboard(ctx context.Context, advertiserID uuid.UUID) (*port.Dashboard, error) {
	cs, err := u.campaigns.ListByAdvertiser(ctx, advertiserID)
	if err != nil {
		return nil, err
	}
	d := &port.Dashboard{TotalCampaigns: len(cs)}
	for _, c := range cs {
		if c.Status == domain.StatusActive {
			d.ActiveCampaigns++
		}
		d.TotalClicks += c.Clicks
		d.TotalImpressions += c.Impressions
		d.TotalSpent += c.Budget.Spent
	}
	w, err := u.wallets.GetByAdvertiser(ctx, advertiserID)
	if err != nil {
		return nil, err
	}
	d.WalletBalance = w.Balance
	return d, nil
}

// AdminSummary returns platform-wide aggregates.
func (u *CampaignUseCase) AdminSummary(ctx context.Context) (*port.AdminSummary, error) {
	return u.campaigns.Summary(ctx)
}

func applyDraft(c *domain.Campaign, draft port.CampaignDraft) {
	c.Title = draft.Title
	c.Description = draft.Description
	c.Media = draft.Media
	c.Placement = draft.Placement
	c.Target = draft.Target
	c.Budget.Total = draft.BudgetTotal
	c.Budget.CostPerClick = draft.CostPerClick
	c.Budget.CostPerImpression = draft.CostPerImpression
	c.Schedule.StartDate = draft.StartDate
	c.Schedule.EndDate = draft.EndDate
}
