package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository using pgxpool.
// Per-campaign serialization of read-modify-write cycles comes from a
// serializable transaction locking the campaign row with FOR UPDATE.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, advertiser_id, title, description, media_url, media_type,
	placement, target_city, target_state,
	budget_total, budget_spent, cost_per_click, cost_per_impression,
	start_date, end_date, status, impressions, clicks,
	recent_impressions, recent_clicks, rejection_reason, created_at, updated_at`

type row interface {
	Scan(dest ...any) error
}

func scanCampaign(r row) (*domain.Campaign, error) {
	var (
		c                    domain.Campaign
		rawImps, rawClicks    []byte
		impEntries, clEntries []domain.WindowEntry
	)
	err := r.Scan(
		&c.ID, &c.AdvertiserID, &c.Title, &c.Description, &c.Media.URL, &c.Media.Type,
		&c.Placement, &c.Target.City, &c.Target.State,
		&c.Budget.Total, &c.Budget.Spent, &c.Budget.CostPerClick, &c.Budget.CostPerImpression,
		&c.Schedule.StartDate, &c.Schedule.EndDate, &c.Status, &c.Impressions, &c.Clicks,
		&rawImps, &rawClicks, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(rawImps, &impEntries); err != nil {
		return nil, err
	}
	if err = json.Unmarshal(rawClicks, &clEntries); err != nil {
		return nil, err
	}
	c.RecentImpressions = domain.RestoreWindow(domain.EventImpression.WindowCap(), impEntries)
	c.RecentClicks = domain.RestoreWindow(domain.EventClick.WindowCap(), clEntries)
	return &c, nil
}

func windowJSON(w *domain.RecentWindow) ([]byte, error) {
	entries := w.Entries()
	if entries == nil {
		entries = []domain.WindowEntry{}
	}
	return json.Marshal(entries)
}

// Create stores a new campaign.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	rawImps, err := windowJSON(&c.RecentImpressions)
	if err != nil {
		return err
	}
	rawClicks, err := windowJSON(&c.RecentClicks)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`,
		c.ID, c.AdvertiserID, c.Title, c.Description, c.Media.URL, c.Media.Type,
		c.Placement, c.Target.City, c.Target.State,
		c.Budget.Total, c.Budget.Spent, c.Budget.CostPerClick, c.Budget.CostPerImpression,
		c.Schedule.StartDate, c.Schedule.EndDate, c.Status, c.Impressions, c.Clicks,
		rawImps, rawClicks, c.RejectionReason, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetByID returns the campaign or domain.ErrNotFound.
func (r *CampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// ListByAdvertiser returns the advertiser's campaigns, newest first.
func (r *CampaignRepository) ListByAdvertiser(ctx context.Context, advertiserID uuid.UUID) ([]*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns
		WHERE advertiser_id = $1 ORDER BY created_at DESC`, advertiserID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Campaign, error) {
		return scanCampaign(row)
	})
}

// UpdateAtomic locks the campaign row, applies fn and persists the result.
// Any error from fn rolls the transaction back untouched.
func (r *CampaignRepository) UpdateAtomic(ctx context.Context, id uuid.UUID, fn func(*domain.Campaign) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	c, err := lockCampaign(ctx, tx, id)
	if err != nil {
		return err
	}
	if err = fn(c); err != nil {
		return err
	}
	if err = persistCampaign(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockCampaign(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Campaign, error) {
	c, err := scanCampaign(tx.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func persistCampaign(ctx context.Context, tx pgx.Tx, c *domain.Campaign) error {
	rawImps, err := windowJSON(&c.RecentImpressions)
	if err != nil {
		return err
	}
	rawClicks, err := windowJSON(&c.RecentClicks)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE campaigns SET
		title = $2, description = $3, media_url = $4, media_type = $5,
		placement = $6, target_city = $7, target_state = $8,
		budget_total = $9, budget_spent = $10, cost_per_click = $11, cost_per_impression = $12,
		start_date = $13, end_date = $14, status = $15, impressions = $16, clicks = $17,
		recent_impressions = $18, recent_clicks = $19, rejection_reason = $20, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Media.URL, c.Media.Type,
		c.Placement, c.Target.City, c.Target.State,
		c.Budget.Total, c.Budget.Spent, c.Budget.CostPerClick, c.Budget.CostPerImpression,
		c.Schedule.StartDate, c.Schedule.EndDate, c.Status, c.Impressions, c.Clicks,
		rawImps, rawClicks, c.RejectionReason)
	return err
}

// Delete removes the campaign.
func (r *CampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ActivateDue flips approved campaigns inside their schedule to active.
// The set-based update makes the scan idempotent: already-active campaigns
// no longer match the predicate.
func (r *CampaignRepository) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now()
		WHERE status = $2 AND start_date <= $3 AND end_date > $3`,
		domain.StatusActive, domain.StatusApproved, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CompleteDue flips active and approved campaigns past their end date to
// completed.
func (r *CampaignRepository) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = $1, updated_at = now()
		WHERE status IN ($2, $3) AND end_date <= $4`,
		domain.StatusCompleted, domain.StatusActive, domain.StatusApproved, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Summary returns platform-wide campaign aggregates.
func (r *CampaignRepository) Summary(ctx context.Context) (*port.AdminSummary, error) {
	var s port.AdminSummary
	err := r.pool.QueryRow(ctx, `SELECT
		count(*),
		count(*) FILTER (WHERE status = 'active'),
		count(*) FILTER (WHERE status = 'pending'),
		count(*) FILTER (WHERE status = 'completed'),
		count(*) FILTER (WHERE status = 'rejected'),
		COALESCE(sum(clicks), 0),
		COALESCE(sum(impressions), 0),
		COALESCE(sum(budget_spent), 0)
		FROM campaigns`).Scan(
		&s.TotalCampaigns, &s.ActiveCampaigns, &s.PendingCampaigns,
		&s.CompletedCampaigns, &s.RejectedCampaigns,
		&s.TotalClicks, &s.TotalImpressions, &s.TotalSpent)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
