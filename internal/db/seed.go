package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data into the portal-ads database: one advertiser with
// a funded wallet and a handful of campaigns spread across lifecycle states.
// Fixed UUIDs keep reseeding idempotent together with ON CONFLICT DO NOTHING.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	advertiserID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	_, err := db.Exec(ctx, `INSERT INTO wallets (advertiser_id, balance)
VALUES ($1, $2) ON CONFLICT DO NOTHING`, advertiserID, int64(1_000_000))
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `INSERT INTO wallet_transactions
(advertiser_id, type, amount, description, created_at)
SELECT $1, 'add', $2, 'initial demo funds', now()
WHERE NOT EXISTS (SELECT 1 FROM wallet_transactions WHERE advertiser_id = $1)`,
		advertiserID, int64(1_000_000))
	if err != nil {
		return err
	}

	start := time.Now().AddDate(0, 0, -1)
	end := time.Now().AddDate(0, 1, 0)

	campaigns := []struct {
		id        uuid.UUID
		title     string
		placement string
		status    string
	}{
		{uuid.MustParse("22222222-2222-2222-2222-222222222201"), "Summer Sale", "homepage_top", "active"},
		{uuid.MustParse("22222222-2222-2222-2222-222222222202"), "New Arrivals", "sidebar", "approved"},
		{uuid.MustParse("22222222-2222-2222-2222-222222222203"), "Clearance", "article_top", "pending"},
		{uuid.MustParse("22222222-2222-2222-2222-222222222204"), "Brand Teaser", "homepage_middle", "draft"},
		{uuid.MustParse("22222222-2222-2222-2222-222222222205"), "Holiday Promo", "footer", "paused"},
	}

	for _, c := range campaigns {
		_, err = db.Exec(ctx, `INSERT INTO campaigns
    (id, advertiser_id, title, description, media_url, media_type, placement,
     target_city, target_state, budget_total, budget_spent,
     cost_per_click, cost_per_impression, start_date, end_date, status,
     impressions, clicks, recent_impressions, recent_clicks, rejection_reason,
     created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,'All','All',$8,0,500,50,$9,$10,$11,0,0,'[]','[]','',now(),now())
ON CONFLICT DO NOTHING`,
			c.id, advertiserID, c.title, "Demo campaign for local development",
			"https://example.com/media/"+c.id.String()+".png", "image",
			c.placement, int64(50_000), start, end, c.status)
		if err != nil {
			return err
		}
	}
	return nil
}
