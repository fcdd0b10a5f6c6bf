package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
	"portal-ads/internal/metrics"
)

// errDuplicate aborts the storage update for suppressed events so that no
// write is issued; Process converts it back into a normal outcome.
var errDuplicate = errors.New("duplicate delivery event")

// DeliveryUseCase processes impression and click events. Every event runs
// inside the store's per-campaign critical section, so concurrent events on
// one campaign can never jointly overspend the budget or overdraw the
// wallet. Events on different campaigns proceed independently.
type DeliveryUseCase struct {
	store port.DeliveryStore
	mts   *metrics.Metrics
}

// NewDeliveryUseCase creates the processor on top of a delivery store.
func NewDeliveryUseCase(store port.DeliveryStore, mts *metrics.Metrics) *DeliveryUseCase {
	return &DeliveryUseCase{store: store, mts: mts}
}

// Process runs one delivery event through the ledger:
//
//  1. reject events for unknown campaigns (domain.ErrNotFound) and
//     non-active campaigns (domain.ErrCampaignNotActive),
//  2. silently ignore duplicates within the kind's cooldown window,
//  3. pause the campaign when the wallet cannot cover the cost,
//  4. complete the campaign when the charge would exceed the total budget,
//  5. otherwise count the event, add the cost to spent, debit the wallet
//     and retain the source in the recent window — all in one atomic unit.
//
// The four outcomes are mutually exclusive for a single call.
func (u *DeliveryUseCase) Process(ctx context.Context, campaignID uuid.UUID, sourceID string, kind domain.EventKind, now time.Time) (port.DeliveryResult, error) {
	var res port.DeliveryResult
	err := u.store.UpdateCampaignAndWallet(ctx, campaignID, func(c *domain.Campaign, w *domain.Wallet) error {
		if c.Status != domain.StatusActive {
			return domain.ErrCampaignNotActive
		}
		if c.IsDuplicate(kind, sourceID, now) {
			res = deliveryResult(port.OutcomeDuplicate, c, w)
			return errDuplicate
		}

		cost := c.CostFor(kind)

		if w.Balance < cost {
			if err := c.Pause(); err != nil {
				return err
			}
			res = deliveryResult(port.OutcomeWalletPaused, c, w)
			return nil
		}

		if err := c.AuthorizeCharge(cost); err != nil {
			if !errors.Is(err, domain.ErrBudgetExhausted) {
				return err
			}
			if err := c.Complete(); err != nil {
				return err
			}
			res = deliveryResult(port.OutcomeBudgetExhausted, c, w)
			return nil
		}

		if cost > 0 {
			if err := w.Debit(cost, c.ID, string(kind)+" charge", now); err != nil {
				return err
			}
		}
		c.RecordDelivery(kind, sourceID, cost, now)
		if c.Budget.Spent >= c.Budget.Total {
			if err := c.Complete(); err != nil {
				return err
			}
		}
		res = deliveryResult(port.OutcomeRecorded, c, w)
		return nil
	})
	if errors.Is(err, errDuplicate) {
		err = nil
	}
	if err != nil {
		return port.DeliveryResult{}, err
	}

	u.mts.DeliveryEvents.WithLabelValues(string(kind), string(res.Outcome)).Inc()
	return res, nil
}

func deliveryResult(outcome port.DeliveryOutcome, c *domain.Campaign, w *domain.Wallet) port.DeliveryResult {
	return port.DeliveryResult{
		Outcome:       outcome,
		Impressions:   c.Impressions,
		Clicks:        c.Clicks,
		Spent:         c.Budget.Spent,
		WalletBalance: w.Balance,
	}
}
