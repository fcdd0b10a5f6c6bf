// Package memory implements the persistence ports on in-process maps. It
// backs usecase and handler tests and the local development mode. The
// atomicity contract is upheld with per-entity mutexes: updates lock the
// campaign first, then the advertiser's wallet, the same order the postgres
// adapter acquires its row locks in.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"portal-ads/internal/core/domain"
	"portal-ads/internal/core/port"
)

// Store holds campaigns and wallets in memory.
type Store struct {
	mu        sync.Mutex
	campaigns map[uuid.UUID]*domain.Campaign
	wallets   map[uuid.UUID]*domain.Wallet

	campaignLocks map[uuid.UUID]*sync.Mutex
	walletLocks   map[uuid.UUID]*sync.Mutex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		campaigns:     make(map[uuid.UUID]*domain.Campaign),
		wallets:       make(map[uuid.UUID]*domain.Wallet),
		campaignLocks: make(map[uuid.UUID]*sync.Mutex),
		walletLocks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

var (
	_ port.CampaignRepository = (*Store)(nil)
	_ port.WalletRepository   = (*Store)(nil)
	_ port.DeliveryStore      = (*Store)(nil)
)

func (s *Store) campaignLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.campaignLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.campaignLocks[id] = l
	}
	return l
}

func (s *Store) walletLock(advertiserID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.walletLocks[advertiserID]
	if !ok {
		l = &sync.Mutex{}
		s.walletLocks[advertiserID] = l
	}
	return l
}

// Create stores a copy of the campaign.
func (s *Store) Create(_ context.Context, c *domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c.Clone()
	return nil
}

// GetByID returns a copy of the campaign.
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

// ListByAdvertiser returns the advertiser's campaigns, newest first.
func (s *Store) ListByAdvertiser(_ context.Context, advertiserID uuid.UUID) ([]*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Campaign
	for _, c := range s.campaigns {
		if c.AdvertiserID == advertiserID {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateAtomic runs fn on a copy under the campaign's lock and swaps it in
// when fn succeeds.
func (s *Store) UpdateAtomic(_ context.Context, id uuid.UUID, fn func(*domain.Campaign) error) error {
	lock := s.campaignLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	stored, ok := s.campaigns[id]
	s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}

	work := stored.Clone()
	if err := fn(work); err != nil {
		return err
	}
	work.UpdatedAt = time.Now()

	s.mu.Lock()
	s.campaigns[id] = work
	s.mu.Unlock()
	return nil
}

// Delete removes the campaign.
func (s *Store) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.campaigns, id)
	return nil
}

// ActivateDue applies the scheduler activation rule to every campaign.
func (s *Store) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	return s.scan(ctx, func(c *domain.Campaign) bool { return c.ActivateOnSchedule(now) })
}

// CompleteDue applies the scheduler completion rule to every campaign.
func (s *Store) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	return s.scan(ctx, func(c *domain.Campaign) bool { return c.CompleteOnSchedule(now) })
}

func (s *Store) scan(ctx context.Context, apply func(*domain.Campaign) bool) (int64, error) {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.campaigns))
	for id := range s.campaigns {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var n int64
	for _, id := range ids {
		err := s.UpdateAtomic(ctx, id, func(c *domain.Campaign) error {
			if apply(c) {
				n++
			}
			return nil
		})
		if err != nil && err != domain.ErrNotFound {
			return n, err
		}
	}
	return n, nil
}

// Summary aggregates platform-wide campaign figures.
func (s *Store) Summary(_ context.Context) (*port.AdminSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := &port.AdminSummary{}
	for _, c := range s.campaigns {
		sum.TotalCampaigns++
		switch c.Status {
		case domain.StatusActive:
			sum.ActiveCampaigns++
		case domain.StatusPending:
			sum.PendingCampaigns++
		case domain.StatusCompleted:
			sum.CompletedCampaigns++
		case domain.StatusRejected:
			sum.RejectedCampaigns++
		}
		sum.TotalClicks += c.Clicks
		sum.TotalImpressions += c.Impressions
		sum.TotalSpent += c.Budget.Spent
	}
	return sum, nil
}

// GetByAdvertiser returns a copy of the wallet, materializing an empty one
// for advertisers that have never been credited.
func (s *Store) GetByAdvertiser(_ context.Context, advertiserID uuid.UUID) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[advertiserID]
	if !ok {
		return domain.NewWallet(advertiserID), nil
	}
	return w.Clone(), nil
}

// Update runs fn on a copy of the wallet under its lock.
func (s *Store) Update(_ context.Context, advertiserID uuid.UUID, fn func(*domain.Wallet) error) error {
	lock := s.walletLock(advertiserID)
	lock.Lock()
	defer lock.Unlock()
	return s.updateWalletLocked(advertiserID, fn)
}

func (s *Store) updateWalletLocked(advertiserID uuid.UUID, fn func(*domain.Wallet) error) error {
	s.mu.Lock()
	stored, ok := s.wallets[advertiserID]
	s.mu.Unlock()

	work := domain.NewWallet(advertiserID)
	if ok {
		work = stored.Clone()
	}
	if err := fn(work); err != nil {
		return err
	}

	s.mu.Lock()
	s.wallets[advertiserID] = work
	s.mu.Unlock()
	return nil
}

// UpdateCampaignAndWallet serializes one delivery event against the campaign
// and its advertiser's wallet. Lock order is campaign, then wallet.
func (s *Store) UpdateCampaignAndWallet(_ context.Context, campaignID uuid.UUID, fn func(*domain.Campaign, *domain.Wallet) error) error {
	cLock := s.campaignLock(campaignID)
	cLock.Lock()
	defer cLock.Unlock()

	s.mu.Lock()
	stored, ok := s.campaigns[campaignID]
	s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}

	wLock := s.walletLock(stored.AdvertiserID)
	wLock.Lock()
	defer wLock.Unlock()

	s.mu.Lock()
	storedWallet, hasWallet := s.wallets[stored.AdvertiserID]
	s.mu.Unlock()

	campaign := stored.Clone()
	wallet := domain.NewWallet(stored.AdvertiserID)
	if hasWallet {
		wallet = storedWallet.Clone()
	}

	if err := fn(campaign, wallet); err != nil {
		return err
	}
	campaign.UpdatedAt = time.Now()

	s.mu.Lock()
	s.campaigns[campaignID] = campaign
	s.wallets[stored.AdvertiserID] = wallet
	s.mu.Unlock()
	return nil
}
