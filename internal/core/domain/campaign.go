package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is a campaign lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Terminal reports whether no transition leads out of s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// MediaType classifies campaign creatives.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaGIF   MediaType = "gif"
)

// Media is the creative attached to a campaign.
type Media struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

// Budget holds a campaign's money figures in integer cents. Spent is
// monotonically non-decreasing and never exceeds Total.
type Budget struct {
	Total             int64
	Spent             int64
	CostPerClick      int64
	CostPerImpression int64
}

// Remaining returns the unspent budget.
func (b Budget) Remaining() int64 { return b.Total - b.Spent }

// Schedule is the delivery window. StartDate precedes EndDate; both are
// immutable once the campaign is approved.
type Schedule struct {
	StartDate time.Time
	EndDate   time.Time
}

// Campaign is one advertiser's ad unit under delivery control. It owns its
// budget, schedule, lifecycle status, delivery counters and the recent-event
// windows used for duplicate suppression. Instances are mutated only inside
// the per-campaign critical section provided by the storage adapter.
type Campaign struct {
	ID           uuid.UUID
	AdvertiserID uuid.UUID

	Title       string
	Description string
	Media       Media
	Placement   string
	Target      Target

	Budget   Budget
	Schedule Schedule
	Status   Status

	Impressions int64
	Clicks      int64

	RecentImpressions RecentWindow
	RecentClicks      RecentWindow

	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCampaign returns a draft campaign owned by the advertiser.
func NewCampaign(advertiserID uuid.UUID, now time.Time) *Campaign {
	return &Campaign{
		ID:                uuid.New(),
		AdvertiserID:      advertiserID,
		Status:            StatusDraft,
		RecentImpressions: NewRecentWindow(impressionWindowCap),
		RecentClicks:      NewRecentWindow(clickWindowCap),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Editable reports whether the advertiser may modify the campaign. Only
// draft and rejected campaigns are editable.
func (c *Campaign) Editable() bool {
	return c.Status == StatusDraft || c.Status == StatusRejected
}

// Submit moves a draft or rejected campaign into the admin approval queue.
func (c *Campaign) Submit() error {
	return c.transition(StatusPending, StatusDraft, StatusRejected)
}

// Approve marks a pending campaign ready for scheduling. Admin action.
func (c *Campaign) Approve() error {
	return c.transition(StatusApproved, StatusPending)
}

// Reject declines a pending campaign with a reason. Admin action. Rejected
// campaigns may be edited and resubmitted.
func (c *Campaign) Reject(reason string) error {
	if err := c.transition(StatusRejected, StatusPending); err != nil {
		return err
	}
	c.RejectionReason = reason
	return nil
}

// Pause suspends an active campaign. Used both by the advertiser and by the
// delivery processor when the wallet cannot cover a charge.
func (c *Campaign) Pause() error {
	return c.transition(StatusPaused, StatusActive)
}

// Resume reactivates a paused campaign. Resuming is deliberately restricted
// to the paused state; terminal and pre-approval states stay where they are.
func (c *Campaign) Resume() error {
	return c.transition(StatusActive, StatusPaused)
}

// Complete ends delivery permanently. Fired by the delivery processor on
// budget exhaustion and by the scheduler when the end date passes.
func (c *Campaign) Complete() error {
	return c.transition(StatusCompleted, StatusActive, StatusApproved)
}

// ActivateOnSchedule applies the scheduler's activation rule. It is a no-op
// (not an error) when the campaign is not due, so repeated scans converge.
func (c *Campaign) ActivateOnSchedule(now time.Time) bool {
	if c.Status != StatusApproved {
		return false
	}
	if now.Before(c.Schedule.StartDate) || !now.Before(c.Schedule.EndDate) {
		return false
	}
	c.Status = StatusActive
	return true
}

// CompleteOnSchedule applies the scheduler's completion rule, idempotently.
func (c *Campaign) CompleteOnSchedule(now time.Time) bool {
	if c.Status != StatusActive && c.Status != StatusApproved {
		return false
	}
	if now.Before(c.Schedule.EndDate) {
		return false
	}
	c.Status = StatusCompleted
	return true
}

func (c *Campaign) transition(to Status, allowedFrom ...Status) error {
	for _, from := range allowedFrom {
		if c.Status == from {
			c.Status = to
			return nil
		}
	}
	return ErrInvalidTransition
}

// CostFor returns the charge for one event of the given kind, read at the
// moment of authorization rather than cached earlier.
func (c *Campaign) CostFor(kind EventKind) int64 {
	if kind == EventClick {
		return c.Budget.CostPerClick
	}
	return c.Budget.CostPerImpression
}

// IsDuplicate reports whether an event from sourceID within the kind's
// cooldown is already retained in the matching window.
func (c *Campaign) IsDuplicate(kind EventKind, sourceID string, now time.Time) bool {
	return c.window(kind).Seen(sourceID, now, kind.Cooldown())
}

// AuthorizeCharge enforces the hard exhaustion rule: a charge that would
// push Spent past Total is refused entirely with ErrBudgetExhausted.
func (c *Campaign) AuthorizeCharge(cost int64) error {
	if c.Budget.Spent+cost > c.Budget.Total {
		return ErrBudgetExhausted
	}
	return nil
}

// RecordDelivery applies an authorized charge: it increments the event
// counter, adds the cost to Spent and records the source in the recent
// window. The caller must have called AuthorizeCharge first.
func (c *Campaign) RecordDelivery(kind EventKind, sourceID string, cost int64, now time.Time) {
	if kind == EventClick {
		c.Clicks++
	} else {
		c.Impressions++
	}
	c.Budget.Spent += cost
	c.window(kind).Record(sourceID, now)
}

func (c *Campaign) window(kind EventKind) *RecentWindow {
	if kind == EventClick {
		return &c.RecentClicks
	}
	return &c.RecentImpressions
}

// Clone returns a deep copy of the campaign.
func (c *Campaign) Clone() *Campaign {
	cp := *c
	cp.RecentImpressions = RestoreWindow(impressionWindowCap, c.RecentImpressions.Entries())
	cp.RecentClicks = RestoreWindow(clickWindowCap, c.RecentClicks.Entries())
	return &cp
}
