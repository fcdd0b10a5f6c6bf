package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes the two billable delivery events.
type EventKind string

const (
	EventImpression EventKind = "impression"
	EventClick      EventKind = "click"
)

// Deduplication policy. Cooldowns and window caps are per event kind and per
// campaign; a click cooldown never suppresses impressions from the same
// source.
const (
	impressionCooldown  = 2 * time.Minute
	clickCooldown       = 10 * time.Minute
	impressionWindowCap = 200
	clickWindowCap      = 100
)

// Cooldown returns the minimum interval between two counted events from the
// same source for this kind.
func (k EventKind) Cooldown() time.Duration {
	if k == EventClick {
		return clickCooldown
	}
	return impressionCooldown
}

// WindowCap returns the retention size of the recent-event window for this
// kind.
func (k EventKind) WindowCap() int {
	if k == EventClick {
		return clickWindowCap
	}
	return impressionWindowCap
}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	return k == EventImpression || k == EventClick
}

// DeliveryEvent is one impression or click request. It is ephemeral and is
// never persisted as its own record; only its effects on the campaign and
// wallet are.
type DeliveryEvent struct {
	CampaignID uuid.UUID
	SourceID   string
	Kind       EventKind
	Time       time.Time
}
