package domain

import "errors"

// Sentinel errors of the campaign and wallet domain. Adapters map these to
// transport-level responses; anything else is treated as an infrastructure
// failure.
var (
	// ErrNotFound: the campaign or wallet does not exist, or is owned by a
	// different advertiser.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition: the requested lifecycle transition is not allowed
	// from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCampaignNotActive: a delivery event arrived for a campaign that is
	// not currently active.
	ErrCampaignNotActive = errors.New("campaign is not active")
	// ErrInsufficientFunds: the wallet balance cannot cover the debit.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	// ErrBudgetExhausted: the charge would push spent past the total budget.
	ErrBudgetExhausted = errors.New("campaign budget exhausted")
	// ErrInvalidAmount: wallet operations require a positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrNotEditable: only draft and rejected campaigns can be modified.
	ErrNotEditable = errors.New("campaign is not editable")
	// ErrDeleteActive: active campaigns must be paused before deletion.
	ErrDeleteActive = errors.New("cannot delete an active campaign")
)
