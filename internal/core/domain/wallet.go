package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies wallet ledger entries.
type TransactionType string

const (
	TransactionAdd    TransactionType = "add"
	TransactionSpent  TransactionType = "spent"
	TransactionRefund TransactionType = "refund"
)

// Transaction is one append-only wallet ledger entry. Amounts are in integer
// cents and always positive; the type determines the sign of the balance
// effect.
type Transaction struct {
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	CampaignID  *uuid.UUID      `json:"campaign_id,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Wallet is an advertiser's prepaid spending account. Balance is a cached
// projection of the history: Σ(add) + Σ(refund) − Σ(spent). All mutation
// goes through Credit, Debit and Refund; no caller writes Balance directly.
type Wallet struct {
	AdvertiserID uuid.UUID
	Balance      int64
	History      []Transaction

	appended []Transaction
}

// NewWallet returns an empty wallet for the advertiser.
func NewWallet(advertiserID uuid.UUID) *Wallet {
	return &Wallet{AdvertiserID: advertiserID}
}

// Credit adds funds. Amount must be positive.
func (w *Wallet) Credit(amount int64, description string, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.append(Transaction{
		Type:        TransactionAdd,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
	})
	w.Balance += amount
	return nil
}

// Debit charges the wallet on behalf of a campaign. The entry append and the
// balance decrement happen together; a failed debit leaves both untouched.
func (w *Wallet) Debit(amount int64, campaignID uuid.UUID, description string, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if w.Balance < amount {
		return ErrInsufficientFunds
	}
	id := campaignID
	w.append(Transaction{
		Type:        TransactionSpent,
		Amount:      amount,
		CampaignID:  &id,
		Description: description,
		CreatedAt:   now,
	})
	w.Balance -= amount
	return nil
}

// Refund returns funds to the wallet, optionally referencing a campaign.
func (w *Wallet) Refund(amount int64, campaignID *uuid.UUID, description string, now time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.append(Transaction{
		Type:        TransactionRefund,
		Amount:      amount,
		CampaignID:  campaignID,
		Description: description,
		CreatedAt:   now,
	})
	w.Balance += amount
	return nil
}

func (w *Wallet) append(t Transaction) {
	w.History = append(w.History, t)
	w.appended = append(w.appended, t)
}

// Appended returns entries added since the wallet was loaded. Storage
// adapters persist exactly these alongside the updated balance.
func (w *Wallet) Appended() []Transaction { return w.appended }

// Clone returns a deep copy of the wallet.
func (w *Wallet) Clone() *Wallet {
	c := *w
	c.History = append([]Transaction(nil), w.History...)
	c.appended = nil
	return &c
}
