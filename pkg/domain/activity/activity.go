package activity

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a feed entry.
type Kind string

const (
	KindPaymentReceived      Kind = "payment_received"
	KindNewSubscriber        Kind = "new_subscriber"
	KindSubscriptionCanceled Kind = "subscription_canceled"
	KindPayoutSent           Kind = "payout_sent"
	KindPayrollRun           Kind = "payroll_run"
)

// Entry is one row in a creator's activity feed. AmountUSDCents is zero
// for kinds without a monetary amount.
type Entry struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Kind           Kind      `json:"kind"`
	Actor          string    `json:"actor"`
	AmountUSDCents int64     `json:"amount_usd_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewEntry creates a feed entry stamped with the current time.
func NewEntry(creatorID uuid.UUID, kind Kind, actor string, amountUSDCents int64) *Entry {
	return &Entry{
		ID:             uuid.New(),
		CreatorID:      creatorID,
		Kind:           kind,
		Actor:          actor,
		AmountUSDCents: amountUSDCents,
		CreatedAt:      time.Now().UTC(),
	}
}
