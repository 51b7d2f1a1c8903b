// Package events defines the domain events emitted on the event bus.
// The activity service consumes them to build each creator's feed.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the marker interface for all domain events.
type Event interface {
	Type() string
}

// PaymentCompleted is emitted when a provider confirms a charge.
type PaymentCompleted struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	SubscriberEmail string    `json:"subscriber_email"`
	AmountUSDCents  int64     `json:"amount_usd_cents"`
	PaymentRef      string    `json:"payment_ref"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func (PaymentCompleted) Type() string { return "payment.completed" }

// PaymentFailed is emitted when a provider reports a failed charge.
type PaymentFailed struct {
	ID         uuid.UUID `json:"id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	PaymentRef string    `json:"payment_ref"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (PaymentFailed) Type() string { return "payment.failed" }

// SubscriberAdded is emitted when a supporter subscribes to a plan.
type SubscriberAdded struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	PlanID          uuid.UUID `json:"plan_id"`
	SubscriberEmail string    `json:"subscriber_email"`
	SubscriberName  string    `json:"subscriber_name"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func (SubscriberAdded) Type() string { return "subscriber.added" }

// SubscriptionCanceled is emitted when a subscription ends.
type SubscriptionCanceled struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	SubscriberEmail string    `json:"subscriber_email"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func (SubscriptionCanceled) Type() string { return "subscription.canceled" }

// PayoutSent is emitted for each successful payroll payout.
type PayoutSent struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	MemberName     string    `json:"member_name"`
	AmountUSDCents int64     `json:"amount_usd_cents"`
	PayoutRef      string    `json:"payout_ref"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (PayoutSent) Type() string { return "payout.sent" }

// PayrollRunCompleted is emitted when every item of a run settled.
type PayrollRunCompleted struct {
	ID            uuid.UUID `json:"id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	RunID         uuid.UUID `json:"run_id"`
	TotalUSDCents int64     `json:"total_usd_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (PayrollRunCompleted) Type() string { return "payroll.run_completed" }

// OnboardingCompleted is emitted when a provider confirms a creator's
// payout account is fully set up.
type OnboardingCompleted struct {
	ID         uuid.UUID `json:"id"`
	CreatorID  uuid.UUID `json:"creator_id"`
	Provider   string    `json:"provider"`
	AccountRef string    `json:"account_ref"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OnboardingCompleted) Type() string { return "onboarding.completed" }
