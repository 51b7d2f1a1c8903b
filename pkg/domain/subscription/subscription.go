package subscription

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPlanNotFound is returned when a plan cannot be found.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrSubscriberNotFound is returned when a subscriber cannot be found.
	ErrSubscriberNotFound = errors.New("subscriber not found")
	// ErrPriceMustBePositive rejects zero or negative plan prices.
	ErrPriceMustBePositive = errors.New("plan price must be positive")
)

// Interval is a plan billing interval.
type Interval string

const (
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// SubscriberStatus is the lifecycle state of a subscription.
type SubscriberStatus string

const (
	SubscriberActive   SubscriberStatus = "active"
	SubscriberPastDue  SubscriberStatus = "past_due"
	SubscriberCanceled SubscriberStatus = "canceled"
)

// Plan is a subscription tier on a creator's page. PriceUSDCents is the
// canonical amount; cross-border display amounts are derived from it on
// read and never stored.
type Plan struct {
	ID           uuid.UUID `json:"id"`
	CreatorID    uuid.UUID `json:"creator_id"`
	Name         string    `json:"name"`
	PriceUSDCents int64    `json:"price_usd_cents"`
	Interval     Interval  `json:"interval"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPlan creates an active plan priced in canonical USD cents.
func NewPlan(creatorID uuid.UUID, name string, priceUSDCents int64, interval Interval) (*Plan, error) {
	if name == "" {
		return nil, errors.New("plan name cannot be empty")
	}
	if priceUSDCents <= 0 {
		return nil, ErrPriceMustBePositive
	}
	if interval != IntervalMonthly && interval != IntervalYearly {
		return nil, errors.New("invalid plan interval")
	}
	now := time.Now().UTC()
	return &Plan{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		Name:         name,
		PriceUSDCents: priceUSDCents,
		Interval:     interval,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Subscriber is a supporter subscribed to one of a creator's plans.
type Subscriber struct {
	ID          uuid.UUID        `json:"id"`
	CreatorID   uuid.UUID        `json:"creator_id"`
	PlanID      uuid.UUID        `json:"plan_id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Status      SubscriberStatus `json:"status"`
	ProviderRef string           `json:"provider_ref"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewSubscriber creates an active subscriber for a plan.
func NewSubscriber(creatorID, planID uuid.UUID, email, name, providerRef string) (*Subscriber, error) {
	if email == "" {
		return nil, errors.New("subscriber email cannot be empty")
	}
	now := time.Now().UTC()
	return &Subscriber{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		PlanID:      planID,
		Email:       email,
		Name:        name,
		Status:      SubscriberActive,
		ProviderRef: providerRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
