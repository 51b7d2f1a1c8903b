package dto

import (
	"time"

	"github.com/google/uuid"
)

// PlanCreate represents the data needed to create a subscription plan.
type PlanCreate struct {
	ID            uuid.UUID `json:"id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	Name          string    `json:"name" validate:"required,max=100"`
	PriceUSDCents int64     `json:"price_usd_cents" validate:"required,gt=0"`
	Interval      string    `json:"interval" validate:"required,oneof=monthly yearly"`
}

// PlanUpdate represents the mutable fields of a plan. Price updates go
// through the same canonical-USD path as creation.
type PlanUpdate struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=100"`
	PriceUSDCents *int64  `json:"price_usd_cents,omitempty" validate:"omitempty,gt=0"`
	Active        *bool   `json:"active,omitempty"`
}

// PlanRead is a read-optimized view of a plan. LocalPrice carries the
// display-only cross-border projection and is absent for native countries.
type PlanRead struct {
	ID            uuid.UUID   `json:"id"`
	CreatorID     uuid.UUID   `json:"creator_id"`
	Name          string      `json:"name"`
	PriceUSDCents int64       `json:"price_usd_cents"`
	Interval      string      `json:"interval"`
	Active        bool        `json:"active"`
	LocalPrice    *LocalPrice `json:"local_price,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// LocalPrice is a derived display amount; never persisted.
type LocalPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Symbol   string  `json:"symbol"`
}

// SubscriberCreate represents the data needed to record a subscriber.
type SubscriberCreate struct {
	ID          uuid.UUID `json:"id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	PlanID      uuid.UUID `json:"plan_id"`
	Email       string    `json:"email" validate:"required,email"`
	Name        string    `json:"name" validate:"max=100"`
	Status      string    `json:"status"`
	ProviderRef string    `json:"provider_ref"`
}

// SubscriberUpdate represents the mutable fields of a subscriber.
type SubscriberUpdate struct {
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active past_due canceled"`
	ProviderRef *string `json:"provider_ref,omitempty"`
}

// SubscriberRead is a read-optimized view of a subscriber.
type SubscriberRead struct {
	ID          uuid.UUID `json:"id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	PlanID      uuid.UUID `json:"plan_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	ProviderRef string    `json:"provider_ref"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
