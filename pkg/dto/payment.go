package dto

import (
	"time"

	"github.com/google/uuid"
)

// PaymentCreate represents the data needed to record a pending payment.
type PaymentCreate struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	SubscriberEmail string    `json:"subscriber_email"`
	AmountUSDCents  int64     `json:"amount_usd_cents"`
	ChargedAmount   int64     `json:"charged_amount"`
	ChargedCurrency string    `json:"charged_currency"`
	Provider        string    `json:"provider"`
	Status          string    `json:"status"`
	ProviderRef     string    `json:"provider_ref"`
}

// PaymentUpdate represents the mutable fields of a payment record.
type PaymentUpdate struct {
	Status      *string `json:"status,omitempty"`
	ProviderRef *string `json:"provider_ref,omitempty"`
}

// PaymentRead is a read-optimized view of a payment.
type PaymentRead struct {
	ID              uuid.UUID `json:"id"`
	CreatorID       uuid.UUID `json:"creator_id"`
	SubscriberEmail string    `json:"subscriber_email"`
	AmountUSDCents  int64     `json:"amount_usd_cents"`
	ChargedAmount   int64     `json:"charged_amount"`
	ChargedCurrency string    `json:"charged_currency"`
	Provider        string    `json:"provider"`
	Status          string    `json:"status"`
	ProviderRef     string    `json:"provider_ref"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
