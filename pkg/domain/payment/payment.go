package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/natepay/natepay/pkg/money"
	"github.com/natepay/natepay/pkg/region"
)

var (
	// ErrPaymentNotFound is returned when a payment cannot be found.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAmountMustBePositive rejects zero or negative charges.
	ErrAmountMustBePositive = errors.New("payment amount must be positive")
	// ErrNoProviderForCountry is returned when no configured provider can
	// charge in the supporter's country.
	ErrNoProviderForCountry = errors.New("no payment provider available for country")
)

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Payment records one charge against a creator's page.
//
// AmountUSDCents is canonical: it is what the creator's balance and feed
// report. ChargedAmount/ChargedCurrency record what the provider actually
// processed (e.g. a rounded NGN display amount via Paystack) and exist for
// reconciliation only.
type Payment struct {
	ID              uuid.UUID       `json:"id"`
	CreatorID       uuid.UUID       `json:"creator_id"`
	SubscriberEmail string          `json:"subscriber_email"`
	AmountUSDCents  int64           `json:"amount_usd_cents"`
	ChargedAmount   int64           `json:"charged_amount"`
	ChargedCurrency money.Code      `json:"charged_currency"`
	Provider        region.Provider `json:"provider"`
	Status          Status          `json:"status"`
	ProviderRef     string          `json:"provider_ref"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// New creates a pending payment with a canonical USD amount.
func New(
	creatorID uuid.UUID,
	subscriberEmail string,
	amountUSDCents int64,
	chargedAmount int64,
	chargedCurrency money.Code,
	provider region.Provider,
) (*Payment, error) {
	if amountUSDCents <= 0 {
		return nil, ErrAmountMustBePositive
	}
	if !chargedCurrency.IsValid() {
		return nil, money.ErrInvalidCurrencyCode
	}
	now := time.Now().UTC()
	return &Payment{
		ID:              uuid.New(),
		CreatorID:       creatorID,
		SubscriberEmail: subscriberEmail,
		AmountUSDCents:  amountUSDCents,
		ChargedAmount:   chargedAmount,
		ChargedCurrency: chargedCurrency,
		Provider:        provider,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
