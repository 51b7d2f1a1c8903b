package payment

import (
	"github.com/google/uuid"
)

// Status represents the status of a provider-side payment.
type Status string

const (
	// StatusPending indicates the payment is still pending.
	StatusPending Status = "pending"
	// StatusCompleted indicates the payment has completed successfully.
	StatusCompleted Status = "completed"
	// StatusFailed indicates the payment has failed.
	StatusFailed Status = "failed"
)

// CheckoutParams holds the parameters for starting a hosted checkout.
// Amount is in the smallest unit of Currency: USD cents for Stripe
// charges, the charged local unit (e.g. kobo) for Paystack.
type CheckoutParams struct {
	PaymentID       uuid.UUID
	CreatorID       uuid.UUID
	PlanID          uuid.UUID
	SubscriberEmail string
	Amount          int64
	Currency        string
	Description     string
}

// CheckoutResponse is the provider's answer to a checkout request.
type CheckoutResponse struct {
	// ProviderRef identifies the checkout at the provider
	// (Stripe session ID or Paystack transaction reference).
	ProviderRef string
	// RedirectURL is the hosted page the subscriber is sent to.
	RedirectURL string
	Status      Status
}

// PayoutParams holds the parameters for a payroll payout. Amount is in
// the smallest unit of Currency; the payroll service derives it from the
// canonical USD salary before calling the provider.
type PayoutParams struct {
	ItemID uuid.UUID
	RunID  uuid.UUID
	// RecipientRef is the provider-side payout destination: a Stripe
	// connected account ID or a Paystack transfer recipient code.
	RecipientRef string
	Amount       int64
	Currency     string
	Description  string
}

// PayoutResponse is the provider's answer to a payout request.
type PayoutResponse struct {
	ProviderRef string
	Status      Status
}

// OnboardParams holds the parameters for setting up a creator's payout
// account at the provider.
type OnboardParams struct {
	CreatorID     uuid.UUID
	Email         string
	CountryCode   string
	BusinessName  string
	BankCode      string
	AccountNumber string
	AccountName   string
}

// OnboardResponse is the provider's answer to an onboarding request.
type OnboardResponse struct {
	// AccountRef is the provider-side account identifier (Stripe account
	// ID or Paystack recipient/subaccount code).
	AccountRef string
	// RedirectURL, when non-empty, is a hosted onboarding flow the
	// creator must complete (Stripe account links). Paystack onboarding
	// finishes inline and leaves it empty.
	RedirectURL string
	Completed   bool
}

// WebhookResult is the normalized outcome of a provider webhook event.
type WebhookResult struct {
	// Kind is the normalized event kind. Empty when the event is
	// acknowledged but carries nothing actionable.
	Kind        string
	ProviderRef string
	PaymentID   uuid.UUID
	CreatorID   uuid.UUID
	// PlanID is set on checkout completion events so the subscription
	// can be recorded against the purchased plan.
	PlanID uuid.UUID
	// Amount and Currency reflect what the provider settled, in its
	// smallest unit. The canonical USD amount lives on the payment row.
	Amount   int64
	Currency string
	Reason   string
}

// Normalized webhook event kinds.
const (
	WebhookPaymentCompleted    = "payment_completed"
	WebhookPaymentFailed       = "payment_failed"
	WebhookPayoutSent          = "payout_sent"
	WebhookPayoutFailed        = "payout_failed"
	WebhookOnboardingCompleted = "onboarding_completed"
)
