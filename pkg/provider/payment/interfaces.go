package payment

import (
	"context"
)

// Payment is the provider-neutral contract for charging subscribers,
// paying out payroll and onboarding creators. Stripe and Paystack each
// implement it; the country registry decides which one handles a given
// creator.
type Payment interface {
	// CreateCheckout starts a hosted checkout for a subscription payment.
	CreateCheckout(
		ctx context.Context,
		params *CheckoutParams,
	) (*CheckoutResponse, error)

	// InitiatePayout sends a payroll payout to a recipient.
	InitiatePayout(
		ctx context.Context,
		params *PayoutParams,
	) (*PayoutResponse, error)

	// OnboardCreator sets up the creator's payout account at the provider.
	OnboardCreator(
		ctx context.Context,
		params *OnboardParams,
	) (*OnboardResponse, error)

	// HandleWebhook verifies and normalizes a provider webhook event.
	HandleWebhook(
		ctx context.Context,
		payload []byte,
		signature string,
	) (*WebhookResult, error)
}
