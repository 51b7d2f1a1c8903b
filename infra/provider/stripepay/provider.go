// Package stripepay implements the payment provider contract on Stripe:
// hosted checkout for subscriptions, Connect transfers for payroll and
// account links for creator onboarding.
package stripepay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/provider/payment"
)

// Provider implements payment.Payment using the Stripe API.
type Provider struct {
	client          *stripe.Client
	cfg             *config.Stripe
	logger          *slog.Logger
	webhookHandlers map[string]webhookHandler
}

type webhookHandler func(context.Context, stripe.Event, *slog.Logger) (*payment.WebhookResult, error)

// New creates a Stripe-backed payment provider.
func New(cfg *config.Stripe, logger *slog.Logger) *Provider {
	p := &Provider{
		client: stripe.NewClient(cfg.ApiKey),
		cfg:    cfg,
		logger: logger.With("provider", "stripe"),
	}
	p.webhookHandlers = map[string]webhookHandler{
		"checkout.session.completed":    p.handleCheckoutSessionCompleted,
		"checkout.session.expired":      p.handleCheckoutSessionExpired,
		"payment_intent.payment_failed": p.handlePaymentIntentFailed,
		"transfer.created":              p.handleTransferCreated,
		"transfer.reversed":             p.handleTransferReversed,
		"account.updated":               p.handleAccountUpdated,
	}
	return p
}

// CreateCheckout creates a Stripe Checkout Session for a subscription
// payment. Stripe creators charge in USD; Amount is USD cents.
func (p *Provider) CreateCheckout(
	ctx context.Context,
	params *payment.CheckoutParams,
) (*payment.CheckoutResponse, error) {
	log := p.logger.With(
		"method", "CreateCheckout",
		"payment_id", params.PaymentID,
		"creator_id", params.CreatorID,
	)

	metadata := map[string]string{
		"payment_id": params.PaymentID.String(),
		"creator_id": params.CreatorID.String(),
		"plan_id":    params.PlanID.String(),
	}

	sessionParams := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.cfg.SuccessPath),
		CancelURL:          stripe.String(p.cfg.CancelPath),
		Metadata:           metadata,
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: metadata,
		},
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(strings.ToLower(params.Currency)),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(params.Description),
				},
				UnitAmount: stripe.Int64(params.Amount),
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if params.SubscriberEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.SubscriberEmail)
	}

	session, err := p.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		log.Error("failed to create checkout session", "error", err)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	log.Info("created checkout session", "session_id", session.ID)
	return &payment.CheckoutResponse{
		ProviderRef: session.ID,
		RedirectURL: session.URL,
		Status:      payment.StatusPending,
	}, nil
}

// InitiatePayout transfers USD to a connected account for a payroll item.
func (p *Provider) InitiatePayout(
	ctx context.Context,
	params *payment.PayoutParams,
) (*payment.PayoutResponse, error) {
	log := p.logger.With(
		"method", "InitiatePayout",
		"item_id", params.ItemID,
		"recipient", params.RecipientRef,
	)
	if params.RecipientRef == "" {
		return nil, fmt.Errorf("stripe payout requires a connected account")
	}

	transferParams := &stripe.TransferCreateParams{
		Amount:      stripe.Int64(params.Amount),
		Currency:    stripe.String(strings.ToLower(params.Currency)),
		Destination: stripe.String(params.RecipientRef),
		Description: stripe.String(params.Description),
	}
	transferParams.AddMetadata("item_id", params.ItemID.String())
	transferParams.AddMetadata("run_id", params.RunID.String())

	transfer, err := p.client.V1Transfers.Create(ctx, transferParams)
	if err != nil {
		log.Error("failed to create transfer", "error", err)
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	log.Info("transfer created", "transfer_id", transfer.ID)
	status := payment.StatusCompleted
	if transfer.Reversed {
		status = payment.StatusFailed
	}
	return &payment.PayoutResponse{
		ProviderRef: transfer.ID,
		Status:      status,
	}, nil
}

// OnboardCreator creates an Express connected account and a hosted
// onboarding link the creator must complete before payouts can flow.
func (p *Provider) OnboardCreator(
	ctx context.Context,
	params *payment.OnboardParams,
) (*payment.OnboardResponse, error) {
	log := p.logger.With("method", "OnboardCreator", "creator_id", params.CreatorID)

	accountParams := &stripe.AccountCreateParams{
		Type:         stripe.String("express"),
		BusinessType: stripe.String("individual"),
		Email:        stripe.String(params.Email),
		Country:      stripe.String(params.CountryCode),
		Capabilities: &stripe.AccountCreateCapabilitiesParams{
			Transfers: &stripe.AccountCreateCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
		Params: stripe.Params{
			Metadata: map[string]string{
				"creator_id": params.CreatorID.String(),
			},
		},
	}
	if params.BusinessName != "" {
		accountParams.BusinessProfile = &stripe.AccountCreateBusinessProfileParams{
			Name: stripe.String(params.BusinessName),
		}
	}

	account, err := p.client.V1Accounts.Create(ctx, accountParams)
	if err != nil {
		log.Error("failed to create connected account", "error", err)
		return nil, fmt.Errorf("failed to create connected account: %w", err)
	}

	linkParams := &stripe.AccountLinkCreateParams{
		Account:    stripe.String(account.ID),
		RefreshURL: stripe.String(p.cfg.OnboardingRefreshURL),
		ReturnURL:  stripe.String(p.cfg.OnboardingReturnURL),
		Type:       stripe.String("account_onboarding"),
		Collect:    stripe.String("eventually_due"),
	}
	link, err := p.client.V1AccountLinks.Create(ctx, linkParams)
	if err != nil {
		log.Error("failed to create onboarding link",
			"error", err, "account_id", account.ID)
		return nil, fmt.Errorf("failed to create onboarding link: %w", err)
	}

	log.Info("connected account created", "account_id", account.ID)
	return &payment.OnboardResponse{
		AccountRef:  account.ID,
		RedirectURL: link.URL,
		Completed:   false,
	}, nil
}

// HandleWebhook verifies the Stripe signature and dispatches the event to
// the matching handler. Unrecognized event types are acknowledged with an
// empty result so Stripe stops retrying them.
func (p *Provider) HandleWebhook(
	ctx context.Context,
	payload []byte,
	signature string,
) (*payment.WebhookResult, error) {
	log := p.logger.With("method", "HandleWebhook")

	if p.cfg.SigningSecret == "" {
		return nil, fmt.Errorf("webhook signing secret not configured")
	}
	event, err := webhook.ConstructEvent(payload, signature, p.cfg.SigningSecret)
	if err != nil {
		log.Error("webhook signature verification failed", "error", err)
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	log.Info("received webhook event", "type", event.Type, "id", event.ID)

	handler, ok := p.webhookHandlers[string(event.Type)]
	if !ok {
		log.Debug("no handler for event type", "type", event.Type)
		return &payment.WebhookResult{}, nil
	}
	return handler(ctx, event, log)
}

func (p *Provider) handleCheckoutSessionCompleted(
	_ context.Context,
	event stripe.Event,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("error parsing checkout.session.completed: %w", err)
	}

	paymentID, err := uuid.Parse(session.Metadata["payment_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid payment_id in session metadata: %w", err)
	}
	creatorID, _ := uuid.Parse(session.Metadata["creator_id"])
	planID, _ := uuid.Parse(session.Metadata["plan_id"])

	log.Info("checkout session completed",
		"session_id", session.ID, "payment_id", paymentID)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPaymentCompleted,
		ProviderRef: session.ID,
		PaymentID:   paymentID,
		CreatorID:   creatorID,
		PlanID:      planID,
		Amount:      session.AmountTotal,
		Currency:    strings.ToUpper(string(session.Currency)),
	}, nil
}

func (p *Provider) handleCheckoutSessionExpired(
	_ context.Context,
	event stripe.Event,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("error parsing checkout.session.expired: %w", err)
	}

	paymentID, err := uuid.Parse(session.Metadata["payment_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid payment_id in session metadata: %w", err)
	}
	creatorID, _ := uuid.Parse(session.Metadata["creator_id"])

	log.Info("checkout session expired", "session_id", session.ID)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPaymentFailed,
		ProviderRef: session.ID,
		PaymentID:   paymentID,
		CreatorID:   creatorID,
		Reason:      "checkout session expired",
	}, nil
}

func (p *Provider) handlePaymentIntentFailed(
	_ context.Context,
	event stripe.Event,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("error parsing payment_intent.payment_failed: %w", err)
	}

	paymentID, err := uuid.Parse(pi.Metadata["payment_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid payment_id in intent metadata: %w", err)
	}
	creatorID, _ := uuid.Parse(pi.Metadata["creator_id"])

	reason := "payment failed"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		reason = pi.LastPaymentError.Msg
	}

	log.Warn("payment intent failed", "payment_intent_id", pi.ID, "reason", reason)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPaymentFailed,
		ProviderRef: pi.ID,
		PaymentID:   paymentID,
		CreatorID:   creatorID,
		Reason:      reason,
	}, nil
}

func (p *Provider) handleTransferCreated(
	_ context.Context,
	event stripe.Event,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var transfer stripe.Transfer
	if err := json.Unmarshal(event.Data.Raw, &transfer); err != nil {
		return nil, fmt.Errorf("error parsing transfer.created: %w", err)
	}

	itemID, _ := uuid.Parse(transfer.Metadata["item_id"])

	log.Info("transfer created",
		"transfer_id", transfer.ID, "amount", transfer.Amount)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPayoutSent,
		ProviderRef: transfer.ID,
		PaymentID:   itemID,
		Amount:      transfer.Amount,
		Currency:    strings.ToUpper(string(transfer.Currency)),
	}, nil
}

func (p *Provider) handleTransferReversed(
	_ context.Context,
	event stripe.Event,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var transfer stripe.Transfer
	if err := json.Unmarshal(event.Data.Raw, &transfer); err != nil {
		return nil, fmt.Errorf("error parsing transfer.reversed: %w", err)
	}

	itemID, _ := uuid.Parse(transfer.Metadata["item_id"])

	log.Warn("transfer reversed", "transfer_id", transfer.ID)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPayoutFailed,
		ProviderRef: transfer.ID,
		PaymentID:   itemID,
		Reason:      "transfer reversed",
	}, nil
}

func (p *Provider) handleAccountUpdated(
	_ context.Context,
	event stripe.Event,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var account stripe.Account
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		return nil, fmt.Errorf("error parsing account.updated: %w", err)
	}

	if !account.DetailsSubmitted {
		return &payment.WebhookResult{}, nil
	}

	creatorID, err := uuid.Parse(account.Metadata["creator_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid creator_id in account metadata: %w", err)
	}

	log.Info("connected account onboarding complete", "account_id", account.ID)

	return &payment.WebhookResult{
		Kind:        payment.WebhookOnboardingCompleted,
		ProviderRef: account.ID,
		CreatorID:   creatorID,
	}, nil
}

var _ payment.Payment = (*Provider)(nil)
