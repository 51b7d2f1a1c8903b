package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
)

// Provider implements payment.Payment using the Paystack API.
type Provider struct {
	client      *Client
	secretKey   string
	callbackURL string
	logger      *slog.Logger
}

// New creates a Paystack-backed payment provider.
func New(cfg *config.Paystack, logger *slog.Logger) *Provider {
	log := logger.With("provider", "paystack")
	return &Provider{
		client:      NewClient(cfg, log),
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
		logger:      log,
	}
}

// CreateCheckout initializes a Paystack transaction and returns the
// hosted authorization URL. Amount is already in the local subunit.
func (p *Provider) CreateCheckout(
	ctx context.Context,
	params *payment.CheckoutParams,
) (*payment.CheckoutResponse, error) {
	log := p.logger.With(
		"method", "CreateCheckout",
		"payment_id", params.PaymentID,
		"creator_id", params.CreatorID,
	)

	data, err := p.client.InitializeTransaction(ctx, &InitializeTransactionRequest{
		Email:       params.SubscriberEmail,
		Amount:      params.Amount,
		Currency:    params.Currency,
		Reference:   "np_" + params.PaymentID.String(),
		CallbackURL: p.callbackURL,
		Metadata: map[string]string{
			"payment_id": params.PaymentID.String(),
			"creator_id": params.CreatorID.String(),
			"plan_id":    params.PlanID.String(),
		},
	})
	if err != nil {
		log.Error("failed to initialize transaction", "error", err)
		return nil, fmt.Errorf("failed to initialize transaction: %w", err)
	}

	log.Info("transaction initialized", "reference", data.Reference)
	return &payment.CheckoutResponse{
		ProviderRef: data.Reference,
		RedirectURL: data.AuthorizationURL,
		Status:      payment.StatusPending,
	}, nil
}

// InitiatePayout transfers the local amount to a recipient code.
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
		return nil, fmt.Errorf("paystack payout requires a transfer recipient")
	}

	data, err := p.client.Transfer(ctx, &TransferRequest{
		Source:    "balance",
		Amount:    params.Amount,
		Currency:  params.Currency,
		Recipient: params.RecipientRef,
		Reason:    params.Description,
		Reference: "np_item_" + params.ItemID.String(),
	})
	if err != nil {
		log.Error("failed to initiate transfer", "error", err)
		return nil, fmt.Errorf("failed to initiate transfer: %w", err)
	}

	log.Info("transfer initiated",
		"transfer_code", data.TransferCode, "status", data.Status)

	status := payment.StatusPending
	switch data.Status {
	case "success":
		status = payment.StatusCompleted
	case "failed", "reversed":
		status = payment.StatusFailed
	}
	return &payment.PayoutResponse{
		ProviderRef: data.TransferCode,
		Status:      status,
	}, nil
}

// OnboardCreator registers the creator's bank account as a transfer
// recipient. Paystack has no hosted onboarding flow, so this completes
// inline when the bank details resolve.
func (p *Provider) OnboardCreator(
	ctx context.Context,
	params *payment.OnboardParams,
) (*payment.OnboardResponse, error) {
	log := p.logger.With("method", "OnboardCreator", "creator_id", params.CreatorID)

	country, ok := region.Get(params.CountryCode)
	if !ok {
		return nil, fmt.Errorf("unsupported country %q", params.CountryCode)
	}
	if params.BankCode == "" || params.AccountNumber == "" {
		return nil, fmt.Errorf("paystack onboarding requires bank details")
	}

	name := params.AccountName
	if name == "" {
		name = params.BusinessName
	}

	data, err := p.client.CreateRecipient(ctx, &CreateRecipientRequest{
		Type:          "nuban",
		Name:          name,
		AccountNumber: params.AccountNumber,
		BankCode:      params.BankCode,
		Currency:      string(country.Currency),
	})
	if err != nil {
		log.Error("failed to create transfer recipient", "error", err)
		return nil, fmt.Errorf("failed to create transfer recipient: %w", err)
	}

	log.Info("transfer recipient created", "recipient_code", data.RecipientCode)
	return &payment.OnboardResponse{
		AccountRef: data.RecipientCode,
		Completed:  data.Active,
	}, nil
}

// webhookEvent is the envelope Paystack posts to webhook endpoints.
type webhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type chargeEventData struct {
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Metadata  map[string]string `json:"metadata"`
}

type transferEventData struct {
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	Reason       string `json:"reason"`
}

// HandleWebhook verifies the x-paystack-signature header (HMAC-SHA512 of
// the raw body with the secret key) and normalizes the event.
func (p *Provider) HandleWebhook(
	_ context.Context,
	payload []byte,
	signature string,
) (*payment.WebhookResult, error) {
	log := p.logger.With("method", "HandleWebhook")

	if !p.verifySignature(payload, signature) {
		log.Error("webhook signature verification failed")
		return nil, fmt.Errorf("webhook signature verification failed")
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("error parsing webhook event: %w", err)
	}

	log.Info("received webhook event", "event", event.Event)

	switch event.Event {
	case "charge.success":
		return p.handleChargeSuccess(event.Data, log)
	case "charge.failed":
		return p.handleChargeFailed(event.Data, log)
	case "transfer.success":
		return p.handleTransfer(event.Data, payment.WebhookPayoutSent, log)
	case "transfer.failed", "transfer.reversed":
		return p.handleTransfer(event.Data, payment.WebhookPayoutFailed, log)
	default:
		log.Debug("no handler for event", "event", event.Event)
		return &payment.WebhookResult{}, nil
	}
}

func (p *Provider) verifySignature(payload []byte, signature string) bool {
	if p.secretKey == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (p *Provider) handleChargeSuccess(
	raw json.RawMessage,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var data chargeEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing charge data: %w", err)
	}

	paymentID, err := uuid.Parse(data.Metadata["payment_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid payment_id in charge metadata: %w", err)
	}
	creatorID, _ := uuid.Parse(data.Metadata["creator_id"])
	planID, _ := uuid.Parse(data.Metadata["plan_id"])

	log.Info("charge succeeded", "reference", data.Reference, "amount", data.Amount)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPaymentCompleted,
		ProviderRef: data.Reference,
		PaymentID:   paymentID,
		CreatorID:   creatorID,
		PlanID:      planID,
		Amount:      data.Amount,
		Currency:    strings.ToUpper(data.Currency),
	}, nil
}

func (p *Provider) handleChargeFailed(
	raw json.RawMessage,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var data chargeEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing charge data: %w", err)
	}

	paymentID, err := uuid.Parse(data.Metadata["payment_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid payment_id in charge metadata: %w", err)
	}
	creatorID, _ := uuid.Parse(data.Metadata["creator_id"])

	log.Warn("charge failed", "reference", data.Reference)

	return &payment.WebhookResult{
		Kind:        payment.WebhookPaymentFailed,
		ProviderRef: data.Reference,
		PaymentID:   paymentID,
		CreatorID:   creatorID,
		Reason:      "charge " + data.Status,
	}, nil
}

func (p *Provider) handleTransfer(
	raw json.RawMessage,
	kind string,
	log *slog.Logger,
) (*payment.WebhookResult, error) {
	var data transferEventData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("error parsing transfer data: %w", err)
	}

	itemID, err := uuid.Parse(strings.TrimPrefix(data.Reference, "np_item_"))
	if err != nil {
		// Not one of our payout references. Acknowledge so Paystack
		// stops retrying; there is nothing for us to apply.
		log.Warn("ignoring transfer with unrecognized reference",
			"reference", data.Reference, "transfer_code", data.TransferCode)
		return &payment.WebhookResult{ProviderRef: data.TransferCode}, nil
	}

	log.Info("transfer update",
		"transfer_code", data.TransferCode, "status", data.Status)

	result := &payment.WebhookResult{
		Kind:        kind,
		ProviderRef: data.TransferCode,
		PaymentID:   itemID,
		Amount:      data.Amount,
		Currency:    strings.ToUpper(data.Currency),
	}
	if kind == payment.WebhookPayoutFailed {
		result.Reason = data.Reason
		if result.Reason == "" {
			result.Reason = "transfer " + data.Status
		}
	}
	return result, nil
}

var _ payment.Payment = (*Provider)(nil)
