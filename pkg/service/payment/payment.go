// Package payment implements checkout creation, provider routing and
// webhook-driven settlement of payments.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/domain/payment"
	"github.com/natepay/natepay/pkg/domain/subscription"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/eventbus"
	"github.com/natepay/natepay/pkg/money"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
	"github.com/natepay/natepay/pkg/repository"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	paymentrepo "github.com/natepay/natepay/pkg/repository/payment"
	planrepo "github.com/natepay/natepay/pkg/repository/plan"
	subscriberrepo "github.com/natepay/natepay/pkg/repository/subscriber"
)

// Service routes payments to providers and settles them from webhooks.
type Service struct {
	uow       repository.UnitOfWork
	providers map[region.Provider]providerpay.Payment
	bus       eventbus.Bus
	logger    *slog.Logger
}

// New creates a payment Service over the configured providers.
func New(
	uow repository.UnitOfWork,
	providers map[region.Provider]providerpay.Payment,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, providers: providers, bus: bus, logger: logger}
}

// CheckoutInput is a supporter's request to subscribe to a plan.
type CheckoutInput struct {
	PlanID          uuid.UUID `json:"plan_id" validate:"required"`
	SubscriberEmail string    `json:"subscriber_email" validate:"required,email"`
}

// CheckoutResult points the supporter at the provider's hosted page.
type CheckoutResult struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	Provider    string    `json:"provider"`
	RedirectURL string    `json:"redirect_url"`
}

// Checkout creates a pending payment for the plan and returns the hosted
// checkout URL. The provider is chosen from the creator's country: Stripe
// where it operates natively, Paystack for cross-border countries, and
// whichever account the creator onboarded with where both are available.
func (s *Service) Checkout(
	ctx context.Context,
	input CheckoutInput,
) (res *CheckoutResult, err error) {
	log := s.logger.With("context", "Checkout", "plan_id", input.PlanID)

	var (
		pay      *dto.PaymentRead
		plan     *dto.PlanRead
		prov     region.Provider
		charge   int64
		currency money.Code
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		planAny, err := uow.GetRepository((*planrepo.Repository)(nil))
		if err != nil {
			return err
		}
		plan, err = planAny.(planrepo.Repository).Get(ctx, input.PlanID)
		if err != nil {
			return err
		}
		if plan == nil || !plan.Active {
			return subscription.ErrPlanNotFound
		}

		crAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
		if err != nil {
			return err
		}
		c, err := crAny.(creatorrepo.Repository).Get(ctx, plan.CreatorID)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}

		country, ok := region.Get(c.CountryCode)
		if !ok {
			return creator.ErrUnsupportedCountry
		}
		prov, err = chooseProvider(c, country)
		if err != nil {
			return err
		}
		charge, currency, err = chargeAmount(plan.PriceUSDCents, prov, c.CountryCode)
		if err != nil {
			return err
		}

		d, err := payment.New(
			plan.CreatorID, input.SubscriberEmail,
			plan.PriceUSDCents, charge, currency, prov)
		if err != nil {
			return err
		}

		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		pay, err = repo.Create(ctx, dto.PaymentCreate{
			ID:              d.ID,
			CreatorID:       d.CreatorID,
			SubscriberEmail: d.SubscriberEmail,
			AmountUSDCents:  d.AmountUSDCents,
			ChargedAmount:   d.ChargedAmount,
			ChargedCurrency: string(d.ChargedCurrency),
			Provider:        string(d.Provider),
			Status:          string(d.Status),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	p, ok := s.providers[prov]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", prov)
	}
	checkout, err := p.CreateCheckout(ctx, &providerpay.CheckoutParams{
		PaymentID:       pay.ID,
		CreatorID:       pay.CreatorID,
		PlanID:          plan.ID,
		SubscriberEmail: input.SubscriberEmail,
		Amount:          charge,
		Currency:        string(currency),
		Description:     plan.Name,
	})
	if err != nil {
		s.markFailed(ctx, pay.ID, log)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.Update(ctx, pay.ID, dto.PaymentUpdate{
			ProviderRef: &checkout.ProviderRef,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("checkout created",
		"payment_id", pay.ID, "provider", prov, "charge", charge,
		"currency", currency)
	return &CheckoutResult{
		PaymentID:   pay.ID,
		Provider:    string(prov),
		RedirectURL: checkout.RedirectURL,
	}, nil
}

// Get returns a payment owned by the creator.
func (s *Service) Get(
	ctx context.Context,
	creatorID, paymentID uuid.UUID,
) (pay *dto.PaymentRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		pay, err = repo.Get(ctx, paymentID)
		if err != nil {
			return err
		}
		if pay == nil {
			return payment.ErrPaymentNotFound
		}
		if pay.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		return nil
	})
	if err != nil {
		pay = nil
	}
	return
}

// List returns a page of the creator's payments, newest first.
func (s *Service) List(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) (pays []dto.PaymentRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		pays, err = repo.ListByCreator(ctx, creatorID, limit, offset)
		return err
	})
	if err != nil {
		pays = nil
	}
	return
}

// ResolveReturn looks up a payment by its provider reference. The
// checkout return page polls this until the webhook settles the payment.
func (s *Service) ResolveReturn(
	ctx context.Context,
	providerRef string,
) (pay *dto.PaymentRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		pay, err = repo.GetByProviderRef(ctx, providerRef)
		if err != nil {
			return err
		}
		if pay == nil {
			return payment.ErrPaymentNotFound
		}
		return nil
	})
	if err != nil {
		pay = nil
	}
	return
}

// HandleProviderWebhook verifies and normalizes a raw provider webhook,
// applies payment outcomes, and returns the normalized result so callers
// can route payout and onboarding kinds to their owning services.
func (s *Service) HandleProviderWebhook(
	ctx context.Context,
	provider string,
	payload []byte,
	signature string,
) (*providerpay.WebhookResult, error) {
	p, ok := s.providers[region.Provider(provider)]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", provider)
	}
	result, err := p.HandleWebhook(ctx, payload, signature)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case providerpay.WebhookPaymentCompleted:
		if err := s.applyPaymentCompleted(ctx, result); err != nil {
			return nil, err
		}
	case providerpay.WebhookPaymentFailed:
		if err := s.applyPaymentFailed(ctx, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applyPaymentCompleted settles a pending payment and records the
// subscriber. Replayed webhooks are idempotent: an already-completed
// payment is acknowledged without side effects.
func (s *Service) applyPaymentCompleted(
	ctx context.Context,
	result *providerpay.WebhookResult,
) error {
	log := s.logger.With(
		"context", "applyPaymentCompleted", "payment_id", result.PaymentID)

	var (
		pay     *dto.PaymentRead
		settled bool
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		pay, err = repo.Get(ctx, result.PaymentID)
		if err != nil {
			return err
		}
		if pay == nil {
			return payment.ErrPaymentNotFound
		}
		if pay.Status == string(payment.StatusCompleted) {
			log.Info("payment already settled, skipping replay")
			return nil
		}

		completed := string(payment.StatusCompleted)
		update := dto.PaymentUpdate{Status: &completed}
		if result.ProviderRef != "" {
			update.ProviderRef = &result.ProviderRef
		}
		pay, err = repo.Update(ctx, result.PaymentID, update)
		if err != nil {
			return err
		}
		settled = true

		if result.PlanID == uuid.Nil {
			return nil
		}
		subAny, err := uow.GetRepository((*subscriberrepo.Repository)(nil))
		if err != nil {
			return err
		}
		subRepo := subAny.(subscriberrepo.Repository)
		existing, err := subRepo.GetByProviderRef(ctx, result.ProviderRef)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		d, err := subscription.NewSubscriber(
			pay.CreatorID, result.PlanID, pay.SubscriberEmail, "",
			result.ProviderRef)
		if err != nil {
			return err
		}
		_, err = subRepo.Create(ctx, dto.SubscriberCreate{
			ID:          d.ID,
			CreatorID:   d.CreatorID,
			PlanID:      d.PlanID,
			Email:       d.Email,
			Name:        d.Name,
			Status:      string(d.Status),
			ProviderRef: d.ProviderRef,
		})
		return err
	})
	if err != nil {
		return err
	}
	if !settled {
		return nil
	}

	now := time.Now().UTC()
	if emitErr := s.bus.Emit(ctx, &events.PaymentCompleted{
		ID:              uuid.New(),
		CreatorID:       pay.CreatorID,
		SubscriberEmail: pay.SubscriberEmail,
		AmountUSDCents:  pay.AmountUSDCents,
		PaymentRef:      result.ProviderRef,
		OccurredAt:      now,
	}); emitErr != nil {
		log.Error("failed to emit payment event", "error", emitErr)
	}
	if result.PlanID != uuid.Nil {
		if emitErr := s.bus.Emit(ctx, &events.SubscriberAdded{
			ID:              uuid.New(),
			CreatorID:       pay.CreatorID,
			PlanID:          result.PlanID,
			SubscriberEmail: pay.SubscriberEmail,
			OccurredAt:      now,
		}); emitErr != nil {
			log.Error("failed to emit subscriber event", "error", emitErr)
		}
	}

	log.Info("payment settled",
		"charged", result.Amount, "currency", result.Currency)
	return nil
}

func (s *Service) applyPaymentFailed(
	ctx context.Context,
	result *providerpay.WebhookResult,
) error {
	log := s.logger.With(
		"context", "applyPaymentFailed", "payment_id", result.PaymentID)

	var (
		pay     *dto.PaymentRead
		changed bool
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		pay, err = repo.Get(ctx, result.PaymentID)
		if err != nil {
			return err
		}
		if pay == nil {
			return payment.ErrPaymentNotFound
		}
		if pay.Status != string(payment.StatusPending) {
			return nil
		}
		failed := string(payment.StatusFailed)
		pay, err = repo.Update(ctx, result.PaymentID, dto.PaymentUpdate{
			Status: &failed,
		})
		changed = err == nil
		return err
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if emitErr := s.bus.Emit(ctx, &events.PaymentFailed{
		ID:         uuid.New(),
		CreatorID:  pay.CreatorID,
		PaymentRef: result.ProviderRef,
		Reason:     result.Reason,
		OccurredAt: time.Now().UTC(),
	}); emitErr != nil {
		log.Error("failed to emit payment event", "error", emitErr)
	}

	log.Warn("payment failed", "reason", result.Reason)
	return nil
}

// markFailed records a checkout that never reached the provider.
func (s *Service) markFailed(ctx context.Context, id uuid.UUID, log *slog.Logger) {
	failed := string(payment.StatusFailed)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPaymentRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.Update(ctx, id, dto.PaymentUpdate{Status: &failed})
		return err
	})
	if err != nil {
		log.Error("failed to mark payment failed", "payment_id", id, "error", err)
	}
}

// chooseProvider picks the provider for the creator's country. When both
// operate there, the creator's onboarded account decides.
func chooseProvider(
	c *dto.CreatorRead,
	country region.Country,
) (region.Provider, error) {
	stripe := country.Supports(region.ProviderStripe)
	paystack := country.Supports(region.ProviderPaystack)
	switch {
	case stripe && paystack:
		if c.StripeAccountID != "" && c.PaystackSubCode == "" {
			return region.ProviderStripe, nil
		}
		return region.ProviderPaystack, nil
	case stripe:
		return region.ProviderStripe, nil
	case paystack:
		return region.ProviderPaystack, nil
	default:
		return "", payment.ErrNoProviderForCountry
	}
}

// chargeAmount computes what the provider should charge. Stripe charges
// the canonical USD cents; Paystack charges the rounded local display
// amount in its subunit.
func chargeAmount(
	priceUSDCents int64,
	prov region.Provider,
	countryCode string,
) (int64, money.Code, error) {
	if prov == region.ProviderStripe {
		return priceUSDCents, money.USD, nil
	}
	local := region.UsdToLocalApprox(float64(priceUSDCents)/100, countryCode)
	if local == nil {
		return 0, "", fmt.Errorf(
			"no local charge amount for country %q", countryCode)
	}
	return int64(local.Amount*100 + 0.5), local.Currency, nil
}

func getPaymentRepo(uow repository.UnitOfWork) (paymentrepo.Repository, error) {
	repoAny, err := uow.GetRepository((*paymentrepo.Repository)(nil))
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(paymentrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type")
	}
	return repo, nil
}
