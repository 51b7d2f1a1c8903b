// Package onboarding walks creators through payout account setup at
// their provider, with resumable drafts for the bank-detail form.
package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/natepay/natepay/infra/draft"
	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/eventbus"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
	"github.com/natepay/natepay/pkg/repository"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
)

// ErrProviderNotAvailable is returned when the chosen provider does not
// operate in the creator's country.
var ErrProviderNotAvailable = fmt.Errorf("provider not available in country")

// Service manages creator payout onboarding.
type Service struct {
	uow       repository.UnitOfWork
	providers map[region.Provider]providerpay.Payment
	drafts    *draft.Store
	bus       eventbus.Bus
	logger    *slog.Logger
}

// New creates an onboarding Service.
func New(
	uow repository.UnitOfWork,
	providers map[region.Provider]providerpay.Payment,
	drafts *draft.Store,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:       uow,
		providers: providers,
		drafts:    drafts,
		bus:       bus,
		logger:    logger,
	}
}

// StartInput is what a creator submits to begin onboarding.
type StartInput struct {
	Provider     string `json:"provider" validate:"required,oneof=stripe paystack"`
	BusinessName string `json:"business_name" validate:"max=100"`
	// Bank details are required for Paystack; Stripe collects them on
	// its hosted flow.
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name" validate:"max=100"`
}

// StartResult tells the client how onboarding continues.
type StartResult struct {
	Provider string `json:"provider"`
	// RedirectURL, when non-empty, is a hosted flow the creator must
	// complete. Empty means onboarding finished inline.
	RedirectURL string `json:"redirect_url,omitempty"`
	Completed   bool   `json:"completed"`
}

// Start begins onboarding with the chosen provider. Stripe returns a
// hosted account link and completes later via webhook; Paystack
// registers the bank account inline and completes immediately.
func (s *Service) Start(
	ctx context.Context,
	creatorID uuid.UUID,
	input StartInput,
) (res *StartResult, err error) {
	log := s.logger.With(
		"context", "Start", "creator_id", creatorID, "provider", input.Provider)

	prov := region.Provider(input.Provider)
	p, ok := s.providers[prov]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", input.Provider)
	}

	var c *dto.CreatorRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, creatorID)
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
		if !country.Supports(prov) {
			return ErrProviderNotAvailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := p.OnboardCreator(ctx, &providerpay.OnboardParams{
		CreatorID:     creatorID,
		Email:         c.Email,
		CountryCode:   c.CountryCode,
		BusinessName:  input.BusinessName,
		BankCode:      input.BankCode,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	})
	if err != nil {
		log.Error("provider onboarding failed", "error", err)
		return nil, err
	}

	update := dto.CreatorUpdate{}
	status := string(creator.OnboardingPending)
	if resp.Completed {
		status = string(creator.OnboardingComplete)
	}
	update.OnboardingStatus = &status
	switch prov {
	case region.ProviderStripe:
		update.StripeAccountID = &resp.AccountRef
	case region.ProviderPaystack:
		update.PaystackSubCode = &resp.AccountRef
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.Update(ctx, creatorID, update)
		return err
	})
	if err != nil {
		return nil, err
	}

	if resp.Completed {
		s.completeOnboarding(ctx, creatorID, string(prov), resp.AccountRef, log)
	}

	log.Info("onboarding started",
		"account_ref", resp.AccountRef, "completed", resp.Completed)
	return &StartResult{
		Provider:    string(prov),
		RedirectURL: resp.RedirectURL,
		Completed:   resp.Completed,
	}, nil
}

// HandleCompleted settles a provider onboarding webhook: the creator's
// payout account is fully verified and payouts can flow.
func (s *Service) HandleCompleted(
	ctx context.Context,
	result *providerpay.WebhookResult,
) error {
	log := s.logger.With(
		"context", "HandleCompleted", "creator_id", result.CreatorID)

	var prov string
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		c, err := repo.Get(ctx, result.CreatorID)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}
		if c.OnboardingStatus == string(creator.OnboardingComplete) {
			return nil
		}
		prov = string(region.ProviderStripe)
		if c.PaystackSubCode == result.ProviderRef {
			prov = string(region.ProviderPaystack)
		}
		status := string(creator.OnboardingComplete)
		_, err = repo.Update(ctx, result.CreatorID, dto.CreatorUpdate{
			OnboardingStatus: &status,
		})
		return err
	})
	if err != nil {
		return err
	}
	if prov == "" {
		return nil
	}

	s.completeOnboarding(ctx, result.CreatorID, prov, result.ProviderRef, log)
	return nil
}

// SaveDraft stores the creator's partially filled onboarding form so
// they can resume on another device.
func (s *Service) SaveDraft(
	ctx context.Context,
	creatorID uuid.UUID,
	d draft.Draft,
) error {
	d.CreatorID = creatorID
	if err := s.drafts.Save(ctx, d); err != nil {
		s.logger.Error("failed to save onboarding draft",
			"creator_id", creatorID, "error", err)
		return err
	}
	return nil
}

// GetDraft returns the creator's saved draft, or nil when none exists.
func (s *Service) GetDraft(
	ctx context.Context,
	creatorID uuid.UUID,
) (*draft.Draft, error) {
	return s.drafts.Get(ctx, creatorID)
}

// DeleteDraft discards the creator's saved draft.
func (s *Service) DeleteDraft(ctx context.Context, creatorID uuid.UUID) error {
	return s.drafts.Delete(ctx, creatorID)
}

// completeOnboarding emits the completion event and discards any draft.
func (s *Service) completeOnboarding(
	ctx context.Context,
	creatorID uuid.UUID,
	provider, accountRef string,
	log *slog.Logger,
) {
	if err := s.drafts.Delete(ctx, creatorID); err != nil {
		log.Warn("failed to delete onboarding draft", "error", err)
	}
	if emitErr := s.bus.Emit(ctx, &events.OnboardingCompleted{
		ID:         uuid.New(),
		CreatorID:  creatorID,
		Provider:   provider,
		AccountRef: accountRef,
		OccurredAt: time.Now().UTC(),
	}); emitErr != nil {
		log.Error("failed to emit onboarding event", "error", emitErr)
	}
	log.Info("onboarding completed", "provider", provider)
}

func getCreatorRepo(uow repository.UnitOfWork) (creatorrepo.Repository, error) {
	repoAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(creatorrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type")
	}
	return repo, nil
}
