// Package subscription manages plans and subscribers on a creator's page.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/domain/subscription"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/eventbus"
	"github.com/natepay/natepay/pkg/region"
	"github.com/natepay/natepay/pkg/repository"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	planrepo "github.com/natepay/natepay/pkg/repository/plan"
	subscriberrepo "github.com/natepay/natepay/pkg/repository/subscriber"
	creatorsvc "github.com/natepay/natepay/pkg/service/creator"
)

// Service manages subscription plans and subscribers.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
}

// New creates a subscription Service.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, bus: bus, logger: logger}
}

// PlanInput is what a creator submits when creating a plan. Exactly one
// of PriceUSDCents or LocalAmount must be set: cross-border creators may
// type a price in their local currency, which is converted once to the
// canonical USD amount and then discarded.
type PlanInput struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Interval      string   `json:"interval" validate:"required,oneof=monthly yearly"`
	PriceUSDCents int64    `json:"price_usd_cents" validate:"omitempty,gt=0"`
	LocalAmount   *float64 `json:"local_amount,omitempty" validate:"omitempty,gt=0"`
}

// CreatePlan creates a plan for the creator. A local-currency amount is
// converted to USD exactly once here; only the USD price is persisted.
func (s *Service) CreatePlan(
	ctx context.Context,
	creatorID uuid.UUID,
	input PlanInput,
) (p *dto.PlanRead, err error) {
	log := s.logger.With("context", "CreatePlan", "creator_id", creatorID)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		crAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
		if err != nil {
			return err
		}
		c, err := crAny.(creatorrepo.Repository).Get(ctx, creatorID)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}

		priceUSDCents := input.PriceUSDCents
		if input.LocalAmount != nil {
			usd := region.LocalToUsdExact(*input.LocalAmount, c.CountryCode)
			if usd == nil {
				return fmt.Errorf("local amount not accepted for country %q",
					c.CountryCode)
			}
			priceUSDCents = int64(*usd*100 + 0.5)
		}

		d, err := subscription.NewPlan(
			creatorID, input.Name, priceUSDCents,
			subscription.Interval(input.Interval))
		if err != nil {
			return err
		}

		repo, err := getPlanRepo(uow)
		if err != nil {
			return err
		}
		p, err = repo.Create(ctx, dto.PlanCreate{
			ID:            d.ID,
			CreatorID:     d.CreatorID,
			Name:          d.Name,
			PriceUSDCents: d.PriceUSDCents,
			Interval:      string(d.Interval),
		})
		if err != nil {
			return err
		}
		p.LocalPrice = creatorsvc.LocalPriceFor(p.PriceUSDCents, c.CountryCode)
		return nil
	})
	if err != nil {
		p = nil
		return
	}
	log.Info("plan created", "plan_id", p.ID, "price_usd_cents", p.PriceUSDCents)
	return
}

// GetPlan returns a plan by ID with its display price projection.
func (s *Service) GetPlan(
	ctx context.Context,
	id uuid.UUID,
) (p *dto.PlanRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPlanRepo(uow)
		if err != nil {
			return err
		}
		p, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return subscription.ErrPlanNotFound
		}
		return s.attachLocalPrice(ctx, uow, p)
	})
	if err != nil {
		p = nil
	}
	return
}

// ListPlans returns the creator's plans, each with its display price.
func (s *Service) ListPlans(
	ctx context.Context,
	creatorID uuid.UUID,
	activeOnly bool,
) (plans []dto.PlanRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		crAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
		if err != nil {
			return err
		}
		c, err := crAny.(creatorrepo.Repository).Get(ctx, creatorID)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}

		repo, err := getPlanRepo(uow)
		if err != nil {
			return err
		}
		plans, err = repo.ListByCreator(ctx, creatorID, activeOnly)
		if err != nil {
			return err
		}
		for i := range plans {
			plans[i].LocalPrice = creatorsvc.LocalPriceFor(
				plans[i].PriceUSDCents, c.CountryCode)
		}
		return nil
	})
	if err != nil {
		plans = nil
	}
	return
}

// UpdatePlan changes a plan owned by the creator. Price changes go
// through the same canonical-USD validation as creation.
func (s *Service) UpdatePlan(
	ctx context.Context,
	creatorID, planID uuid.UUID,
	update dto.PlanUpdate,
) (p *dto.PlanRead, err error) {
	log := s.logger.With("context", "UpdatePlan", "plan_id", planID)

	if update.PriceUSDCents != nil && *update.PriceUSDCents <= 0 {
		return nil, subscription.ErrPriceMustBePositive
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPlanRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.Get(ctx, planID)
		if err != nil {
			return err
		}
		if existing == nil {
			return subscription.ErrPlanNotFound
		}
		if existing.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		p, err = repo.Update(ctx, planID, update)
		if err != nil {
			return err
		}
		return s.attachLocalPrice(ctx, uow, p)
	})
	if err != nil {
		p = nil
		return
	}
	log.Info("plan updated")
	return
}

// DeletePlan removes a plan owned by the creator. Existing subscribers
// keep their subscriptions; the plan just stops being offered.
func (s *Service) DeletePlan(
	ctx context.Context,
	creatorID, planID uuid.UUID,
) error {
	log := s.logger.With("context", "DeletePlan", "plan_id", planID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getPlanRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.Get(ctx, planID)
		if err != nil {
			return err
		}
		if existing == nil {
			return subscription.ErrPlanNotFound
		}
		if existing.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		return repo.Delete(ctx, planID)
	})
	if err != nil {
		return err
	}
	log.Info("plan deleted")
	return nil
}

// ListSubscribers returns a page of the creator's subscribers.
func (s *Service) ListSubscribers(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) (subs []dto.SubscriberRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getSubscriberRepo(uow)
		if err != nil {
			return err
		}
		subs, err = repo.ListByCreator(ctx, creatorID, limit, offset)
		return err
	})
	if err != nil {
		subs = nil
	}
	return
}

// CancelSubscription marks a subscriber as canceled and emits the
// cancellation event for the creator's feed.
func (s *Service) CancelSubscription(
	ctx context.Context,
	creatorID, subscriberID uuid.UUID,
) (sub *dto.SubscriberRead, err error) {
	log := s.logger.With(
		"context", "CancelSubscription", "subscriber_id", subscriberID)

	var changed bool
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getSubscriberRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.Get(ctx, subscriberID)
		if err != nil {
			return err
		}
		if existing == nil {
			return subscription.ErrSubscriberNotFound
		}
		if existing.CreatorID != creatorID {
			return creator.ErrCreatorUnauthorized
		}
		if existing.Status == string(subscription.SubscriberCanceled) {
			sub = existing
			return nil
		}
		canceled := string(subscription.SubscriberCanceled)
		sub, err = repo.Update(ctx, subscriberID, dto.SubscriberUpdate{
			Status: &canceled,
		})
		changed = err == nil
		return err
	})
	if err != nil {
		sub = nil
		return
	}
	if !changed {
		return
	}

	if emitErr := s.bus.Emit(ctx, &events.SubscriptionCanceled{
		ID:              uuid.New(),
		CreatorID:       sub.CreatorID,
		SubscriberEmail: sub.Email,
		OccurredAt:      time.Now().UTC(),
	}); emitErr != nil {
		log.Error("failed to emit cancellation event", "error", emitErr)
	}

	log.Info("subscription canceled")
	return
}

func (s *Service) attachLocalPrice(
	ctx context.Context,
	uow repository.UnitOfWork,
	p *dto.PlanRead,
) error {
	crAny, err := uow.GetRepository((*creatorrepo.Repository)(nil))
	if err != nil {
		return err
	}
	c, err := crAny.(creatorrepo.Repository).Get(ctx, p.CreatorID)
	if err != nil {
		return err
	}
	if c != nil {
		p.LocalPrice = creatorsvc.LocalPriceFor(p.PriceUSDCents, c.CountryCode)
	}
	return nil
}

func getPlanRepo(uow repository.UnitOfWork) (planrepo.Repository, error) {
	repoAny, err := uow.GetRepository((*planrepo.Repository)(nil))
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(planrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type")
	}
	return repo, nil
}

func getSubscriberRepo(uow repository.UnitOfWork) (subscriberrepo.Repository, error) {
	repoAny, err := uow.GetRepository((*subscriberrepo.Repository)(nil))
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(subscriberrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type")
	}
	return repo, nil
}
