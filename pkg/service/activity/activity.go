// Package activity materializes domain events into per-creator feeds.
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/domain/activity"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/eventbus"
	"github.com/natepay/natepay/pkg/repository"
	activityrepo "github.com/natepay/natepay/pkg/repository/activity"
)

// defaultFeedLimit caps a feed page when the caller asks for none.
const defaultFeedLimit = 20

// maxFeedLimit caps a feed page regardless of what the caller asks for.
const maxFeedLimit = 100

// Service builds and serves creator activity feeds.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an activity Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// RegisterHandlers subscribes the feed projections to the event bus.
func (s *Service) RegisterHandlers(bus eventbus.Bus) {
	bus.Register(events.PaymentCompleted{}.Type(), s.onPaymentCompleted)
	bus.Register(events.SubscriberAdded{}.Type(), s.onSubscriberAdded)
	bus.Register(events.SubscriptionCanceled{}.Type(), s.onSubscriptionCanceled)
	bus.Register(events.PayoutSent{}.Type(), s.onPayoutSent)
	bus.Register(events.PayrollRunCompleted{}.Type(), s.onPayrollRunCompleted)
}

// ListFeed returns a page of the creator's feed, newest first.
func (s *Service) ListFeed(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) (entries []dto.ActivityRead, err error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getActivityRepo(uow)
		if err != nil {
			return err
		}
		entries, err = repo.ListByCreator(ctx, creatorID, limit, offset)
		return err
	})
	if err != nil {
		entries = nil
	}
	return
}

func (s *Service) onPaymentCompleted(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.PaymentCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	return s.append(ctx, activity.NewEntry(
		evt.CreatorID, activity.KindPaymentReceived,
		evt.SubscriberEmail, evt.AmountUSDCents))
}

func (s *Service) onSubscriberAdded(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.SubscriberAdded)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	actor := evt.SubscriberName
	if actor == "" {
		actor = evt.SubscriberEmail
	}
	return s.append(ctx, activity.NewEntry(
		evt.CreatorID, activity.KindNewSubscriber, actor, 0))
}

func (s *Service) onSubscriptionCanceled(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.SubscriptionCanceled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	return s.append(ctx, activity.NewEntry(
		evt.CreatorID, activity.KindSubscriptionCanceled, evt.SubscriberEmail, 0))
}

func (s *Service) onPayoutSent(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.PayoutSent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	return s.append(ctx, activity.NewEntry(
		evt.CreatorID, activity.KindPayoutSent, evt.MemberName, evt.AmountUSDCents))
}

func (s *Service) onPayrollRunCompleted(ctx context.Context, e events.Event) error {
	evt, ok := e.(*events.PayrollRunCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	return s.append(ctx, activity.NewEntry(
		evt.CreatorID, activity.KindPayrollRun, "", evt.TotalUSDCents))
}

func (s *Service) append(ctx context.Context, entry *activity.Entry) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getActivityRepo(uow)
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, dto.ActivityCreate{
			ID:             entry.ID,
			CreatorID:      entry.CreatorID,
			Kind:           string(entry.Kind),
			Actor:          entry.Actor,
			AmountUSDCents: entry.AmountUSDCents,
			CreatedAt:      entry.CreatedAt,
		})
		return err
	})
	if err != nil {
		s.logger.Error("failed to append feed entry",
			"creator_id", entry.CreatorID, "kind", entry.Kind, "error", err)
	}
	return err
}

func getActivityRepo(uow repository.UnitOfWork) (activityrepo.Repository, error) {
	repoAny, err := uow.GetRepository((*activityrepo.Repository)(nil))
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(activityrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type")
	}
	return repo, nil
}
