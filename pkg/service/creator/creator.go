// Package creator implements creator account management and the public
// payment page projection.
package creator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/region"
	"github.com/natepay/natepay/pkg/repository"
	activityrepo "github.com/natepay/natepay/pkg/repository/activity"
	creatorrepo "github.com/natepay/natepay/pkg/repository/creator"
	planrepo "github.com/natepay/natepay/pkg/repository/plan"
	subscriberrepo "github.com/natepay/natepay/pkg/repository/subscriber"
	"github.com/natepay/natepay/pkg/utils"
)

// publicFeedLimit caps the activity entries shown on /p/:handle.
const publicFeedLimit = 10

// Service manages creator accounts.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a creator Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// PublicProfile is the anonymous view of a creator's payment page:
// profile, active plans with display prices, supporter count and the
// latest feed entries.
type PublicProfile struct {
	Handle           string             `json:"handle"`
	DisplayName      string             `json:"display_name"`
	Bio              string             `json:"bio"`
	CountryCode      string             `json:"country_code"`
	OnboardingStatus string             `json:"onboarding_status"`
	Plans            []dto.PlanRead     `json:"plans"`
	SubscriberCount  int64              `json:"subscriber_count"`
	RecentActivity   []dto.ActivityRead `json:"recent_activity"`
}

// Signup registers a new creator account. The handle and email must be
// unused and the country must be supported.
func (s *Service) Signup(
	ctx context.Context,
	handle, email, password, countryCode string,
) (c *dto.CreatorRead, err error) {
	log := s.logger.With("context", "Signup", "handle", handle)

	d, err := creator.New(handle, email, password, countryCode)
	if err != nil {
		log.Warn("invalid signup", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}

		existing, err := repo.GetByHandle(ctx, handle)
		if err != nil {
			return err
		}
		if existing != nil {
			return creator.ErrHandleTaken
		}
		existing, err = repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return creator.ErrEmailTaken
		}

		c, err = repo.Create(ctx, dto.CreatorCreate{
			ID:          d.ID,
			Handle:      d.Handle,
			Email:       d.Email,
			Password:    d.Password,
			CountryCode: d.CountryCode,
		})
		return err
	})
	if err != nil {
		c = nil
		return
	}
	log.Info("creator registered", "creator_id", c.ID, "country", countryCode)
	return
}

// Get returns the creator by ID.
func (s *Service) Get(
	ctx context.Context,
	id uuid.UUID,
) (c *dto.CreatorRead, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		c, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}
		return nil
	})
	if err != nil {
		c = nil
	}
	return
}

// Update changes profile fields of the creator. Password updates are
// hashed before they reach the repository.
func (s *Service) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.CreatorUpdate,
) (c *dto.CreatorRead, err error) {
	log := s.logger.With("context", "Update", "creator_id", id)

	if update.Password != nil {
		hashed, err := utils.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		update.Password = &hashed
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return creator.ErrCreatorNotFound
		}
		if update.Email != nil && *update.Email != existing.Email {
			inUse, err := repo.GetByEmail(ctx, *update.Email)
			if err != nil {
				return err
			}
			if inUse != nil && inUse.ID != id {
				return creator.ErrEmailTaken
			}
		}
		c, err = repo.Update(ctx, id, update)
		return err
	})
	if err != nil {
		c = nil
		return
	}
	log.Info("creator updated")
	return
}

// Delete removes the creator account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With("context", "Delete", "creator_id", id)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		existing, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return creator.ErrCreatorNotFound
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info("creator deleted")
	return nil
}

// PublicProfile assembles the anonymous payment page for a handle:
// active plans (with display prices for cross-border countries), the
// active supporter count and recent feed entries.
func (s *Service) PublicProfile(
	ctx context.Context,
	handle string,
) (p *PublicProfile, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := getCreatorRepo(uow)
		if err != nil {
			return err
		}
		c, err := repo.GetByHandle(ctx, handle)
		if err != nil {
			return err
		}
		if c == nil {
			return creator.ErrCreatorNotFound
		}

		planAny, err := uow.GetRepository((*planrepo.Repository)(nil))
		if err != nil {
			return err
		}
		plans, err := planAny.(planrepo.Repository).ListByCreator(ctx, c.ID, true)
		if err != nil {
			return err
		}
		for i := range plans {
			plans[i].LocalPrice = LocalPriceFor(plans[i].PriceUSDCents, c.CountryCode)
		}

		subAny, err := uow.GetRepository((*subscriberrepo.Repository)(nil))
		if err != nil {
			return err
		}
		count, err := subAny.(subscriberrepo.Repository).CountActiveByCreator(ctx, c.ID)
		if err != nil {
			return err
		}

		actAny, err := uow.GetRepository((*activityrepo.Repository)(nil))
		if err != nil {
			return err
		}
		recent, err := actAny.(activityrepo.Repository).ListByCreator(
			ctx, c.ID, publicFeedLimit, 0)
		if err != nil {
			return err
		}

		p = &PublicProfile{
			Handle:           c.Handle,
			DisplayName:      c.DisplayName,
			Bio:              c.Bio,
			CountryCode:      c.CountryCode,
			OnboardingStatus: c.OnboardingStatus,
			Plans:            plans,
			SubscriberCount:  count,
			RecentActivity:   recent,
		}
		return nil
	})
	if err != nil {
		p = nil
	}
	return
}

// LocalPriceFor projects a canonical USD price into the creator's local
// display currency. Returns nil for native-currency countries.
func LocalPriceFor(priceUSDCents int64, countryCode string) *dto.LocalPrice {
	local := region.UsdToLocalApprox(float64(priceUSDCents)/100, countryCode)
	if local == nil {
		return nil
	}
	return &dto.LocalPrice{
		Amount:   local.Amount,
		Currency: string(local.Currency),
		Symbol:   local.Symbol,
	}
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
