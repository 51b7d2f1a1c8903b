package subscriber

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository/subscriber"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed subscriber repository.
func New(db *gorm.DB) subscriber.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create dto.SubscriberCreate,
) (*dto.SubscriberRead, error) {
	model := &Subscriber{
		ID:          create.ID,
		CreatorID:   create.CreatorID,
		PlanID:      create.PlanID,
		Email:       create.Email,
		Name:        create.Name,
		Status:      create.Status,
		ProviderRef: create.ProviderRef,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapModelToDTO(model), nil
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.SubscriberRead, error) {
	var model Subscriber
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&model), nil
}

func (r *repository) GetByProviderRef(
	ctx context.Context,
	providerRef string,
) (*dto.SubscriberRead, error) {
	var model Subscriber
	if err := r.db.WithContext(ctx).First(
		&model, "provider_ref = ?", providerRef,
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&model), nil
}

func (r *repository) ListByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) ([]dto.SubscriberRead, error) {
	var models []Subscriber
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.SubscriberRead, 0, len(models))
	for i := range models {
		result = append(result, *mapModelToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) CountActiveByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Subscriber{}).
		Where("creator_id = ? AND status = ?", creatorID, "active").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.SubscriberUpdate,
) (*dto.SubscriberRead, error) {
	updates := make(map[string]interface{})
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.ProviderRef != nil {
		updates["provider_ref"] = *update.ProviderRef
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Subscriber{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

func mapModelToDTO(model *Subscriber) *dto.SubscriberRead {
	return &dto.SubscriberRead{
		ID:          model.ID,
		CreatorID:   model.CreatorID,
		PlanID:      model.PlanID,
		Email:       model.Email,
		Name:        model.Name,
		Status:      model.Status,
		ProviderRef: model.ProviderRef,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

var _ subscriber.Repository = (*repository)(nil)
