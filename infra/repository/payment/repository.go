package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository/payment"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed payment repository.
func New(db *gorm.DB) payment.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create dto.PaymentCreate,
) (*dto.PaymentRead, error) {
	model := &Payment{
		ID:              create.ID,
		CreatorID:       create.CreatorID,
		SubscriberEmail: create.SubscriberEmail,
		AmountUSDCents:  create.AmountUSDCents,
		ChargedAmount:   create.ChargedAmount,
		ChargedCurrency: create.ChargedCurrency,
		Provider:        create.Provider,
		Status:          create.Status,
		ProviderRef:     create.ProviderRef,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapModelToDTO(model), nil
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.PaymentRead, error) {
	var model Payment
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
) (*dto.PaymentRead, error) {
	var model Payment
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
) ([]dto.PaymentRead, error) {
	var models []Payment
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.PaymentRead, 0, len(models))
	for i := range models {
		result = append(result, *mapModelToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.PaymentUpdate,
) (*dto.PaymentRead, error) {
	updates := make(map[string]interface{})
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.ProviderRef != nil {
		updates["provider_ref"] = *update.ProviderRef
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Payment{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

func mapModelToDTO(model *Payment) *dto.PaymentRead {
	return &dto.PaymentRead{
		ID:              model.ID,
		CreatorID:       model.CreatorID,
		SubscriberEmail: model.SubscriberEmail,
		AmountUSDCents:  model.AmountUSDCents,
		ChargedAmount:   model.ChargedAmount,
		ChargedCurrency: model.ChargedCurrency,
		Provider:        model.Provider,
		Status:          model.Status,
		ProviderRef:     model.ProviderRef,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

var _ payment.Repository = (*repository)(nil)
