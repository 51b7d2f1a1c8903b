package creator

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository/creator"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed creator repository.
func New(db *gorm.DB) creator.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create dto.CreatorCreate,
) (*dto.CreatorRead, error) {
	model := &Creator{
		ID:               create.ID,
		Handle:           create.Handle,
		Email:            create.Email,
		Password:         create.Password,
		CountryCode:      create.CountryCode,
		OnboardingStatus: "none",
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapModelToDTO(model), nil
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.CreatorRead, error) {
	var model Creator
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&model), nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*dto.CreatorRead, error) {
	var model Creator
	if err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&model), nil
}

func (r *repository) GetByHandle(
	ctx context.Context,
	handle string,
) (*dto.CreatorRead, error) {
	var model Creator
	if err := r.db.WithContext(ctx).First(&model, "handle = ?", handle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDTO(&model), nil
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.CreatorUpdate,
) (*dto.CreatorRead, error) {
	updates := make(map[string]interface{})
	if update.DisplayName != nil {
		updates["display_name"] = *update.DisplayName
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Password != nil {
		updates["password"] = *update.Password
	}
	if update.StripeAccountID != nil {
		updates["stripe_account_id"] = *update.StripeAccountID
	}
	if update.PaystackSubCode != nil {
		updates["paystack_sub_code"] = *update.PaystackSubCode
	}
	if update.OnboardingStatus != nil {
		updates["onboarding_status"] = *update.OnboardingStatus
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Creator{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(
	ctx context.Context,
	id uuid.UUID,
) error {
	return r.db.WithContext(ctx).Delete(&Creator{}, "id = ?", id).Error
}

func mapModelToDTO(model *Creator) *dto.CreatorRead {
	return &dto.CreatorRead{
		ID:               model.ID,
		Handle:           model.Handle,
		Email:            model.Email,
		HashedPassword:   model.Password,
		DisplayName:      model.DisplayName,
		Bio:              model.Bio,
		CountryCode:      model.CountryCode,
		StripeAccountID:  model.StripeAccountID,
		PaystackSubCode:  model.PaystackSubCode,
		OnboardingStatus: model.OnboardingStatus,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

var _ creator.Repository = (*repository)(nil)
