package plan

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository/plan"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed plan repository.
func New(db *gorm.DB) plan.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create dto.PlanCreate,
) (*dto.PlanRead, error) {
	model := &Plan{
		ID:            create.ID,
		CreatorID:     create.CreatorID,
		Name:          create.Name,
		PriceUSDCents: create.PriceUSDCents,
		Interval:      create.Interval,
		Active:        true,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapModelToDTO(model), nil
}

func (r *repository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*dto.PlanRead, error) {
	var model Plan
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
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
	activeOnly bool,
) ([]dto.PlanRead, error) {
	query := r.db.WithContext(ctx).Where("creator_id = ?", creatorID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var models []Plan
	if err := query.Order("created_at asc").Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.PlanRead, 0, len(models))
	for i := range models {
		result = append(result, *mapModelToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.PlanUpdate,
) (*dto.PlanRead, error) {
	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.PriceUSDCents != nil {
		updates["price_usd_cents"] = *update.PriceUSDCents
	}
	if update.Active != nil {
		updates["active"] = *update.Active
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Plan{}).
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
	return r.db.WithContext(ctx).Delete(&Plan{}, "id = ?", id).Error
}

func mapModelToDTO(model *Plan) *dto.PlanRead {
	return &dto.PlanRead{
		ID:            model.ID,
		CreatorID:     model.CreatorID,
		Name:          model.Name,
		PriceUSDCents: model.PriceUSDCents,
		Interval:      model.Interval,
		Active:        model.Active,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

var _ plan.Repository = (*repository)(nil)
