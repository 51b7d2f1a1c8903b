package activity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository/activity"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed activity feed repository.
func New(db *gorm.DB) activity.Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	create dto.ActivityCreate,
) (*dto.ActivityRead, error) {
	model := &Entry{
		ID:             create.ID,
		CreatorID:      create.CreatorID,
		Kind:           create.Kind,
		Actor:          create.Actor,
		AmountUSDCents: create.AmountUSDCents,
		CreatedAt:      create.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapModelToDTO(model), nil
}

func (r *repository) ListByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) ([]dto.ActivityRead, error) {
	var models []Entry
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.ActivityRead, 0, len(models))
	for i := range models {
		result = append(result, *mapModelToDTO(&models[i]))
	}
	return result, nil
}

func mapModelToDTO(model *Entry) *dto.ActivityRead {
	return &dto.ActivityRead{
		ID:             model.ID,
		CreatorID:      model.CreatorID,
		Kind:           model.Kind,
		Actor:          model.Actor,
		AmountUSDCents: model.AmountUSDCents,
		CreatedAt:      model.CreatedAt,
	}
}

var _ activity.Repository = (*repository)(nil)
