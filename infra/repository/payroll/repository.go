package payroll

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/repository/payroll"
)

type repository struct {
	db *gorm.DB
}

// New returns a gorm-backed payroll repository.
func New(db *gorm.DB) payroll.Repository {
	return &repository{db: db}
}

func (r *repository) CreateMember(
	ctx context.Context,
	create dto.MemberCreate,
) (*dto.MemberRead, error) {
	model := &Member{
		ID:             create.ID,
		CreatorID:      create.CreatorID,
		Name:           create.Name,
		Email:          create.Email,
		SalaryUSDCents: create.SalaryUSDCents,
		PayoutRef:      create.PayoutRef,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapMemberToDTO(model), nil
}

func (r *repository) GetMember(
	ctx context.Context,
	id uuid.UUID,
) (*dto.MemberRead, error) {
	var model Member
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapMemberToDTO(&model), nil
}

func (r *repository) ListMembersByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
) ([]dto.MemberRead, error) {
	var models []Member
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.MemberRead, 0, len(models))
	for i := range models {
		result = append(result, *mapMemberToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) UpdateMember(
	ctx context.Context,
	id uuid.UUID,
	update dto.MemberUpdate,
) (*dto.MemberRead, error) {
	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.SalaryUSDCents != nil {
		updates["salary_usd_cents"] = *update.SalaryUSDCents
	}
	if update.PayoutRef != nil {
		updates["payout_ref"] = *update.PayoutRef
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Member{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetMember(ctx, id)
}

func (r *repository) DeleteMember(
	ctx context.Context,
	id uuid.UUID,
) error {
	return r.db.WithContext(ctx).Delete(&Member{}, "id = ?", id).Error
}

func (r *repository) CreateRun(
	ctx context.Context,
	create dto.RunCreate,
) (*dto.RunRead, error) {
	model := &Run{
		ID:            create.ID,
		CreatorID:     create.CreatorID,
		TotalUSDCents: create.TotalUSDCents,
		Status:        create.Status,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return mapRunToDTO(model), nil
}

func (r *repository) GetRun(
	ctx context.Context,
	id uuid.UUID,
) (*dto.RunRead, error) {
	var model Run
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapRunToDTO(&model), nil
}

func (r *repository) GetExecutingRun(
	ctx context.Context,
	creatorID uuid.UUID,
) (*dto.RunRead, error) {
	var model Run
	if err := r.db.WithContext(ctx).First(
		&model, "creator_id = ? AND status = ?", creatorID, "executing",
	).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapRunToDTO(&model), nil
}

func (r *repository) ListRunsByCreator(
	ctx context.Context,
	creatorID uuid.UUID,
	limit, offset int,
) ([]dto.RunRead, error) {
	var models []Run
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.RunRead, 0, len(models))
	for i := range models {
		result = append(result, *mapRunToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) UpdateRun(
	ctx context.Context,
	id uuid.UUID,
	update dto.RunUpdate,
) (*dto.RunRead, error) {
	updates := make(map[string]interface{})
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Run{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetRun(ctx, id)
}

func (r *repository) CreateItems(
	ctx context.Context,
	creates []dto.RunItemCreate,
) ([]dto.RunItemRead, error) {
	models := make([]Item, 0, len(creates))
	for _, c := range creates {
		models = append(models, Item{
			ID:             c.ID,
			RunID:          c.RunID,
			MemberID:       c.MemberID,
			AmountUSDCents: c.AmountUSDCents,
			Status:         c.Status,
		})
	}
	if len(models) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.RunItemRead, 0, len(models))
	for i := range models {
		result = append(result, *mapItemToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) ListItemsByRun(
	ctx context.Context,
	runID uuid.UUID,
) ([]dto.RunItemRead, error) {
	var models []Item
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("created_at asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]dto.RunItemRead, 0, len(models))
	for i := range models {
		result = append(result, *mapItemToDTO(&models[i]))
	}
	return result, nil
}

func (r *repository) UpdateItem(
	ctx context.Context,
	id uuid.UUID,
	update dto.RunItemUpdate,
) (*dto.RunItemRead, error) {
	updates := make(map[string]interface{})
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.ProviderRef != nil {
		updates["provider_ref"] = *update.ProviderRef
	}
	if update.FailureReason != nil {
		updates["failure_reason"] = *update.FailureReason
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&Item{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	var model Item
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapItemToDTO(&model), nil
}

func mapMemberToDTO(model *Member) *dto.MemberRead {
	return &dto.MemberRead{
		ID:             model.ID,
		CreatorID:      model.CreatorID,
		Name:           model.Name,
		Email:          model.Email,
		SalaryUSDCents: model.SalaryUSDCents,
		PayoutRef:      model.PayoutRef,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func mapRunToDTO(model *Run) *dto.RunRead {
	return &dto.RunRead{
		ID:            model.ID,
		CreatorID:     model.CreatorID,
		TotalUSDCents: model.TotalUSDCents,
		Status:        model.Status,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func mapItemToDTO(model *Item) *dto.RunItemRead {
	return &dto.RunItemRead{
		ID:             model.ID,
		RunID:          model.RunID,
		MemberID:       model.MemberID,
		AmountUSDCents: model.AmountUSDCents,
		Status:         model.Status,
		ProviderRef:    model.ProviderRef,
		FailureReason:  model.FailureReason,
	}
}

var _ payroll.Repository = (*repository)(nil)
