package plan

import (
	"context"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
)

// Repository defines persistence operations for subscription plans.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, create dto.PlanCreate) (*dto.PlanRead, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PlanRead, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]dto.PlanRead, error)
	Update(ctx context.Context, id uuid.UUID, update dto.PlanUpdate) (*dto.PlanRead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
