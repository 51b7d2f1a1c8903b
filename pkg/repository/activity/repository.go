package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
)

// Repository defines persistence operations for the activity feed.
// The feed is append-only; entries are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, create dto.ActivityCreate) (*dto.ActivityRead, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]dto.ActivityRead, error)
}
