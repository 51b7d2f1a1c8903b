package creator

import (
	"context"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
)

// Repository defines persistence operations for creator accounts.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, create dto.CreatorCreate) (*dto.CreatorRead, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CreatorRead, error)
	GetByEmail(ctx context.Context, email string) (*dto.CreatorRead, error)
	GetByHandle(ctx context.Context, handle string) (*dto.CreatorRead, error)
	Update(ctx context.Context, id uuid.UUID, update dto.CreatorUpdate) (*dto.CreatorRead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
