package subscriber

import (
	"context"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
)

// Repository defines persistence operations for subscribers.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, create dto.SubscriberCreate) (*dto.SubscriberRead, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SubscriberRead, error)
	GetByProviderRef(ctx context.Context, providerRef string) (*dto.SubscriberRead, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]dto.SubscriberRead, error)
	CountActiveByCreator(ctx context.Context, creatorID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, update dto.SubscriberUpdate) (*dto.SubscriberRead, error)
}
