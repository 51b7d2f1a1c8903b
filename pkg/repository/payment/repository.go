package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
)

// Repository defines persistence operations for payment records.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	Create(ctx context.Context, create dto.PaymentCreate) (*dto.PaymentRead, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PaymentRead, error)
	GetByProviderRef(ctx context.Context, providerRef string) (*dto.PaymentRead, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]dto.PaymentRead, error)
	Update(ctx context.Context, id uuid.UUID, update dto.PaymentUpdate) (*dto.PaymentRead, error)
}
