package payroll

import (
	"context"

	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/dto"
)

// Repository defines persistence operations for payroll members, runs and
// run items. Lookups return (nil, nil) when no row matches.
type Repository interface {
	CreateMember(ctx context.Context, create dto.MemberCreate) (*dto.MemberRead, error)
	GetMember(ctx context.Context, id uuid.UUID) (*dto.MemberRead, error)
	ListMembersByCreator(ctx context.Context, creatorID uuid.UUID) ([]dto.MemberRead, error)
	UpdateMember(ctx context.Context, id uuid.UUID, update dto.MemberUpdate) (*dto.MemberRead, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error

	CreateRun(ctx context.Context, create dto.RunCreate) (*dto.RunRead, error)
	GetRun(ctx context.Context, id uuid.UUID) (*dto.RunRead, error)
	// GetExecutingRun returns the creator's in-flight run, if any. Used as
	// the guard that keeps a second run from starting while one executes.
	GetExecutingRun(ctx context.Context, creatorID uuid.UUID) (*dto.RunRead, error)
	ListRunsByCreator(ctx context.Context, creatorID uuid.UUID, limit, offset int) ([]dto.RunRead, error)
	UpdateRun(ctx context.Context, id uuid.UUID, update dto.RunUpdate) (*dto.RunRead, error)

	CreateItems(ctx context.Context, creates []dto.RunItemCreate) ([]dto.RunItemRead, error)
	ListItemsByRun(ctx context.Context, runID uuid.UUID) ([]dto.RunItemRead, error)
	UpdateItem(ctx context.Context, id uuid.UUID, update dto.RunItemUpdate) (*dto.RunItemRead, error)
}
