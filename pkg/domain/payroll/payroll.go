package payroll

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMemberNotFound is returned when a team member cannot be found.
	ErrMemberNotFound = errors.New("team member not found")
	// ErrRunNotFound is returned when a payroll run cannot be found.
	ErrRunNotFound = errors.New("payroll run not found")
	// ErrRunInProgress is returned when a creator already has an
	// executing run; runs must not overlap.
	ErrRunInProgress = errors.New("payroll run already in progress")
	// ErrNoMembers is returned when a run is started with no payable members.
	ErrNoMembers = errors.New("no team members to pay")
	// ErrMemberNotOnboarded is returned when a member has no payout destination.
	ErrMemberNotOnboarded = errors.New("team member has no payout destination")
)

// RunStatus is the lifecycle state of a payroll run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunExecuting RunStatus = "executing"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ItemStatus is the outcome of one payout within a run.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
)

// Member is someone on a creator's team paid through payroll runs.
// SalaryUSDCents is canonical; the provider charges whatever local
// currency its destination requires at settlement time.
type Member struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SalaryUSDCents int64     `json:"salary_usd_cents"`
	// PayoutRef is the provider destination: a Stripe connected account
	// ID or a Paystack transfer recipient code.
	PayoutRef string    `json:"payout_ref"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMember creates a payroll member with a canonical USD salary.
func NewMember(creatorID uuid.UUID, name, email string, salaryUSDCents int64) (*Member, error) {
	if name == "" {
		return nil, errors.New("member name cannot be empty")
	}
	if salaryUSDCents <= 0 {
		return nil, errors.New("salary must be positive")
	}
	now := time.Now().UTC()
	return &Member{
		ID:             uuid.New(),
		CreatorID:      creatorID,
		Name:           name,
		Email:          email,
		SalaryUSDCents: salaryUSDCents,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Run is a payroll execution: a snapshot of who gets paid how much.
type Run struct {
	ID            uuid.UUID `json:"id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	TotalUSDCents int64     `json:"total_usd_cents"`
	Status        RunStatus `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Item is one member's payout within a run.
type Item struct {
	ID             uuid.UUID  `json:"id"`
	RunID          uuid.UUID  `json:"run_id"`
	MemberID       uuid.UUID  `json:"member_id"`
	AmountUSDCents int64      `json:"amount_usd_cents"`
	Status         ItemStatus `json:"status"`
	ProviderRef    string     `json:"provider_ref"`
	FailureReason  string     `json:"failure_reason,omitempty"`
}

// NewRun snapshots the given members into a pending run.
func NewRun(creatorID uuid.UUID, members []*Member) (*Run, []*Item, error) {
	if len(members) == 0 {
		return nil, nil, ErrNoMembers
	}
	now := time.Now().UTC()
	run := &Run{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Status:    RunPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	items := make([]*Item, 0, len(members))
	for _, m := range members {
		run.TotalUSDCents += m.SalaryUSDCents
		items = append(items, &Item{
			ID:             uuid.New(),
			RunID:          run.ID,
			MemberID:       m.ID,
			AmountUSDCents: m.SalaryUSDCents,
			Status:         ItemPending,
		})
	}
	return run, items, nil
}
