package dto

import (
	"time"

	"github.com/google/uuid"
)

// MemberCreate represents the data needed to add a payroll member.
type MemberCreate struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Name           string    `json:"name" validate:"required,max=100"`
	Email          string    `json:"email" validate:"omitempty,email"`
	SalaryUSDCents int64     `json:"salary_usd_cents" validate:"required,gt=0"`
	PayoutRef      string    `json:"payout_ref"`
}

// MemberUpdate represents the mutable fields of a payroll member.
type MemberUpdate struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	SalaryUSDCents *int64  `json:"salary_usd_cents,omitempty" validate:"omitempty,gt=0"`
	PayoutRef      *string `json:"payout_ref,omitempty"`
}

// MemberRead is a read-optimized view of a payroll member.
type MemberRead struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	SalaryUSDCents int64     `json:"salary_usd_cents"`
	PayoutRef      string    `json:"payout_ref"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RunCreate represents the data needed to persist a payroll run snapshot.
type RunCreate struct {
	ID            uuid.UUID `json:"id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	TotalUSDCents int64     `json:"total_usd_cents"`
	Status        string    `json:"status"`
}

// RunUpdate represents the mutable fields of a payroll run.
type RunUpdate struct {
	Status *string `json:"status,omitempty"`
}

// RunRead is a read-optimized view of a payroll run.
type RunRead struct {
	ID            uuid.UUID `json:"id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	TotalUSDCents int64     `json:"total_usd_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RunItemCreate represents one payout line within a run snapshot.
type RunItemCreate struct {
	ID             uuid.UUID `json:"id"`
	RunID          uuid.UUID `json:"run_id"`
	MemberID       uuid.UUID `json:"member_id"`
	AmountUSDCents int64     `json:"amount_usd_cents"`
	Status         string    `json:"status"`
}

// RunItemUpdate represents the outcome of one payout line.
type RunItemUpdate struct {
	Status        *string `json:"status,omitempty"`
	ProviderRef   *string `json:"provider_ref,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
}

// RunItemRead is a read-optimized view of a payout line.
type RunItemRead struct {
	ID             uuid.UUID `json:"id"`
	RunID          uuid.UUID `json:"run_id"`
	MemberID       uuid.UUID `json:"member_id"`
	AmountUSDCents int64     `json:"amount_usd_cents"`
	Status         string    `json:"status"`
	ProviderRef    string    `json:"provider_ref"`
	FailureReason  string    `json:"failure_reason,omitempty"`
}
