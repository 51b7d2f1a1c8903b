package payroll

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member represents a payroll member record in the database.
type Member struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name           string    `gorm:"not null;size:100"`
	Email          string    `gorm:"size:255"`
	SalaryUSDCents int64     `gorm:"not null"`
	PayoutRef      string    `gorm:"size:255"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Member model.
func (Member) TableName() string {
	return "payroll_members"
}

// Run represents a payroll run snapshot in the database.
type Run struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorID     uuid.UUID `gorm:"type:uuid;index;not null"`
	TotalUSDCents int64     `gorm:"not null"`
	Status        string    `gorm:"type:varchar(16);not null;default:'executing'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Run model.
func (Run) TableName() string {
	return "payroll_runs"
}

// Item represents one payout line within a run.
type Item struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	RunID          uuid.UUID `gorm:"type:uuid;index;not null"`
	MemberID       uuid.UUID `gorm:"type:uuid;not null"`
	AmountUSDCents int64     `gorm:"not null"`
	Status         string    `gorm:"type:varchar(16);not null;default:'pending'"`
	ProviderRef    string    `gorm:"size:255"`
	FailureReason  string    `gorm:"size:500"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Item model.
func (Item) TableName() string {
	return "payroll_run_items"
}
