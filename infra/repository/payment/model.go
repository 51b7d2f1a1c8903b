package payment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment represents a payment record in the database. AmountUSDCents is
// the canonical ledger amount; ChargedAmount/ChargedCurrency record what
// the provider actually collected, for reconciliation only.
type Payment struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorID       uuid.UUID `gorm:"type:uuid;index;not null"`
	SubscriberEmail string    `gorm:"size:255"`
	AmountUSDCents  int64     `gorm:"not null"`
	ChargedAmount   int64
	ChargedCurrency string `gorm:"type:varchar(3)"`
	Provider        string `gorm:"type:varchar(16);not null"`
	Status          string `gorm:"type:varchar(16);not null;default:'pending'"`
	ProviderRef     string `gorm:"size:255;uniqueIndex"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Payment model.
func (Payment) TableName() string {
	return "payments"
}
