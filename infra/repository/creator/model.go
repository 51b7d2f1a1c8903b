package creator

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Creator represents a creator account record in the database.
type Creator struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	Handle           string    `gorm:"uniqueIndex;not null;size:50"`
	Email            string    `gorm:"uniqueIndex;not null;size:255"`
	Password         string    `gorm:"not null"`
	DisplayName      string    `gorm:"size:100"`
	Bio              string    `gorm:"size:500"`
	CountryCode      string    `gorm:"type:varchar(2);not null"`
	StripeAccountID  string    `gorm:"size:255"`
	PaystackSubCode  string    `gorm:"size:255"`
	OnboardingStatus string    `gorm:"type:varchar(16);not null;default:'none'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Creator model.
func (Creator) TableName() string {
	return "creators"
}
