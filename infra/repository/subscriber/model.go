package subscriber

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscriber represents a subscriber record in the database.
type Subscriber struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorID   uuid.UUID `gorm:"type:uuid;index;not null"`
	PlanID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Email       string    `gorm:"not null;size:255;index"`
	Name        string    `gorm:"size:100"`
	Status      string    `gorm:"type:varchar(16);not null;default:'active'"`
	ProviderRef string    `gorm:"size:255;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Subscriber model.
func (Subscriber) TableName() string {
	return "subscribers"
}
