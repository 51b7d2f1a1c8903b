package plan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan represents a subscription plan record in the database.
// Prices are stored in USD cents only; local display amounts are derived
// at read time and never written here.
type Plan struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name          string    `gorm:"not null;size:100"`
	PriceUSDCents int64     `gorm:"not null"`
	Interval      string    `gorm:"type:varchar(8);not null"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Plan model.
func (Plan) TableName() string {
	return "plans"
}
