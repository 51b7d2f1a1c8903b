package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents an activity feed record in the database. The feed is
// append-only, so there is no soft delete and no updated_at column.
type Entry struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatorID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind           string    `gorm:"type:varchar(32);not null"`
	Actor          string    `gorm:"size:255"`
	AmountUSDCents int64
	CreatedAt      time.Time `gorm:"index"`
}

// TableName specifies the table name for the Entry model.
func (Entry) TableName() string {
	return "activity_entries"
}
