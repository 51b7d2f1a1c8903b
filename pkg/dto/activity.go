package dto

import (
	"time"

	"github.com/google/uuid"
)

// ActivityCreate represents the data needed to append a feed entry.
type ActivityCreate struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Kind           string    `json:"kind"`
	Actor          string    `json:"actor"`
	AmountUSDCents int64     `json:"amount_usd_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

// ActivityRead is one feed entry as returned to clients.
type ActivityRead struct {
	ID             uuid.UUID `json:"id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	Kind           string    `json:"kind"`
	Actor          string    `json:"actor"`
	AmountUSDCents int64     `json:"amount_usd_cents"`
	CreatedAt      time.Time `json:"created_at"`
}
