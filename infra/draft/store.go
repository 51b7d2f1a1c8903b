// Package draft persists in-progress onboarding drafts in Redis so a
// creator can resume the flow from another device before submitting.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Draft holds the fields a creator has filled in so far during payout
// onboarding. Nothing here is authoritative until submitted.
type Draft struct {
	CreatorID     uuid.UUID `json:"creator_id"`
	Provider      string    `json:"provider"`
	BankCode      string    `json:"bank_code,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	AccountName   string    `json:"account_name,omitempty"`
	BusinessName  string    `json:"business_name,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store is a Redis-backed draft store with a per-draft TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore creates a draft store from redis options.
func NewStore(opt *redis.Options, ttl time.Duration, logger *slog.Logger) *Store {
	return NewStoreWithClient(redis.NewClient(opt), ttl, logger)
}

// NewStoreWithClient creates a draft store around an existing client.
func NewStoreWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Store{client: client, ttl: ttl, logger: logger.With("store", "draft")}
}

func key(creatorID uuid.UUID) string {
	return "onboarding:draft:" + creatorID.String()
}

// Save writes the draft and refreshes its TTL.
func (s *Store) Save(ctx context.Context, d Draft) error {
	d.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(d.CreatorID), data, s.ttl).Err(); err != nil {
		s.logger.Error("draft save failed", "creator_id", d.CreatorID, "error", err)
		return err
	}
	return nil
}

// Get returns the creator's draft, or (nil, nil) when none exists.
func (s *Store) Get(ctx context.Context, creatorID uuid.UUID) (*Draft, error) {
	val, err := s.client.Get(ctx, key(creatorID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("draft get failed", "creator_id", creatorID, "error", err)
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes the draft, typically after a successful submission.
func (s *Store) Delete(ctx context.Context, creatorID uuid.UUID) error {
	if err := s.client.Del(ctx, key(creatorID)).Err(); err != nil {
		s.logger.Error("draft delete failed", "creator_id", creatorID, "error", err)
		return err
	}
	return nil
}
