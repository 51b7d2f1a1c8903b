package activity_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/natepay/natepay/infra/eventbus"
	"github.com/natepay/natepay/internal/fixtures/memuow"
	"github.com/natepay/natepay/pkg/domain/events"
	activitysvc "github.com/natepay/natepay/pkg/service/activity"
)

func newFixture(t *testing.T) (*activitysvc.Service, *memuow.MemoryUoW, *infraeventbus.MemoryBus) {
	t.Helper()
	uow := memuow.New()
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := activitysvc.New(uow, slog.Default())
	svc.RegisterHandlers(bus)
	return svc, uow, bus
}

func TestFeed_PaymentCompletedProjection(t *testing.T) {
	t.Parallel()
	svc, _, bus := newFixture(t)
	creatorID := uuid.New()

	err := bus.Emit(context.Background(), &events.PaymentCompleted{
		ID:              uuid.New(),
		CreatorID:       creatorID,
		SubscriberEmail: "fan@example.com",
		AmountUSDCents:  500,
		OccurredAt:      time.Now().UTC(),
	})
	require.NoError(t, err)

	feed, err := svc.ListFeed(context.Background(), creatorID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "payment_received", feed[0].Kind)
	assert.Equal(t, "fan@example.com", feed[0].Actor)
	assert.Equal(t, int64(500), feed[0].AmountUSDCents)
}

func TestFeed_SubscriberAddedPrefersName(t *testing.T) {
	t.Parallel()
	svc, _, bus := newFixture(t)
	creatorID := uuid.New()

	err := bus.Emit(context.Background(), &events.SubscriberAdded{
		ID:              uuid.New(),
		CreatorID:       creatorID,
		PlanID:          uuid.New(),
		SubscriberEmail: "fan@example.com",
		SubscriberName:  "Ada",
		OccurredAt:      time.Now().UTC(),
	})
	require.NoError(t, err)

	feed, err := svc.ListFeed(context.Background(), creatorID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "new_subscriber", feed[0].Kind)
	assert.Equal(t, "Ada", feed[0].Actor)
	assert.Zero(t, feed[0].AmountUSDCents)
}

func TestFeed_PayoutAndRunProjections(t *testing.T) {
	t.Parallel()
	svc, _, bus := newFixture(t)
	creatorID := uuid.New()

	require.NoError(t, bus.Emit(context.Background(), &events.PayoutSent{
		ID:             uuid.New(),
		CreatorID:      creatorID,
		MemberName:     "Kwame",
		AmountUSDCents: 120000,
		OccurredAt:     time.Now().UTC(),
	}))
	require.NoError(t, bus.Emit(context.Background(), &events.PayrollRunCompleted{
		ID:            uuid.New(),
		CreatorID:     creatorID,
		RunID:         uuid.New(),
		TotalUSDCents: 120000,
		OccurredAt:    time.Now().UTC(),
	}))

	feed, err := svc.ListFeed(context.Background(), creatorID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	// Newest first.
	assert.Equal(t, "payroll_run", feed[0].Kind)
	assert.Equal(t, "payout_sent", feed[1].Kind)
	assert.Equal(t, "Kwame", feed[1].Actor)
}

func TestFeed_Pagination(t *testing.T) {
	t.Parallel()
	svc, _, bus := newFixture(t)
	creatorID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Emit(context.Background(), &events.SubscriptionCanceled{
			ID:              uuid.New(),
			CreatorID:       creatorID,
			SubscriberEmail: "fan@example.com",
			OccurredAt:      time.Now().UTC(),
		}))
	}

	page1, err := svc.ListFeed(context.Background(), creatorID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page3, err := svc.ListFeed(context.Background(), creatorID, 2, 4)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestFeed_IsolatedPerCreator(t *testing.T) {
	t.Parallel()
	svc, _, bus := newFixture(t)
	a, b := uuid.New(), uuid.New()

	require.NoError(t, bus.Emit(context.Background(), &events.PaymentCompleted{
		ID:              uuid.New(),
		CreatorID:       a,
		SubscriberEmail: "fan@example.com",
		AmountUSDCents:  500,
		OccurredAt:      time.Now().UTC(),
	}))

	feed, err := svc.ListFeed(context.Background(), b, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
