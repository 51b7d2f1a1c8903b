package subscription_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/natepay/natepay/infra/eventbus"
	"github.com/natepay/natepay/internal/fixtures/memuow"
	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/domain/subscription"
	"github.com/natepay/natepay/pkg/dto"
	subsvc "github.com/natepay/natepay/pkg/service/subscription"
)

func newService(t *testing.T) (*subsvc.Service, *memuow.MemoryUoW, *infraeventbus.MemoryBus) {
	t.Helper()
	uow := memuow.New()
	bus := infraeventbus.NewWithMemory(slog.Default())
	return subsvc.New(uow, bus, slog.Default()), uow, bus
}

func seedCreator(t *testing.T, uow *memuow.MemoryUoW, countryCode string) *dto.CreatorRead {
	t.Helper()
	c, err := uow.Creators.Create(context.Background(), dto.CreatorCreate{
		ID:          uuid.New(),
		Handle:      "creator-" + countryCode,
		Email:       countryCode + "@example.com",
		Password:    "x",
		CountryCode: countryCode,
	})
	require.NoError(t, err)
	return c
}

func TestCreatePlan_USDPrice(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	c := seedCreator(t, uow, "US")

	p, err := svc.CreatePlan(context.Background(), c.ID, subsvc.PlanInput{
		Name:          "Supporter",
		Interval:      "monthly",
		PriceUSDCents: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), p.PriceUSDCents)
	assert.True(t, p.Active)
	assert.Nil(t, p.LocalPrice)
}

func TestCreatePlan_LocalAmountConvertedOnce(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	c := seedCreator(t, uow, "NG")

	// 24,000 NGN at 1600 NGN/USD stores exactly $15.00.
	local := 24000.0
	p, err := svc.CreatePlan(context.Background(), c.ID, subsvc.PlanInput{
		Name:        "Supporter",
		Interval:    "monthly",
		LocalAmount: &local,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), p.PriceUSDCents)
	require.NotNil(t, p.LocalPrice)
	assert.Equal(t, "NGN", p.LocalPrice.Currency)
}

func TestCreatePlan_LocalAmountRejectedForNativeCountry(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	c := seedCreator(t, uow, "US")

	local := 100.0
	_, err := svc.CreatePlan(context.Background(), c.ID, subsvc.PlanInput{
		Name:        "Supporter",
		Interval:    "monthly",
		LocalAmount: &local,
	})
	require.Error(t, err)
}

func TestCreatePlan_UnknownCreator(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	_, err := svc.CreatePlan(context.Background(), uuid.New(), subsvc.PlanInput{
		Name:          "Supporter",
		Interval:      "monthly",
		PriceUSDCents: 500,
	})
	require.ErrorIs(t, err, creator.ErrCreatorNotFound)
}

func TestListPlans_AttachesLocalPrices(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	c := seedCreator(t, uow, "GH")

	_, err := svc.CreatePlan(context.Background(), c.ID, subsvc.PlanInput{
		Name:          "Supporter",
		Interval:      "monthly",
		PriceUSDCents: 500,
	})
	require.NoError(t, err)

	plans, err := svc.ListPlans(context.Background(), c.ID, true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.NotNil(t, plans[0].LocalPrice)
	// $5 at 15.5 GHS/USD is 77.5, rounded up to the next 5.
	assert.InDelta(t, 80, plans[0].LocalPrice.Amount, 0.001)
	assert.Equal(t, "GHS", plans[0].LocalPrice.Currency)
}

func TestUpdatePlan_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	owner := seedCreator(t, uow, "US")
	intruder := seedCreator(t, uow, "GB")

	p, err := svc.CreatePlan(context.Background(), owner.ID, subsvc.PlanInput{
		Name:          "Supporter",
		Interval:      "monthly",
		PriceUSDCents: 500,
	})
	require.NoError(t, err)

	name := "Hijacked"
	_, err = svc.UpdatePlan(context.Background(), intruder.ID, p.ID, dto.PlanUpdate{
		Name: &name,
	})
	require.ErrorIs(t, err, creator.ErrCreatorUnauthorized)
}

func TestDeletePlan(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	c := seedCreator(t, uow, "US")

	p, err := svc.CreatePlan(context.Background(), c.ID, subsvc.PlanInput{
		Name:          "Supporter",
		Interval:      "monthly",
		PriceUSDCents: 500,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(context.Background(), c.ID, p.ID))

	_, err = svc.GetPlan(context.Background(), p.ID)
	require.ErrorIs(t, err, subscription.ErrPlanNotFound)
}

func TestCancelSubscription_EmitsEvent(t *testing.T) {
	t.Parallel()
	svc, uow, bus := newService(t)
	c := seedCreator(t, uow, "US")

	sub, err := uow.Subscribers.Create(context.Background(), dto.SubscriberCreate{
		ID:        uuid.New(),
		CreatorID: c.ID,
		PlanID:    uuid.New(),
		Email:     "fan@example.com",
		Status:    "active",
	})
	require.NoError(t, err)

	canceled, err := svc.CancelSubscription(context.Background(), c.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", canceled.Status)

	published := bus.Published()
	require.Len(t, published, 1)
	evt, ok := published[0].(*events.SubscriptionCanceled)
	require.True(t, ok)
	assert.Equal(t, c.ID, evt.CreatorID)
	assert.Equal(t, "fan@example.com", evt.SubscriberEmail)
}

func TestCancelSubscription_AlreadyCanceledIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, uow, bus := newService(t)
	c := seedCreator(t, uow, "US")

	sub, err := uow.Subscribers.Create(context.Background(), dto.SubscriberCreate{
		ID:        uuid.New(),
		CreatorID: c.ID,
		PlanID:    uuid.New(),
		Email:     "fan@example.com",
		Status:    "active",
	})
	require.NoError(t, err)

	_, err = svc.CancelSubscription(context.Background(), c.ID, sub.ID)
	require.NoError(t, err)
	_, err = svc.CancelSubscription(context.Background(), c.ID, sub.ID)
	require.NoError(t, err)

	got, err := uow.Subscribers.Get(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", got.Status)
	assert.Len(t, bus.Published(), 1)
}
