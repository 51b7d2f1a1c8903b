package onboarding_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natepay/natepay/infra/draft"
	infraeventbus "github.com/natepay/natepay/infra/eventbus"
	"github.com/natepay/natepay/internal/fixtures/memuow"
	"github.com/natepay/natepay/internal/fixtures/provstub"
	"github.com/natepay/natepay/pkg/domain/events"
	"github.com/natepay/natepay/pkg/dto"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
	onboardsvc "github.com/natepay/natepay/pkg/service/onboarding"
)

type fixture struct {
	svc      *onboardsvc.Service
	uow      *memuow.MemoryUoW
	bus      *infraeventbus.MemoryBus
	drafts   *draft.Store
	stripe   *provstub.Stub
	paystack *provstub.Stub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	drafts := draft.NewStoreWithClient(client, time.Hour, slog.Default())

	uow := memuow.New()
	bus := infraeventbus.NewWithMemory(slog.Default())
	stripe := &provstub.Stub{}
	paystack := &provstub.Stub{}
	svc := onboardsvc.New(uow, map[region.Provider]providerpay.Payment{
		region.ProviderStripe:   stripe,
		region.ProviderPaystack: paystack,
	}, drafts, bus, slog.Default())
	return &fixture{
		svc: svc, uow: uow, bus: bus, drafts: drafts,
		stripe: stripe, paystack: paystack,
	}
}

func (f *fixture) seedCreator(t *testing.T, countryCode string) *dto.CreatorRead {
	t.Helper()
	c, err := f.uow.Creators.Create(context.Background(), dto.CreatorCreate{
		ID:          uuid.New(),
		Handle:      "creator-" + countryCode,
		Email:       countryCode + "@example.com",
		Password:    "x",
		CountryCode: countryCode,
	})
	require.NoError(t, err)
	return c
}

func TestStart_StripeReturnsHostedLink(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "US")
	f.stripe.OnboardResp = &providerpay.OnboardResponse{
		AccountRef:  "acct_123",
		RedirectURL: "https://connect.stripe.com/setup/x",
		Completed:   false,
	}

	res, err := f.svc.Start(context.Background(), c.ID, onboardsvc.StartInput{
		Provider: "stripe",
	})
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, "https://connect.stripe.com/setup/x", res.RedirectURL)

	got, err := f.uow.Creators.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "acct_123", got.StripeAccountID)
	assert.Equal(t, "pending", got.OnboardingStatus)
	assert.Empty(t, f.bus.Published())
}

func TestStart_PaystackCompletesInline(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "NG")
	f.paystack.OnboardResp = &providerpay.OnboardResponse{
		AccountRef: "RCP_123",
		Completed:  true,
	}

	res, err := f.svc.Start(context.Background(), c.ID, onboardsvc.StartInput{
		Provider:      "paystack",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ngozi A",
	})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Empty(t, res.RedirectURL)

	got, err := f.uow.Creators.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "RCP_123", got.PaystackSubCode)
	assert.Equal(t, "complete", got.OnboardingStatus)

	published := f.bus.Published()
	require.Len(t, published, 1)
	evt, ok := published[0].(*events.OnboardingCompleted)
	require.True(t, ok)
	assert.Equal(t, "paystack", evt.Provider)
	assert.Equal(t, "RCP_123", evt.AccountRef)
}

func TestStart_ProviderNotInCountry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "US")

	_, err := f.svc.Start(context.Background(), c.ID, onboardsvc.StartInput{
		Provider: "paystack",
	})
	require.ErrorIs(t, err, onboardsvc.ErrProviderNotAvailable)
}

func TestHandleCompleted_SettlesStripeOnboarding(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "US")
	f.stripe.OnboardResp = &providerpay.OnboardResponse{
		AccountRef:  "acct_123",
		RedirectURL: "https://connect.stripe.com/setup/x",
	}

	_, err := f.svc.Start(context.Background(), c.ID, onboardsvc.StartInput{
		Provider: "stripe",
	})
	require.NoError(t, err)

	err = f.svc.HandleCompleted(context.Background(), &providerpay.WebhookResult{
		Kind:        providerpay.WebhookOnboardingCompleted,
		ProviderRef: "acct_123",
		CreatorID:   c.ID,
	})
	require.NoError(t, err)

	got, err := f.uow.Creators.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "complete", got.OnboardingStatus)

	published := f.bus.Published()
	require.Len(t, published, 1)
	evt, ok := published[0].(*events.OnboardingCompleted)
	require.True(t, ok)
	assert.Equal(t, "stripe", evt.Provider)
}

func TestHandleCompleted_ReplayIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "US")
	f.stripe.OnboardResp = &providerpay.OnboardResponse{AccountRef: "acct_123"}

	_, err := f.svc.Start(context.Background(), c.ID, onboardsvc.StartInput{
		Provider: "stripe",
	})
	require.NoError(t, err)

	result := &providerpay.WebhookResult{
		Kind:        providerpay.WebhookOnboardingCompleted,
		ProviderRef: "acct_123",
		CreatorID:   c.ID,
	}
	require.NoError(t, f.svc.HandleCompleted(context.Background(), result))
	require.NoError(t, f.svc.HandleCompleted(context.Background(), result))

	assert.Len(t, f.bus.Published(), 1)
}

func TestDrafts_SaveResumeDiscard(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "NG")

	err := f.svc.SaveDraft(context.Background(), c.ID, draft.Draft{
		Provider:      "paystack",
		BankCode:      "058",
		AccountNumber: "0123456789",
	})
	require.NoError(t, err)

	d, err := f.svc.GetDraft(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "058", d.BankCode)
	assert.Equal(t, c.ID, d.CreatorID)

	require.NoError(t, f.svc.DeleteDraft(context.Background(), c.ID))
	d, err = f.svc.GetDraft(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestStart_CompletionDiscardsDraft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	c := f.seedCreator(t, "NG")
	f.paystack.OnboardResp = &providerpay.OnboardResponse{
		AccountRef: "RCP_123",
		Completed:  true,
	}

	require.NoError(t, f.svc.SaveDraft(context.Background(), c.ID, draft.Draft{
		Provider: "paystack",
		BankCode: "058",
	}))

	_, err := f.svc.Start(context.Background(), c.ID, onboardsvc.StartInput{
		Provider:      "paystack",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ngozi A",
	})
	require.NoError(t, err)

	d, err := f.svc.GetDraft(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Nil(t, d)
}
