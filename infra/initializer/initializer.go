// Package initializer wires configuration into the application's
// concrete dependencies: database, event bus, payment providers, draft
// store and the service layer.
package initializer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/natepay/natepay/infra"
	"github.com/natepay/natepay/infra/draft"
	infraeventbus "github.com/natepay/natepay/infra/eventbus"
	"github.com/natepay/natepay/infra/provider/paystack"
	"github.com/natepay/natepay/infra/provider/stripepay"
	infrarepo "github.com/natepay/natepay/infra/repository"
	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/eventbus"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	"github.com/natepay/natepay/pkg/region"
	activitysvc "github.com/natepay/natepay/pkg/service/activity"
	authsvc "github.com/natepay/natepay/pkg/service/auth"
	creatorsvc "github.com/natepay/natepay/pkg/service/creator"
	onboardingsvc "github.com/natepay/natepay/pkg/service/onboarding"
	paysvc "github.com/natepay/natepay/pkg/service/payment"
	payrollsvc "github.com/natepay/natepay/pkg/service/payroll"
	subsvc "github.com/natepay/natepay/pkg/service/subscription"
	"github.com/natepay/natepay/webapi"
)

// Deps holds everything the entrypoints need to serve the application.
type Deps struct {
	Services webapi.Services
	EventBus eventbus.Bus
	Logger   *slog.Logger
}

// InitializeDependencies builds all application dependencies from config.
func InitializeDependencies(cfg *config.App) (*Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(*cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if err := infra.RunMigrations(db, cfg.DB.MigrationsPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	uow := infrarepo.NewUoW(db)

	bus, err := newEventBus(cfg.EventBus, logger)
	if err != nil {
		return nil, err
	}

	providers, err := newProviders(cfg.PaymentProviders, logger)
	if err != nil {
		return nil, err
	}

	redisOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	redisOpt.PoolSize = cfg.Redis.PoolSize
	redisOpt.DialTimeout = cfg.Redis.DialTimeout
	redisOpt.ReadTimeout = cfg.Redis.ReadTimeout
	redisOpt.WriteTimeout = cfg.Redis.WriteTimeout
	drafts := draft.NewStore(redisOpt, cfg.Drafts.TTL, logger)

	activitySvc := activitysvc.New(uow, logger)
	activitySvc.RegisterHandlers(bus)

	return &Deps{
		Services: webapi.Services{
			Auth:         authsvc.New(uow, cfg.Auth.Jwt, logger),
			Creator:      creatorsvc.New(uow, logger),
			Subscription: subsvc.New(uow, bus, logger),
			Payment:      paysvc.New(uow, providers, bus, logger),
			Activity:     activitySvc,
			Payroll:      payrollsvc.New(uow, providers, bus, logger),
			Onboarding:   onboardingsvc.New(uow, providers, drafts, bus, logger),
			Logger:       logger,
		},
		EventBus: bus,
		Logger:   logger,
	}, nil
}

// newEventBus selects the bus implementation from config.
func newEventBus(cfg *config.EventBus, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.Driver {
	case "kafka":
		bus, err := infraeventbus.NewWithKafka(
			strings.Join(cfg.KafkaBrokers, ","), cfg.KafkaTopic, "natepay", logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
		return bus, nil
	default:
		return infraeventbus.NewWithMemory(logger), nil
	}
}

// newProviders builds the configured payment providers. At least one
// must be configured or no creator could ever be paid.
func newProviders(
	cfg *config.PaymentProviders,
	logger *slog.Logger,
) (map[region.Provider]providerpay.Payment, error) {
	providers := make(map[region.Provider]providerpay.Payment)
	if cfg.Stripe != nil && cfg.Stripe.ApiKey != "" {
		providers[region.ProviderStripe] = stripepay.New(cfg.Stripe, logger)
	}
	if cfg.Paystack != nil && cfg.Paystack.SecretKey != "" {
		providers[region.ProviderPaystack] = paystack.New(cfg.Paystack, logger)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no payment provider configured")
	}
	return providers, nil
}
