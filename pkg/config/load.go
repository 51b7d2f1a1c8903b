package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment, optionally preloading a
// .env file. Missing .env files are not an error.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		if err := godotenv.Load(path); err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		logger.Info("Environment loaded from file", "path", path)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found in current directory")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"jwt_expiry", cfg.Auth.Jwt.Expiry,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"event_bus", cfg.EventBus.Driver,
		"stripe_api_key", maskValue(cfg.PaymentProviders.Stripe.ApiKey),
		"paystack_secret_key", maskValue(cfg.PaymentProviders.Paystack.SecretKey),
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
