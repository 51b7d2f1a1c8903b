package main

import (
	"fmt"

	log "github.com/charmbracelet/log"

	"github.com/natepay/natepay/infra/initializer"
	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/webapi"
)

// @title NatePay API
// @version 1.0.0
// @description Creator payments API documentation
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app := webapi.NewApp(deps.Services, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	return app.Listen(addr)
}
