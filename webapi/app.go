// Package webapi assembles the HTTP application from the service layer.
package webapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/natepay/natepay/pkg/config"
	activitysvc "github.com/natepay/natepay/pkg/service/activity"
	authsvc "github.com/natepay/natepay/pkg/service/auth"
	creatorsvc "github.com/natepay/natepay/pkg/service/creator"
	onboardingsvc "github.com/natepay/natepay/pkg/service/onboarding"
	paysvc "github.com/natepay/natepay/pkg/service/payment"
	payrollsvc "github.com/natepay/natepay/pkg/service/payroll"
	subsvc "github.com/natepay/natepay/pkg/service/subscription"
	"github.com/natepay/natepay/webapi/activity"
	"github.com/natepay/natepay/webapi/auth"
	"github.com/natepay/natepay/webapi/checkout"
	"github.com/natepay/natepay/webapi/common"
	"github.com/natepay/natepay/webapi/creator"
	"github.com/natepay/natepay/webapi/onboarding"
	"github.com/natepay/natepay/webapi/payment"
	"github.com/natepay/natepay/webapi/payroll"
	"github.com/natepay/natepay/webapi/subscription"
)

// Services bundles everything the API serves.
type Services struct {
	Auth         *authsvc.Service
	Creator      *creatorsvc.Service
	Subscription *subsvc.Service
	Payment      *paysvc.Service
	Activity     *activitysvc.Service
	Payroll      *payrollsvc.Service
	Onboarding   *onboardingsvc.Service
	Logger       *slog.Logger
}

// NewApp builds the fiber application with all routes registered.
func NewApp(svcs Services, cfg *config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default to 500 if status code cannot be determined
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	auth.Routes(app, svcs.Auth)
	creator.Routes(app, svcs.Creator, cfg)
	subscription.Routes(app, svcs.Subscription, cfg)
	checkout.Routes(app, svcs.Payment)
	payment.Routes(app, svcs.Payment, svcs.Payroll, svcs.Onboarding, cfg, svcs.Logger)
	activity.Routes(app, svcs.Activity, cfg)
	payroll.Routes(app, svcs.Payroll, cfg)
	onboarding.Routes(app, svcs.Onboarding, cfg)

	return app
}
