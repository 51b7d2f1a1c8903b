// Package payment exposes the creator payment history routes and the
// provider webhook endpoints.
package payment

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/middleware"
	providerpay "github.com/natepay/natepay/pkg/provider/payment"
	onboardingsvc "github.com/natepay/natepay/pkg/service/onboarding"
	paysvc "github.com/natepay/natepay/pkg/service/payment"
	payrollsvc "github.com/natepay/natepay/pkg/service/payroll"
	"github.com/natepay/natepay/webapi/common"
)

// maxWebhookBodyBytes bounds webhook payloads before signature
// verification.
const maxWebhookBodyBytes = 65536

// Routes registers payment history routes (protected) and the provider
// webhook endpoints (public, signature-verified).
func Routes(
	app *fiber.App,
	svc *paysvc.Service,
	payrollSvc *payrollsvc.Service,
	onboardingSvc *onboardingsvc.Service,
	cfg *config.App,
	logger *slog.Logger,
) {
	protected := middleware.JwtProtected(*cfg.Auth.Jwt)
	app.Get("/payments", protected, List(svc))
	app.Get("/payments/:id", protected, Get(svc))
	app.Post("/webhooks/stripe",
		Webhook("stripe", "Stripe-Signature", svc, payrollSvc, onboardingSvc, logger))
	app.Post("/webhooks/paystack",
		Webhook("paystack", "X-Paystack-Signature", svc, payrollSvc, onboardingSvc, logger))
}

// List returns a page of the creator's payments, newest first.
// @Summary List payments
// @Tags payments
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} common.Response
// @Router /payments [get]
// @Security Bearer
func List(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		pays, err := svc.List(c.Context(), creatorID,
			c.QueryInt("limit", 20), c.QueryInt("offset", 0))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list payments", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payments found", pays)
	}
}

// Get returns one of the creator's payments.
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /payments/{id} [get]
// @Security Bearer
func Get(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		paymentID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid payment ID", err,
				"Payment ID must be a valid UUID", fiber.StatusBadRequest)
		}
		pay, err := svc.Get(c.Context(), creatorID, paymentID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Payment not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment found", pay)
	}
}

// Webhook verifies and applies a provider event. Payment events are
// settled by the payment service itself; payout and onboarding events
// are routed to the owning service. The response is always a bare
// acknowledgment so providers stop retrying once the event is recorded.
// @Summary Provider webhook
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /webhooks/{provider} [post]
func Webhook(
	provider, signatureHeader string,
	svc *paysvc.Service,
	payrollSvc *payrollsvc.Service,
	onboardingSvc *onboardingsvc.Service,
	logger *slog.Logger,
) fiber.Handler {
	log := logger.With("context", "Webhook", "provider", provider)
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) > maxWebhookBodyBytes {
			return common.ProblemDetailsJSON(c, "Payload too large", nil,
				"Webhook payload exceeds the size limit",
				fiber.StatusRequestEntityTooLarge)
		}
		result, err := svc.HandleProviderWebhook(
			c.Context(), provider, body, c.Get(signatureHeader))
		if err != nil {
			log.Warn("webhook rejected", "error", err)
			return common.ProblemDetailsJSON(c, "Invalid webhook", err,
				fiber.StatusBadRequest)
		}
		switch result.Kind {
		case providerpay.WebhookPayoutSent, providerpay.WebhookPayoutFailed:
			err = payrollSvc.ApplyPayoutResult(c.Context(), result)
		case providerpay.WebhookOnboardingCompleted:
			err = onboardingSvc.HandleCompleted(c.Context(), result)
		}
		if err != nil {
			log.Error("webhook apply failed", "kind", result.Kind, "error", err)
			return common.ProblemDetailsJSON(c, "Couldn't apply webhook", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Webhook received", nil)
	}
}
