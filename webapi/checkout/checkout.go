// Package checkout exposes the anonymous subscriber checkout flow.
package checkout

import (
	"github.com/gofiber/fiber/v2"

	paysvc "github.com/natepay/natepay/pkg/service/payment"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers the checkout routes. Both are public: subscribers
// never hold accounts.
func Routes(app *fiber.App, svc *paysvc.Service) {
	app.Post("/checkout", Start(svc))
	app.Get("/checkout/return", Return(svc))
}

// Start begins a hosted checkout for a plan and returns the provider
// redirect URL.
// @Summary Start a checkout
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body paysvc.CheckoutInput true "Checkout data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /checkout [post]
func Start(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[paysvc.CheckoutInput](c)
		if input == nil {
			return err
		}
		result, err := svc.Checkout(c.Context(), *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't start checkout", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated,
			"Checkout started", result)
	}
}

// Return resolves the provider reference the subscriber comes back with
// so the payment page can show the outcome. Settlement itself happens on
// the webhook, never here.
// @Summary Resolve a checkout return
// @Tags checkout
// @Produce json
// @Param reference query string true "Provider checkout reference"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /checkout/return [get]
func Return(svc *paysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Query("reference")
		if reference == "" {
			return common.ProblemDetailsJSON(c, "Invalid request", nil,
				"Query parameter reference is required", fiber.StatusBadRequest)
		}
		pay, err := svc.ResolveReturn(c.Context(), reference)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Payment not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Payment found", pay)
	}
}
