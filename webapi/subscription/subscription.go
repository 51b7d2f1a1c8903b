// Package subscription exposes plan and subscriber management routes.
package subscription

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/middleware"
	subsvc "github.com/natepay/natepay/pkg/service/subscription"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers plan and subscriber routes. All require authentication.
func Routes(app *fiber.App, svc *subsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(*cfg.Auth.Jwt)
	app.Post("/plans", protected, CreatePlan(svc))
	app.Get("/plans", protected, ListPlans(svc))
	app.Put("/plans/:id", protected, UpdatePlan(svc))
	app.Delete("/plans/:id", protected, DeletePlan(svc))
	app.Get("/subscribers", protected, ListSubscribers(svc))
	app.Post("/subscribers/:id/cancel", protected, CancelSubscription(svc))
}

// CreatePlan creates a subscription plan. Cross-border creators may
// submit a local-currency amount instead of USD cents; it is converted
// once and only the USD price is stored.
// @Summary Create a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param request body subsvc.PlanInput true "Plan data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /plans [post]
// @Security Bearer
func CreatePlan(svc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[subsvc.PlanInput](c)
		if input == nil {
			return err
		}
		if input.PriceUSDCents <= 0 && input.LocalAmount == nil {
			return common.ProblemDetailsJSON(c, "Invalid request body", nil,
				"Either price_usd_cents or local_amount is required",
				fiber.StatusBadRequest)
		}
		plan, err := svc.CreatePlan(c.Context(), creatorID, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create plan", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created plan", plan)
	}
}

// ListPlans returns the authenticated creator's plans.
// @Summary List plans
// @Tags plans
// @Produce json
// @Param active query bool false "Only active plans"
// @Success 200 {object} common.Response
// @Router /plans [get]
// @Security Bearer
func ListPlans(svc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		plans, err := svc.ListPlans(c.Context(), creatorID, c.QueryBool("active"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list plans", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Plans found", plans)
	}
}

// UpdatePlan changes a plan owned by the creator.
// @Summary Update a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body dto.PlanUpdate true "Fields to update"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /plans/{id} [put]
// @Security Bearer
func UpdatePlan(svc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		planID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid plan ID", err,
				"Plan ID must be a valid UUID", fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[dto.PlanUpdate](c)
		if input == nil {
			return err
		}
		plan, err := svc.UpdatePlan(c.Context(), creatorID, planID, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update plan", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Updated plan", plan)
	}
}

// DeletePlan removes a plan owned by the creator.
// @Summary Delete a plan
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /plans/{id} [delete]
// @Security Bearer
func DeletePlan(svc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		planID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid plan ID", err,
				"Plan ID must be a valid UUID", fiber.StatusBadRequest)
		}
		if err := svc.DeletePlan(c.Context(), creatorID, planID); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete plan", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deleted plan", nil)
	}
}

// ListSubscribers returns a page of the creator's subscribers.
// @Summary List subscribers
// @Tags subscribers
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} common.Response
// @Router /subscribers [get]
// @Security Bearer
func ListSubscribers(svc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		subs, err := svc.ListSubscribers(c.Context(), creatorID,
			c.QueryInt("limit", 20), c.QueryInt("offset", 0))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list subscribers", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Subscribers found", subs)
	}
}

// CancelSubscription marks a subscriber as canceled.
// @Summary Cancel a subscription
// @Tags subscribers
// @Produce json
// @Param id path string true "Subscriber ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /subscribers/{id}/cancel [post]
// @Security Bearer
func CancelSubscription(svc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		subscriberID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid subscriber ID", err,
				"Subscriber ID must be a valid UUID", fiber.StatusBadRequest)
		}
		sub, err := svc.CancelSubscription(c.Context(), creatorID, subscriberID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't cancel subscription", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK,
			"Canceled subscription", sub)
	}
}
