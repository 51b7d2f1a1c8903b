// Package onboarding exposes the payout onboarding routes, including
// the resumable draft endpoints.
package onboarding

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natepay/natepay/infra/draft"
	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/middleware"
	onboardingsvc "github.com/natepay/natepay/pkg/service/onboarding"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers onboarding routes. All require authentication.
func Routes(app *fiber.App, svc *onboardingsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(*cfg.Auth.Jwt)
	app.Post("/onboarding/start", protected, Start(svc))
	app.Put("/onboarding/draft", protected, SaveDraft(svc))
	app.Get("/onboarding/draft", protected, GetDraft(svc))
	app.Delete("/onboarding/draft", protected, DeleteDraft(svc))
}

// Start begins payout onboarding with the chosen provider.
// @Summary Start payout onboarding
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body onboardingsvc.StartInput true "Onboarding data"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /onboarding/start [post]
// @Security Bearer
func Start(svc *onboardingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[onboardingsvc.StartInput](c)
		if input == nil {
			return err
		}
		result, err := svc.Start(c.Context(), creatorID, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't start onboarding", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK,
			"Onboarding started", result)
	}
}

// SaveDraft stores the partially filled onboarding form so the creator
// can resume it later, possibly from another device.
// @Summary Save an onboarding draft
// @Tags onboarding
// @Accept json
// @Produce json
// @Param request body draft.Draft true "Draft fields"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /onboarding/draft [put]
// @Security Bearer
func SaveDraft(svc *onboardingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[draft.Draft](c)
		if input == nil {
			return err
		}
		if err := svc.SaveDraft(c.Context(), creatorID, *input); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't save draft", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Saved draft", nil)
	}
}

// GetDraft returns the creator's saved draft, if any.
// @Summary Get the onboarding draft
// @Tags onboarding
// @Produce json
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /onboarding/draft [get]
// @Security Bearer
func GetDraft(svc *onboardingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		d, err := svc.GetDraft(c.Context(), creatorID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't get draft", err)
		}
		if d == nil {
			return common.ProblemDetailsJSON(c, "Draft not found", nil,
				"No onboarding draft saved", fiber.StatusNotFound)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Draft found", d)
	}
}

// DeleteDraft discards the creator's saved draft.
// @Summary Discard the onboarding draft
// @Tags onboarding
// @Produce json
// @Success 200 {object} common.Response
// @Router /onboarding/draft [delete]
// @Security Bearer
func DeleteDraft(svc *onboardingsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		if err := svc.DeleteDraft(c.Context(), creatorID); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete draft", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deleted draft", nil)
	}
}
