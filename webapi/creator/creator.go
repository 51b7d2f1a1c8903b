// Package creator exposes signup, profile management and the public
// payment page.
package creator

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/middleware"
	creatorsvc "github.com/natepay/natepay/pkg/service/creator"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers creator routes. /p/:handle is public; the rest
// require authentication.
func Routes(app *fiber.App, svc *creatorsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(*cfg.Auth.Jwt)
	app.Post("/creator", Signup(svc))
	app.Get("/creator/me", protected, Me(svc))
	app.Put("/creator/me", protected, Update(svc))
	app.Delete("/creator/me", protected, Delete(svc))
	app.Get("/p/:handle", PublicProfile(svc))
}

// Signup registers a new creator account.
// @Summary Create a creator account
// @Tags creators
// @Accept json
// @Produce json
// @Param request body SignupInput true "Signup data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /creator [post]
func Signup(svc *creatorsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SignupInput](c)
		if input == nil {
			return err
		}
		if len(input.Password) > 72 {
			return common.ProblemDetailsJSON(c, "Invalid request body", nil,
				"Password too long", fiber.StatusBadRequest)
		}
		created, err := svc.Signup(c.Context(),
			input.Handle, input.Email, input.Password, input.CountryCode)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create creator", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated,
			"Created creator", created)
	}
}

// Me returns the authenticated creator's account.
// @Summary Get own account
// @Tags creators
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /creator/me [get]
// @Security Bearer
func Me(svc *creatorsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		me, err := svc.Get(c.Context(), creatorID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Creator not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Creator found", me)
	}
}

// Update changes the authenticated creator's profile.
// @Summary Update own account
// @Tags creators
// @Accept json
// @Produce json
// @Param request body dto.CreatorUpdate true "Fields to update"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /creator/me [put]
// @Security Bearer
func Update(svc *creatorsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[dto.CreatorUpdate](c)
		if input == nil {
			return err
		}
		// Provider linkage fields are owned by the onboarding flow.
		input.StripeAccountID = nil
		input.PaystackSubCode = nil
		input.OnboardingStatus = nil

		updated, err := svc.Update(c.Context(), creatorID, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update creator", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Updated creator", updated)
	}
}

// Delete removes the authenticated creator's account.
// @Summary Delete own account
// @Tags creators
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /creator/me [delete]
// @Security Bearer
func Delete(svc *creatorsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		if err := svc.Delete(c.Context(), creatorID); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't delete creator", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deleted creator", nil)
	}
}

// PublicProfile returns the anonymous payment page for a handle: the
// profile, active plans with display prices, supporter count and recent
// activity.
// @Summary Public payment page
// @Tags creators
// @Produce json
// @Param handle path string true "Creator handle"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /p/{handle} [get]
func PublicProfile(svc *creatorsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := svc.PublicProfile(c.Context(), c.Params("handle"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Creator not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Profile found", profile)
	}
}
