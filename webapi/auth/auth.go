// Package auth exposes the login route.
package auth

import (
	"github.com/gofiber/fiber/v2"

	authsvc "github.com/natepay/natepay/pkg/service/auth"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers the auth routes.
func Routes(app *fiber.App, svc *authsvc.Service) {
	app.Post("/auth/login", Login(svc))
}

// Login authenticates a creator with identity (handle or email) and
// password and returns a JWT.
// @Summary Creator login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		creator, err := svc.Login(c.Context(), input.Identity, input.Password)
		if err != nil || creator == nil {
			return common.ProblemDetailsJSON(c, "Invalid identity or password",
				nil, "Identity or password is incorrect", fiber.StatusUnauthorized)
		}
		token, err := svc.GenerateToken(creator)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login",
			fiber.Map{"token": token})
	}
}
