// Package activity exposes the creator activity feed route.
package activity

import (
	"github.com/gofiber/fiber/v2"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/middleware"
	activitysvc "github.com/natepay/natepay/pkg/service/activity"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers the activity feed route.
func Routes(app *fiber.App, svc *activitysvc.Service, cfg *config.App) {
	app.Get("/feed", middleware.JwtProtected(*cfg.Auth.Jwt), Feed(svc))
}

// Feed returns a page of the creator's activity, newest first.
// @Summary Activity feed
// @Tags activity
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} common.Response
// @Router /feed [get]
// @Security Bearer
func Feed(svc *activitysvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		entries, err := svc.ListFeed(c.Context(), creatorID,
			c.QueryInt("limit"), c.QueryInt("offset"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list activity", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Activity found", entries)
	}
}
