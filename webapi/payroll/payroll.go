// Package payroll exposes team member management and payroll run routes.
package payroll

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/config"
	"github.com/natepay/natepay/pkg/dto"
	"github.com/natepay/natepay/pkg/middleware"
	payrollsvc "github.com/natepay/natepay/pkg/service/payroll"
	"github.com/natepay/natepay/webapi/common"
)

// Routes registers payroll routes. All require authentication.
func Routes(app *fiber.App, svc *payrollsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(*cfg.Auth.Jwt)
	app.Post("/payroll/members", protected, AddMember(svc))
	app.Get("/payroll/members", protected, ListMembers(svc))
	app.Put("/payroll/members/:id", protected, UpdateMember(svc))
	app.Delete("/payroll/members/:id", protected, RemoveMember(svc))
	app.Post("/payroll/runs", protected, ExecuteRun(svc))
	app.Get("/payroll/runs", protected, ListRuns(svc))
	app.Get("/payroll/runs/:id", protected, GetRun(svc))
}

// AddMember adds a team member with a canonical USD salary.
// @Summary Add a team member
// @Tags payroll
// @Accept json
// @Produce json
// @Param request body payrollsvc.MemberInput true "Member data"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /payroll/members [post]
// @Security Bearer
func AddMember(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[payrollsvc.MemberInput](c)
		if input == nil {
			return err
		}
		member, err := svc.AddMember(c.Context(), creatorID, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't add member", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Added member", member)
	}
}

// ListMembers returns the creator's team members.
// @Summary List team members
// @Tags payroll
// @Produce json
// @Success 200 {object} common.Response
// @Router /payroll/members [get]
// @Security Bearer
func ListMembers(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		members, err := svc.ListMembers(c.Context(), creatorID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list members", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Members found", members)
	}
}

// UpdateMember changes a team member owned by the creator.
// @Summary Update a team member
// @Tags payroll
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body dto.MemberUpdate true "Fields to update"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /payroll/members/{id} [put]
// @Security Bearer
func UpdateMember(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		memberID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid member ID", err,
				"Member ID must be a valid UUID", fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[dto.MemberUpdate](c)
		if input == nil {
			return err
		}
		member, err := svc.UpdateMember(c.Context(), creatorID, memberID, *input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't update member", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Updated member", member)
	}
}

// RemoveMember deletes a team member owned by the creator.
// @Summary Remove a team member
// @Tags payroll
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /payroll/members/{id} [delete]
// @Security Bearer
func RemoveMember(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		memberID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid member ID", err,
				"Member ID must be a valid UUID", fiber.StatusBadRequest)
		}
		if err := svc.RemoveMember(c.Context(), creatorID, memberID); err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't remove member", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Removed member", nil)
	}
}

// ExecuteRun snapshots the current team and pays everyone out. Only one
// run can be executing per creator at a time.
// @Summary Execute a payroll run
// @Tags payroll
// @Produce json
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /payroll/runs [post]
// @Security Bearer
func ExecuteRun(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		run, err := svc.ExecuteRun(c.Context(), creatorID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't execute run", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Run executed", run)
	}
}

// ListRuns returns a page of the creator's payroll runs, newest first.
// @Summary List payroll runs
// @Tags payroll
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} common.Response
// @Router /payroll/runs [get]
// @Security Bearer
func ListRuns(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		runs, err := svc.ListRuns(c.Context(), creatorID,
			c.QueryInt("limit", 20), c.QueryInt("offset", 0))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't list runs", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Runs found", runs)
	}
}

// GetRun returns one run with its per-member items.
// @Summary Get a payroll run
// @Tags payroll
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /payroll/runs/{id} [get]
// @Security Bearer
func GetRun(svc *payrollsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creatorID, err := common.CreatorIDFromContext(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		runID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid run ID", err,
				"Run ID must be a valid UUID", fiber.StatusBadRequest)
		}
		run, items, err := svc.GetRun(c.Context(), creatorID, runID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Run not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Run found",
			fiber.Map{"run": run, "items": items})
	}
}
