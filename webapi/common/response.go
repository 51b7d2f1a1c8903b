// Package common holds the response envelope, problem-details errors and
// request binding shared by all API routes.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/natepay/natepay/pkg/domain/creator"
	"github.com/natepay/natepay/pkg/domain/payment"
	"github.com/natepay/natepay/pkg/domain/payroll"
	"github.com/natepay/natepay/pkg/domain/subscription"
	"github.com/natepay/natepay/pkg/money"
	authsvc "github.com/natepay/natepay/pkg/service/auth"
	onboardingsvc "github.com/natepay/natepay/pkg/service/onboarding"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// ProblemDetailsJSON writes a problem-details error. Extras may carry a
// detail string and an explicit status code; the status otherwise comes
// from mapping err through ErrorToStatusCode.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, extras ...any) error {
	status := fiber.StatusInternalServerError
	if err != nil {
		status = ErrorToStatusCode(err)
	}
	detail := ""
	for _, extra := range extras {
		switch v := extra.(type) {
		case string:
			detail = v
		case int:
			status = v
		}
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return ErrorResponseJSON(c, status, title, detail)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, creator.ErrCreatorNotFound),
		errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, subscription.ErrSubscriberNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, payroll.ErrMemberNotFound),
		errors.Is(err, payroll.ErrRunNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, creator.ErrCreatorUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, creator.ErrHandleTaken),
		errors.Is(err, creator.ErrEmailTaken),
		errors.Is(err, payroll.ErrRunInProgress):
		return fiber.StatusConflict
	case errors.Is(err, creator.ErrUnsupportedCountry),
		errors.Is(err, money.ErrInvalidCurrencyCode),
		errors.Is(err, payment.ErrNoProviderForCountry),
		errors.Is(err, onboardingsvc.ErrProviderNotAvailable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, subscription.ErrPriceMustBePositive),
		errors.Is(err, payment.ErrAmountMustBePositive),
		errors.Is(err, payroll.ErrNoMembers),
		errors.Is(err, payroll.ErrMemberNotOnboarded):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an
// error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error()) //nolint:errcheck
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error()) //nolint:errcheck
		return nil, err
	}
	return &input, nil
}

// CreatorIDFromContext reads the authenticated creator ID set by the JWT
// middleware.
func CreatorIDFromContext(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, creator.ErrCreatorUnauthorized
	}
	return authsvc.CreatorIDFromToken(token)
}
