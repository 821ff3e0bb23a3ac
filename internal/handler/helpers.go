package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message,omitempty"`
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseQueryBool(c *fiber.Ctx, key string) (*bool, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// respondError maps service and gate errors onto the response envelope. Unclassified
// errors are logged and answered with 500.
func respondError(c *fiber.Ctx, base zerolog.Logger, err error, failure string) error {
	var validationErrs validator.ValidationErrors
	var fieldErr *service.ValidationError

	switch {
	case errors.As(err, &validationErrs):
		return utils.FailWithCause(c, fiber.StatusBadRequest, "validation failed", "validation error", validationDetails(validationErrs))
	case errors.As(err, &fieldErr):
		details := []FieldError{{Field: fieldErr.Field, Message: fieldErr.Message}}
		return utils.FailWithCause(c, fiber.StatusBadRequest, "validation failed", fieldErr.Error(), details)
	case errors.Is(err, service.ErrDuplicateEmail):
		return utils.FailWithCause(c, fiber.StatusBadRequest, "user already exists", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid credentials", err.Error(), nil)
	case errors.Is(err, service.ErrClassAlreadyAssigned):
		return utils.FailWithCause(c, fiber.StatusConflict, "class already assigned", err.Error(), nil)
	case errors.Is(err, service.ErrAccountInactive):
		return utils.FailWithCause(c, fiber.StatusForbidden, "account deactivated", err.Error(), nil)
	case errors.Is(err, auth.ErrUnauthenticated):
		return utils.FailWithCause(c, fiber.StatusUnauthorized, "authentication required", err.Error(), nil)
	case errors.Is(err, auth.ErrForbidden):
		return utils.FailWithCause(c, fiber.StatusForbidden, "insufficient permissions", err.Error(), nil)
	case errors.Is(err, service.ErrNotFound):
		return utils.FailWithCause(c, fiber.StatusNotFound, err.Error(), service.ErrNotFound.Error(), nil)
	default:
		requestLogger(base, c).Error().Err(err).Str("path", c.Path()).Msg(failure)
		return utils.FailWithCause(c, fiber.StatusInternalServerError, failure, "internal error", nil)
	}
}

func validationDetails(errs validator.ValidationErrors) []FieldError {
	details := make([]FieldError, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, FieldError{Field: fieldErr.Field(), Rule: fieldErr.Tag()})
	}
	return details
}

// pathID reads a positive numeric route parameter.
func pathID(c *fiber.Ctx, key string) (uint, bool) {
	value, err := c.ParamsInt(key)
	if err != nil || value <= 0 {
		return 0, false
	}
	return uint(value), true
}

func invalidBody(c *fiber.Ctx) error {
	return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid request body", "validation error", nil)
}
