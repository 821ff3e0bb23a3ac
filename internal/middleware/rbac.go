package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/observability"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// Request locals written once a caller is authorized.
const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalAuthUser = "auth_user"
)

// RequireRole verifies the bearer token and admits the caller only when its role is one of
// roles. No roles admits any authenticated caller.
func RequireRole(gate Authorizer, roles ...models.Role) fiber.Handler {
	allowed := append([]models.Role(nil), roles...)

	return func(c *fiber.Ctx) error {
		user, err := gate.Authorize(BearerToken(c), allowed...)
		if err != nil {
			return rejectUnauthorized(c, err)
		}

		c.Locals(LocalUserID, user.UserID)
		c.Locals(LocalUserRole, user.Role.String())
		c.Locals(LocalAuthUser, user)
		return c.Next()
	}
}

func rejectUnauthorized(c *fiber.Ctx, err error) error {
	if errors.Is(err, auth.ErrForbidden) {
		observability.AuthzRejections().WithLabelValues("forbidden").Inc()
		return utils.FailWithCause(c, fiber.StatusForbidden, "insufficient permissions", auth.ErrForbidden.Error(), nil)
	}

	observability.AuthzRejections().WithLabelValues("unauthenticated").Inc()
	cause := auth.ErrUnauthenticated.Error()
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		cause = auth.ErrExpiredToken.Error()
	case errors.Is(err, auth.ErrMalformedToken):
		cause = auth.ErrMalformedToken.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		cause = auth.ErrInvalidToken.Error()
	}
	return utils.FailWithCause(c, fiber.StatusUnauthorized, "authentication required", cause, nil)
}
