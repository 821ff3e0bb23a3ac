package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// UserHandler is a handler that needs the authorized caller.
type UserHandler func(c *fiber.Ctx, user auth.UserContext) error

// CurrentUser returns the caller stored by RequireRole.
func CurrentUser(c *fiber.Ctx) (auth.UserContext, bool) {
	user, ok := c.Locals(LocalAuthUser).(auth.UserContext)
	if !ok || user.UserID == 0 {
		return auth.UserContext{}, false
	}
	return user, true
}

// WithUser adapts a UserHandler to a fiber handler. Requests that reach it without passing
// RequireRole are answered with 401.
func WithUser(handler UserHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return utils.FailWithCause(c, fiber.StatusUnauthorized, "authentication required", auth.ErrUnauthenticated.Error(), nil)
		}
		return handler(c, user)
	}
}
