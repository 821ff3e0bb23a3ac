package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/models"
)

// Authorizer is the authorization gate consulted by the protection middlewares.
type Authorizer interface {
	Authorize(token string, allowed ...models.Role) (auth.UserContext, error)
}

// JWTProtected admits any authenticated user.
func JWTProtected(gate Authorizer) fiber.Handler {
	return RequireRole(gate)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header. It returns
// an empty string when the header is absent or uses another scheme.
func BearerToken(c *fiber.Ctx) string {
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authorization == "" {
		return ""
	}

	const bearer = "bearer "
	if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
		return ""
	}
	return strings.TrimSpace(authorization[len(bearer):])
}
