package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// ParentHandler exposes the parent endpoints.
type ParentHandler struct {
	service service.ParentService
	logger  zerolog.Logger
}

// NewParentHandler constructs the parent handler.
func NewParentHandler(service service.ParentService, logger zerolog.Logger) *ParentHandler {
	return &ParentHandler{
		service: service,
		logger:  logger.With().Str("component", "parent_handler").Logger(),
	}
}

// Register attaches the parent routes.
func (h *ParentHandler) Register(router fiber.Router) {
	router.Get("/profile", middleware.WithUser(h.profile))
	router.Get("/children", middleware.WithUser(h.children))
}

func (h *ParentHandler) profile(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Profile(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load parent profile")
	}
	return utils.SendSuccess(c, "profile retrieved", resp)
}

func (h *ParentHandler) children(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Children(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load children")
	}
	return utils.OK(c, resp, "children retrieved", fiber.Map{"count": len(resp)})
}
