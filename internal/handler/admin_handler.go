package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// AdminHandler exposes the administrator endpoints.
type AdminHandler struct {
	service  service.AdminService
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewAdminHandler constructs the admin handler.
func NewAdminHandler(service service.AdminService, activity service.ActivityService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service:  service,
		activity: activity,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin routes to a group already guarded for the admin role.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/dashboard", middleware.WithUser(h.dashboard))
	router.Get("/users", middleware.WithUser(h.users))
	router.Get("/students", middleware.WithUser(h.students))
	router.Get("/teachers", middleware.WithUser(h.teachers))
	router.Get("/parents", middleware.WithUser(h.parents))
	router.Get("/activity", middleware.WithUser(h.activityLog))
}

func (h *AdminHandler) dashboard(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Dashboard(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dashboard")
	}
	return utils.OK(c, resp, "dashboard retrieved", fiber.Map{"cache_hit": resp.CacheHit})
}

func (h *AdminHandler) users(c *fiber.Ctx, user auth.UserContext) error {
	active, err := parseQueryBool(c, "active")
	if err != nil {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid active filter", "validation error", nil)
	}

	req := dto.AdminUserListRequest{
		Role:   strings.ToLower(strings.TrimSpace(c.Query("role"))),
		Search: c.Query("search"),
		Active: active,
	}
	resp, err := h.service.ListUsers(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list users")
	}
	return utils.OK(c, resp, "users retrieved", fiber.Map{"count": len(resp)})
}

func (h *AdminHandler) students(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.ListStudents(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list students")
	}
	return utils.OK(c, resp, "students retrieved", fiber.Map{"count": len(resp)})
}

func (h *AdminHandler) teachers(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.ListTeachers(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list teachers")
	}
	return utils.OK(c, resp, "teachers retrieved", fiber.Map{"count": len(resp)})
}

func (h *AdminHandler) parents(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.ListParents(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list parents")
	}
	return utils.OK(c, resp, "parents retrieved", fiber.Map{"count": len(resp)})
}

func (h *AdminHandler) activityLog(c *fiber.Ctx, _ auth.UserContext) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid page", "validation error", nil)
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid page_size", "validation error", nil)
	}
	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid actor_id", "validation error", nil)
	}
	if pageSize == 0 {
		pageSize = 20
	}

	resp, err := h.activity.List(c.UserContext(), dto.AdminActivityListRequest{
		Page:     page,
		PageSize: pageSize,
		ActorID:  uint(actorID),
		Role:     c.Query("role"),
		Action:   c.Query("action"),
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to list activity")
	}
	return utils.OK(c, resp.Items, "activity retrieved", resp.Pagination)
}
