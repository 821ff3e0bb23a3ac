package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// TeacherHandler exposes the teacher endpoints.
type TeacherHandler struct {
	service service.TeacherService
	logger  zerolog.Logger
}

// NewTeacherHandler constructs the teacher handler.
func NewTeacherHandler(service service.TeacherService, logger zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_handler").Logger(),
	}
}

// Register attaches the teacher routes.
func (h *TeacherHandler) Register(router fiber.Router) {
	router.Get("/profile", middleware.WithUser(h.profile))
	router.Get("/students", middleware.WithUser(h.students))
}

func (h *TeacherHandler) profile(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Profile(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load teacher profile")
	}
	return utils.SendSuccess(c, "profile retrieved", resp)
}

func (h *TeacherHandler) students(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.MyStudents(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load students")
	}
	return utils.OK(c, resp, "students retrieved", fiber.Map{"count": len(resp)})
}
