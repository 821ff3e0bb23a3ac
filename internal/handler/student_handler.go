package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// StudentHandler exposes a student's own records.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler creates a new handler instance.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/profile", middleware.WithUser(h.profile))
	router.Get("/grades", middleware.WithUser(h.grades))
	router.Get("/attendance", middleware.WithUser(h.attendance))
}

func (h *StudentHandler) profile(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Profile(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load student profile")
	}
	return utils.SendSuccess(c, "profile retrieved", resp)
}

func (h *StudentHandler) grades(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Grades(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load grades")
	}
	return utils.OK(c, resp, "grades retrieved", fiber.Map{"count": len(resp)})
}

func (h *StudentHandler) attendance(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Attendance(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load attendance")
	}
	return utils.OK(c, resp, "attendance retrieved", fiber.Map{"count": len(resp)})
}
