package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// GradebookHandler exposes the teacher write endpoints for grades and attendance.
type GradebookHandler struct {
	service service.GradebookService
	logger  zerolog.Logger
}

// NewGradebookHandler constructs the gradebook handler.
func NewGradebookHandler(service service.GradebookService, logger zerolog.Logger) *GradebookHandler {
	return &GradebookHandler{
		service: service,
		logger:  logger.With().Str("component", "gradebook_handler").Logger(),
	}
}

// Register attaches the gradebook routes to a group already guarded for the teacher role.
func (h *GradebookHandler) Register(router fiber.Router) {
	router.Post("/grades", middleware.WithUser(h.recordGrade))
	router.Post("/attendance", middleware.WithUser(h.recordAttendance))
}

func (h *GradebookHandler) recordGrade(c *fiber.Ctx, user auth.UserContext) error {
	var req dto.RecordGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.RecordGrade(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to record grade")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade recorded", resp)
}

func (h *GradebookHandler) recordAttendance(c *fiber.Ctx, user auth.UserContext) error {
	var req dto.RecordAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.RecordAttendance(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to record attendance")
	}
	return utils.OK(c, resp, "attendance recorded", fiber.Map{"count": len(resp)})
}
