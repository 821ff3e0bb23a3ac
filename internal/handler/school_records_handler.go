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

// SchoolRecordsHandler exposes class assignment, fee bookkeeping and school reports.
type SchoolRecordsHandler struct {
	service service.SchoolRecordsService
	logger  zerolog.Logger
}

// NewSchoolRecordsHandler constructs the school records handler.
func NewSchoolRecordsHandler(service service.SchoolRecordsService, logger zerolog.Logger) *SchoolRecordsHandler {
	return &SchoolRecordsHandler{
		service: service,
		logger:  logger.With().Str("component", "school_records_handler").Logger(),
	}
}

// Register attaches the records routes to a group already guarded for the admin role.
func (h *SchoolRecordsHandler) Register(router fiber.Router) {
	router.Get("/statistics", middleware.WithUser(h.statistics))
	router.Get("/reports/fees", middleware.WithUser(h.feeReport))
	router.Post("/teachers/:id/classes", middleware.WithUser(h.assignClass))
	router.Put("/students/:id/fees", middleware.WithUser(h.setFees))
	router.Post("/students/:id/payments", middleware.WithUser(h.recordPayment))
}

func (h *SchoolRecordsHandler) statistics(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Statistics(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load statistics")
	}
	return utils.SendSuccess(c, "statistics retrieved", resp)
}

func (h *SchoolRecordsHandler) feeReport(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.FeeReport(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to build fee report")
	}
	return utils.SendSuccess(c, "fee report retrieved", resp)
}

func (h *SchoolRecordsHandler) assignClass(c *fiber.Ctx, user auth.UserContext) error {
	teacherID, ok := pathID(c, "id")
	if !ok {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid teacher id", "validation error", nil)
	}
	var req dto.ClassAssignment
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.AssignClass(c.UserContext(), user, teacherID, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to assign class")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class assigned", resp)
}

func (h *SchoolRecordsHandler) setFees(c *fiber.Ctx, user auth.UserContext) error {
	studentID, ok := pathID(c, "id")
	if !ok {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid student id", "validation error", nil)
	}
	var req dto.SetFeesRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.SetFees(c.UserContext(), user, studentID, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update fees")
	}
	return utils.SendSuccess(c, "fees updated", resp)
}

func (h *SchoolRecordsHandler) recordPayment(c *fiber.Ctx, user auth.UserContext) error {
	studentID, ok := pathID(c, "id")
	if !ok {
		return utils.FailWithCause(c, fiber.StatusBadRequest, "invalid student id", "validation error", nil)
	}
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.RecordPayment(c.UserContext(), user, studentID, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to record payment")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "payment recorded", resp)
}
