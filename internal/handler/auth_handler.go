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

// AuthHandler exposes registration, login and the caller's identity.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth routes. protect guards the identity endpoint.
func (h *AuthHandler) Register(router fiber.Router, protect fiber.Handler) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Get("/me", protect, middleware.WithUser(h.me))
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to register user")
	}

	requestLogger(h.logger, c).Info().Uint("user_id", resp.User.ID).Str("role", resp.User.Role.String()).Msg("user registered")
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered successfully", resp)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to log in")
	}

	return utils.SendSuccess(c, "login successful", resp)
}

func (h *AuthHandler) me(c *fiber.Ctx, user auth.UserContext) error {
	resp, err := h.service.Me(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load user")
	}
	return utils.SendSuccess(c, "user retrieved", resp)
}
