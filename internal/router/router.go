package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/school-portal-api/internal/config"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/observability"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Gate                 middleware.Authorizer
	AuthHandler          *handler.AuthHandler
	AdminHandler         *handler.AdminHandler
	SchoolRecordsHandler *handler.SchoolRecordsHandler
	TeacherHandler       *handler.TeacherHandler
	GradebookHandler     *handler.GradebookHandler
	ParentHandler        *handler.ParentHandler
	StudentHandler       *handler.StudentHandler
	DatabasePing         handler.Pinger
	AuthRateLimit        fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Every role group mounts the
// authorization gate before its handlers.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	health := handler.HealthCheck(cfg, deps.DatabasePing)
	app.Get("/health", health)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", health)

	if deps.AuthHandler != nil {
		var authGroup fiber.Router
		if deps.AuthRateLimit != nil {
			authGroup = api.Group("/auth", deps.AuthRateLimit)
		} else {
			authGroup = api.Group("/auth")
		}
		deps.AuthHandler.Register(authGroup, middleware.JWTProtected(deps.Gate))
	}

	if deps.AdminHandler != nil || deps.SchoolRecordsHandler != nil {
		admin := api.Group("/admin", middleware.RequireRole(deps.Gate, models.RoleAdmin))
		if deps.AdminHandler != nil {
			deps.AdminHandler.Register(admin)
		}
		if deps.SchoolRecordsHandler != nil {
			deps.SchoolRecordsHandler.Register(admin)
		}
	}
	if deps.TeacherHandler != nil || deps.GradebookHandler != nil {
		teacher := api.Group("/teacher", middleware.RequireRole(deps.Gate, models.RoleTeacher))
		if deps.TeacherHandler != nil {
			deps.TeacherHandler.Register(teacher)
		}
		if deps.GradebookHandler != nil {
			deps.GradebookHandler.Register(teacher)
		}
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api.Group("/student", middleware.RequireRole(deps.Gate, models.RoleStudent)))
	}
	if deps.ParentHandler != nil {
		deps.ParentHandler.Register(api.Group("/parent", middleware.RequireRole(deps.Gate, models.RoleParent)))
	}

	app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "route not found")
	})
}
