package contract_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
)

type stubAdminService struct {
	dashboard dto.AdminDashboardResponse
}

func (s stubAdminService) Dashboard(context.Context, auth.UserContext) (dto.AdminDashboardResponse, error) {
	return s.dashboard, nil
}

func (stubAdminService) ListUsers(context.Context, auth.UserContext, dto.AdminUserListRequest) ([]dto.UserResponse, error) {
	return []dto.UserResponse{}, nil
}

func (stubAdminService) ListStudents(context.Context, auth.UserContext) ([]dto.StudentResponse, error) {
	return []dto.StudentResponse{}, nil
}

func (stubAdminService) ListTeachers(context.Context, auth.UserContext) ([]dto.TeacherResponse, error) {
	return []dto.TeacherResponse{}, nil
}

func (stubAdminService) ListParents(context.Context, auth.UserContext) ([]dto.ParentResponse, error) {
	return []dto.ParentResponse{}, nil
}

type stubActivityService struct{}

func (stubActivityService) Record(context.Context, service.ActivityEntry) (dto.AdminActivityResponse, error) {
	return dto.AdminActivityResponse{}, nil
}

func (stubActivityService) List(context.Context, dto.AdminActivityListRequest) (dto.AdminActivityListResponse, error) {
	return dto.AdminActivityListResponse{Items: []dto.AdminActivityResponse{}}, nil
}

func TestAdminDashboardContract(t *testing.T) {
	schema := compileSchema(t, "admin_dashboard")

	dashboard := dto.AdminDashboardResponse{
		TotalStudents: 3,
		TotalTeachers: 1,
		TotalParents:  1,
		ActiveUsers:   6,
		GeneratedAt:   time.Now().UTC(),
		CacheHit:      true,
	}

	app := fiber.New()
	group := app.Group("/api/admin", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalAuthUser, auth.UserContext{UserID: 1, Role: models.RoleAdmin})
		return c.Next()
	})
	handler.NewAdminHandler(stubAdminService{dashboard: dashboard}, stubActivityService{}, zerolog.Nop()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateBody(t, schema, resp)
}
