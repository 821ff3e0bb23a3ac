package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/service"
)

type stubAdminService struct {
	dashboard dto.AdminDashboardResponse
	lastUsers dto.AdminUserListRequest
	err       error
}

func (s *stubAdminService) Dashboard(context.Context, auth.UserContext) (dto.AdminDashboardResponse, error) {
	return s.dashboard, s.err
}

func (s *stubAdminService) ListUsers(_ context.Context, _ auth.UserContext, req dto.AdminUserListRequest) ([]dto.UserResponse, error) {
	s.lastUsers = req
	return []dto.UserResponse{{ID: 1, Name: "Ada"}}, s.err
}

func (s *stubAdminService) ListStudents(context.Context, auth.UserContext) ([]dto.StudentResponse, error) {
	return []dto.StudentResponse{}, s.err
}

func (s *stubAdminService) ListTeachers(context.Context, auth.UserContext) ([]dto.TeacherResponse, error) {
	return []dto.TeacherResponse{}, s.err
}

func (s *stubAdminService) ListParents(context.Context, auth.UserContext) ([]dto.ParentResponse, error) {
	return []dto.ParentResponse{}, s.err
}

type stubActivityService struct {
	lastList dto.AdminActivityListRequest
}

func (s *stubActivityService) Record(context.Context, service.ActivityEntry) (dto.AdminActivityResponse, error) {
	return dto.AdminActivityResponse{}, nil
}

func (s *stubActivityService) List(_ context.Context, req dto.AdminActivityListRequest) (dto.AdminActivityListResponse, error) {
	s.lastList = req
	return dto.AdminActivityListResponse{
		Items:      []dto.AdminActivityResponse{{ID: 1, Action: "user.login"}},
		Pagination: dto.PaginationMeta{Page: 1, PageSize: req.PageSize, TotalItems: 1, TotalPages: 1},
	}, nil
}

var adminUser = auth.UserContext{UserID: 1, Role: models.RoleAdmin}

func newAdminApp(svc service.AdminService, activity service.ActivityService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/admin", asUser(adminUser))
	handler.NewAdminHandler(svc, activity, zerolog.Nop()).Register(group)
	return app
}

func TestAdminHandlerDashboardReportsCacheHit(t *testing.T) {
	svc := &stubAdminService{dashboard: dto.AdminDashboardResponse{TotalStudents: 4, GeneratedAt: time.Now(), CacheHit: true}}
	app := newAdminApp(svc, &stubActivityService{})

	resp, payload := doJSON(t, app, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, true, payload.Meta["cache_hit"])

	var data dto.AdminDashboardResponse
	require.NoError(t, json.Unmarshal(payload.Data, &data))
	require.Equal(t, int64(4), data.TotalStudents)
}

func TestAdminHandlerUsersParsesFilters(t *testing.T) {
	svc := &stubAdminService{}
	app := newAdminApp(svc, &stubActivityService{})

	resp, payload := doJSON(t, app, http.MethodGet, "/api/admin/users?role=Teacher&search=ann&active=true", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), payload.Meta["count"])
	require.Equal(t, "teacher", svc.lastUsers.Role)
	require.Equal(t, "ann", svc.lastUsers.Search)
	require.NotNil(t, svc.lastUsers.Active)
	require.True(t, *svc.lastUsers.Active)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/users?active=maybe", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminHandlerActivityPaginates(t *testing.T) {
	activity := &stubActivityService{}
	app := newAdminApp(&stubAdminService{}, activity)

	resp, payload := doJSON(t, app, http.MethodGet, "/api/admin/activity?page=2&actor_id=5&action=user.login", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 2, activity.lastList.Page)
	require.Equal(t, 20, activity.lastList.PageSize)
	require.Equal(t, uint(5), activity.lastList.ActorID)
	require.Equal(t, float64(1), payload.Meta["total_items"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/activity?page=abc", nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminHandlerListingsMapErrors(t *testing.T) {
	app := newAdminApp(&stubAdminService{err: auth.ErrForbidden}, &stubActivityService{})

	for _, path := range []string{"/api/admin/students", "/api/admin/teachers", "/api/admin/parents"} {
		resp, payload := doJSON(t, app, http.MethodGet, path, nil)
		require.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
		require.False(t, payload.Success)
	}
}

type stubTeacherService struct {
	students []dto.StudentResponse
	err      error
}

func (s *stubTeacherService) Profile(context.Context, auth.UserContext) (dto.TeacherResponse, error) {
	return dto.TeacherResponse{}, s.err
}

func (s *stubTeacherService) MyStudents(context.Context, auth.UserContext) ([]dto.StudentResponse, error) {
	return s.students, s.err
}

func TestTeacherHandlerStudents(t *testing.T) {
	svc := &stubTeacherService{students: []dto.StudentResponse{{ID: 1}, {ID: 2}}}
	app := fiber.New()
	handler.NewTeacherHandler(svc, zerolog.Nop()).Register(app.Group("/api/teacher", asUser(auth.UserContext{UserID: 2, Role: models.RoleTeacher})))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/teacher/students", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, float64(2), payload.Meta["count"])

	svc.err = service.ErrTeacherNotFound
	resp, payload = doJSON(t, app, http.MethodGet, "/api/teacher/profile", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, service.ErrNotFound.Error(), payload.Error)
}

type stubParentService struct{}

func (stubParentService) Profile(context.Context, auth.UserContext) (dto.ParentResponse, error) {
	return dto.ParentResponse{ChildIDs: []uint{3}}, nil
}

func (stubParentService) Children(context.Context, auth.UserContext) ([]dto.StudentResponse, error) {
	return []dto.StudentResponse{{ID: 3, User: dto.UserSummary{ID: 9, Name: "Kid"}}}, nil
}

func TestParentHandlerChildren(t *testing.T) {
	app := fiber.New()
	handler.NewParentHandler(stubParentService{}, zerolog.Nop()).Register(app.Group("/api/parent", asUser(auth.UserContext{UserID: 4, Role: models.RoleParent})))

	resp, payload := doJSON(t, app, http.MethodGet, "/api/parent/children", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var children []dto.StudentResponse
	require.NoError(t, json.Unmarshal(payload.Data, &children))
	require.Len(t, children, 1)
	require.Equal(t, "Kid", children[0].User.Name)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/parent/profile", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

type stubStudentService struct {
	err error
}

func (s stubStudentService) Profile(context.Context, auth.UserContext) (dto.StudentResponse, error) {
	return dto.StudentResponse{}, s.err
}

func (s stubStudentService) Grades(context.Context, auth.UserContext) ([]dto.GradeResponse, error) {
	return []dto.GradeResponse{{Subject: "Math"}}, s.err
}

func (s stubStudentService) Attendance(context.Context, auth.UserContext) ([]dto.AttendanceResponse, error) {
	return []dto.AttendanceResponse{}, s.err
}

func TestStudentHandlerRoutes(t *testing.T) {
	app := fiber.New()
	handler.NewStudentHandler(stubStudentService{}, zerolog.Nop()).Register(app.Group("/api/student", asUser(auth.UserContext{UserID: 5, Role: models.RoleStudent})))

	for _, path := range []string{"/api/student/profile", "/api/student/grades", "/api/student/attendance"} {
		resp, payload := doJSON(t, app, http.MethodGet, path, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		require.True(t, payload.Success)
	}
}

func TestStudentHandlerMapsOwnershipAndStoreErrors(t *testing.T) {
	forbidden := fiber.New()
	handler.NewStudentHandler(stubStudentService{err: auth.ErrForbidden}, zerolog.Nop()).Register(forbidden.Group("/api/student", asUser(auth.UserContext{UserID: 5, Role: models.RoleStudent})))
	resp, _ := doJSON(t, forbidden, http.MethodGet, "/api/student/grades", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	broken := fiber.New()
	handler.NewStudentHandler(stubStudentService{err: errors.New("connection reset")}, zerolog.Nop()).Register(broken.Group("/api/student", asUser(auth.UserContext{UserID: 5, Role: models.RoleStudent})))
	resp, payload := doJSON(t, broken, http.MethodGet, "/api/student/attendance", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "failed to load attendance", payload.Message)
}

func TestRoleHandlersRequireCaller(t *testing.T) {
	app := fiber.New()
	handler.NewStudentHandler(stubStudentService{}, zerolog.Nop()).Register(app.Group("/api/student"))

	resp, _ := doJSON(t, app, http.MethodGet, "/api/student/profile", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
