package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/observability"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

const dashboardCacheKey = "admin:dashboard"

// AdminService serves the administrator views.
type AdminService interface {
	Dashboard(ctx context.Context, caller auth.UserContext) (dto.AdminDashboardResponse, error)
	ListUsers(ctx context.Context, caller auth.UserContext, req dto.AdminUserListRequest) ([]dto.UserResponse, error)
	ListStudents(ctx context.Context, caller auth.UserContext) ([]dto.StudentResponse, error)
	ListTeachers(ctx context.Context, caller auth.UserContext) ([]dto.TeacherResponse, error)
	ListParents(ctx context.Context, caller auth.UserContext) ([]dto.ParentResponse, error)
}

// AdminRepositories groups the stores read by the admin service.
type AdminRepositories struct {
	Dashboard repository.AdminDashboardRepository
	Users     repository.UserRepository
	Students  repository.StudentRepository
	Teachers  repository.TeacherRepository
	Parents   repository.ParentRepository
}

type adminService struct {
	repos     AdminRepositories
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminService constructs the admin service. cache may be nil.
func NewAdminService(repos AdminRepositories, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		repos:     repos,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
		now:       time.Now,
	}
}

func (s *adminService) Dashboard(ctx context.Context, caller auth.UserContext) (dto.AdminDashboardResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	tracer := otel.Tracer("github.com/noah-isme/school-portal-api/internal/service/admin")
	ctx, span := tracer.Start(ctx, "dashboard.aggregate")
	span.SetAttributes(attribute.String("dashboard.cache_key", dashboardCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var response dto.AdminDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				observability.DashboardCacheLookups().WithLabelValues("hit").Inc()
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
		observability.DashboardCacheLookups().WithLabelValues("miss").Inc()
	}

	response := dto.AdminDashboardResponse{GeneratedAt: s.now().UTC()}
	var err error
	if response.TotalStudents, err = s.repos.Dashboard.CountStudents(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_students_failed")
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalTeachers, err = s.repos.Dashboard.CountTeachers(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_teachers_failed")
		return dto.AdminDashboardResponse{}, err
	}
	if response.TotalParents, err = s.repos.Dashboard.CountParents(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_parents_failed")
		return dto.AdminDashboardResponse{}, err
	}
	if response.ActiveUsers, err = s.repos.Dashboard.CountActiveUsers(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_active_users_failed")
		return dto.AdminDashboardResponse{}, err
	}

	span.SetAttributes(
		attribute.Int64("dashboard.total_students", response.TotalStudents),
		attribute.Int64("dashboard.active_users", response.ActiveUsers),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *adminService) ListUsers(ctx context.Context, caller auth.UserContext, req dto.AdminUserListRequest) ([]dto.UserResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	filter := repository.UserFilter{Active: req.Active, Search: strings.TrimSpace(req.Search)}
	if req.Role != "" {
		filter.Role, _ = models.ParseRole(req.Role)
	}

	users, err := s.repos.Users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		result = append(result, dto.NewUserResponse(user))
	}
	return result, nil
}

func (s *adminService) ListStudents(ctx context.Context, caller auth.UserContext) ([]dto.StudentResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	students, err := s.repos.Students.ListWithUser(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		result = append(result, dto.NewStudentListItem(student))
	}
	return result, nil
}

func (s *adminService) ListTeachers(ctx context.Context, caller auth.UserContext) ([]dto.TeacherResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	teachers, err := s.repos.Teachers.ListWithUser(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		result = append(result, dto.NewTeacherResponse(teacher))
	}
	return result, nil
}

func (s *adminService) ListParents(ctx context.Context, caller auth.UserContext) ([]dto.ParentResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	parents, err := s.repos.Parents.ListWithUser(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(parents))
	for _, parent := range parents {
		ids = append(ids, parent.ID)
	}
	children, err := s.repos.Parents.ChildIDsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ParentResponse, 0, len(parents))
	for _, parent := range parents {
		result = append(result, dto.NewParentResponse(parent, children[parent.ID]))
	}
	return result, nil
}

// invalidateDashboard drops the cached snapshot so the next read recomputes the counters.
func invalidateDashboard(ctx context.Context, cache *redis.Client) error {
	if cache == nil {
		return nil
	}
	return cache.Del(ctx, dashboardCacheKey).Err()
}

// requireRole re-checks the caller's role at the service boundary.
func requireRole(caller auth.UserContext, role models.Role) error {
	if caller.UserID == 0 {
		return auth.ErrUnauthenticated
	}
	if caller.Role != role {
		return auth.ErrForbidden
	}
	return nil
}
