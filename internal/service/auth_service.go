package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/observability"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthService handles registration, login and identity lookups.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, caller auth.UserContext) (dto.UserResponse, error)
}

// AuthDependencies groups the collaborators of the auth service.
type AuthDependencies struct {
	Users    repository.UserRepository
	Students repository.StudentRepository
	Accounts repository.AccountRepository
	Hasher   auth.PasswordHasher
	Tokens   auth.TokenIssuer
	Activity ActivityRecorder
	Events   AccountEventPublisher
	// DashboardCache holds the admin dashboard snapshot dropped after each registration.
	DashboardCache *redis.Client
}

type authService struct {
	deps      AuthDependencies
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAuthService constructs the auth service. Activity, Events and DashboardCache may be nil.
func NewAuthService(deps AuthDependencies, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		deps:      deps,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "auth_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/school-portal-api/internal/service/auth"),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	ctx, span := s.tracer.Start(ctx, "auth.register")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}
	if len(req.Password) > maxPasswordBytes {
		return dto.AuthResponse{}, newValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		return dto.AuthResponse{}, newValidationError("role", "must be one of admin, teacher, student, parent")
	}
	span.SetAttributes(attribute.String("auth.role", role.String()))

	name := s.clean(req.Name)
	if name == "" {
		return dto.AuthResponse{}, newValidationError("name", "must contain text")
	}
	email := repository.NormalizeEmail(req.Email)

	exists, err := s.deps.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return dto.AuthResponse{}, s.fail(span, "email_lookup_failed", fmt.Errorf("check email: %w", err))
	}
	if exists {
		return dto.AuthResponse{}, ErrDuplicateEmail
	}

	draft, err := newProfileDraft(role, req, s.clean)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if err := s.checkReferences(ctx, draft); err != nil {
		return dto.AuthResponse{}, err
	}

	hash, err := s.deps.Hasher.Hash(req.Password)
	if err != nil {
		return dto.AuthResponse{}, s.fail(span, "hash_failed", err)
	}

	now := s.now()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Phone:        strings.TrimSpace(req.Phone),
		Address:      s.clean(req.Address),
		IsActive:     true,
	}
	if err := s.deps.Accounts.Create(ctx, &user, draft.build(now)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrDuplicateEmail
		}
		return dto.AuthResponse{}, s.fail(span, "create_account_failed", fmt.Errorf("create account: %w", err))
	}

	response, err := s.authenticate(user)
	if err != nil {
		return dto.AuthResponse{}, s.fail(span, "issue_token_failed", err)
	}

	observability.Registrations().WithLabelValues(role.String()).Inc()
	span.SetAttributes(attribute.Int64("auth.user_id", int64(user.ID)))

	if err := invalidateDashboard(ctx, s.deps.DashboardCache); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate dashboard cache")
	}
	s.record(ctx, user, ActionUserRegistered, map[string]interface{}{"email": user.Email, "role": role.String()})
	if s.deps.Events != nil {
		if err := s.deps.Events.PublishRegistered(ctx, user); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to publish registration event")
		}
	}

	return response, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.deps.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.AuthAttempts().WithLabelValues("invalid_credentials").Inc()
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		observability.AuthAttempts().WithLabelValues("error").Inc()
		return dto.AuthResponse{}, s.fail(span, "user_lookup_failed", fmt.Errorf("load user: %w", err))
	}

	if err := s.deps.Hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			observability.AuthAttempts().WithLabelValues("invalid_credentials").Inc()
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		observability.AuthAttempts().WithLabelValues("error").Inc()
		return dto.AuthResponse{}, s.fail(span, "compare_failed", fmt.Errorf("compare password: %w", err))
	}

	if !user.IsActive {
		observability.AuthAttempts().WithLabelValues("inactive").Inc()
		return dto.AuthResponse{}, ErrAccountInactive
	}

	response, err := s.authenticate(user)
	if err != nil {
		observability.AuthAttempts().WithLabelValues("error").Inc()
		return dto.AuthResponse{}, s.fail(span, "issue_token_failed", err)
	}

	observability.AuthAttempts().WithLabelValues("success").Inc()
	span.SetAttributes(
		attribute.Int64("auth.user_id", int64(user.ID)),
		attribute.String("auth.role", user.Role.String()),
	)
	s.record(ctx, user, ActionUserLogin, map[string]interface{}{"email": user.Email})

	return response, nil
}

func (s *authService) Me(ctx context.Context, caller auth.UserContext) (dto.UserResponse, error) {
	user, err := s.deps.Users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	if user.Role != caller.Role {
		return dto.UserResponse{}, auth.ErrForbidden
	}
	return dto.NewUserResponse(user), nil
}

// checkReferences verifies that ids supplied at registration point at real records.
func (s *authService) checkReferences(ctx context.Context, draft ProfileDraft) error {
	switch d := draft.(type) {
	case ParentDraft:
		if len(d.Children) == 0 {
			return nil
		}
		found, err := s.deps.Students.CountByIDs(ctx, d.Children)
		if err != nil {
			return fmt.Errorf("check children: %w", err)
		}
		if found != int64(len(d.Children)) {
			return newValidationError("children", "every child must reference an existing student")
		}
	case StudentDraft:
		if d.ParentID == nil {
			return nil
		}
		parent, err := s.deps.Users.GetByID(ctx, *d.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newValidationError("parentId", "must reference an existing parent")
			}
			return fmt.Errorf("check parent: %w", err)
		}
		if parent.Role != models.RoleParent {
			return newValidationError("parentId", "must reference an existing parent")
		}
	case TeacherDraft, AdminDraft:
	default:
		return fmt.Errorf("unsupported profile draft %T", draft)
	}
	return nil
}

func (s *authService) authenticate(user models.User) (dto.AuthResponse, error) {
	token, expiresAt, err := s.deps.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) record(ctx context.Context, user models.User, action string, metadata map[string]interface{}) {
	if s.deps.Activity == nil {
		return
	}
	entityID := user.ID
	entry := ActivityEntry{
		ActorID:    user.ID,
		ActorRole:  user.Role,
		Action:     action,
		EntityType: "user",
		EntityID:   &entityID,
		Metadata:   metadata,
	}
	if _, err := s.deps.Activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Uint("user_id", user.ID).Msg("failed to record activity")
	}
}

func (s *authService) fail(span trace.Span, status string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}

// clean strips markup from free text. Entities produced by the policy are unescaped so
// names such as O'Brien are stored as typed.
func (s *authService) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}
