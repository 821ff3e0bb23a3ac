package service

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func ptrUint(v uint) *uint {
	return &v
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.User
	err    error
}

func (p *recordingPublisher) PublishRegistered(_ context.Context, user models.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, user)
	return p.err
}

// portal wires the real repositories and services against an in-memory database.
type portal struct {
	db       *gorm.DB
	tokens   *auth.TokenManager
	events   *recordingPublisher
	cache    *redis.Client
	auth     AuthService
	activity ActivityService
	students repository.StudentRepository
	teachers repository.TeacherRepository
	parents  repository.ParentRepository
	users    repository.UserRepository
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	db := setupServiceDB(t)

	tokens, err := auth.NewTokenManager("service-secret", time.Hour)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)
	activity := NewActivityService(repository.NewActivityLogRepository(db), testValidator(), testLogger())
	events := &recordingPublisher{}

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	authService := NewAuthService(AuthDependencies{
		Users:    users,
		Students: students,
		Accounts: repository.NewAccountRepository(db),
		Hasher:   auth.NewBcryptHasher(4),
		Tokens:   tokens,
		Activity: activity,
		Events:   events,

		DashboardCache: cache,
	}, testValidator(), testLogger())

	return &portal{
		db:       db,
		tokens:   tokens,
		events:   events,
		cache:    cache,
		auth:     authService,
		activity: activity,
		students: students,
		teachers: repository.NewTeacherRepository(db),
		parents:  repository.NewParentRepository(db),
		users:    users,
	}
}

func (p *portal) register(t *testing.T, req dto.RegisterRequest) dto.AuthResponse {
	t.Helper()
	if req.Password == "" {
		req.Password = "secret123"
	}
	resp, err := p.auth.Register(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func (p *portal) registerStudent(t *testing.T, name, email, class, section string) (dto.AuthResponse, models.Student) {
	t.Helper()
	resp := p.register(t, dto.RegisterRequest{Name: name, Email: email, Role: "student", Class: class, Section: section})
	student, err := p.students.GetByUserID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	return resp, student
}

func callerOf(resp dto.AuthResponse) auth.UserContext {
	return auth.UserContext{UserID: resp.User.ID, Role: resp.User.Role}
}
