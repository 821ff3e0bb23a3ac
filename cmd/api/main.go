package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/config"
	"github.com/noah-isme/school-portal-api/internal/database"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/router"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/internal/utils"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "school-portal-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if !cfg.IsProduction() {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient := connectRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	natsConn := connectNATS(cfg, logger)
	if natsConn != nil {
		defer natsConn.Drain()
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, auth.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure token manager")
	}
	gate := auth.NewGate(tokens)
	validate := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	parentRepo := repository.NewParentRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	dashboardRepo := repository.NewAdminDashboardRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	recordsRepo := repository.NewRecordsRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	authService := service.NewAuthService(service.AuthDependencies{
		Users:    userRepo,
		Students: studentRepo,
		Accounts: accountRepo,
		Hasher:   auth.NewBcryptHasher(cfg.BcryptCost),
		Tokens:   tokens,
		Activity: activityService,
		Events:   service.NewAccountEventPublisher(natsConn, cfg.EventsSubject, logger),

		DashboardCache: redisClient,
	}, validate, logger)
	adminService := service.NewAdminService(service.AdminRepositories{
		Dashboard: dashboardRepo,
		Users:     userRepo,
		Students:  studentRepo,
		Teachers:  teacherRepo,
		Parents:   parentRepo,
	}, redisClient, cfg.DashboardCacheTTL, validate, logger)
	teacherService := service.NewTeacherService(teacherRepo, studentRepo, logger)
	parentService := service.NewParentService(parentRepo, studentRepo, logger)
	studentService := service.NewStudentService(studentRepo, logger)
	gradebookService := service.NewGradebookService(service.GradebookDependencies{
		Teachers: teacherRepo,
		Students: studentRepo,
		Records:  recordsRepo,
		Activity: activityService,
	}, validate, logger)
	recordsService := service.NewSchoolRecordsService(service.SchoolRecordsDependencies{
		Dashboard: dashboardRepo,
		Teachers:  teacherRepo,
		Records:   recordsRepo,
		Activity:  activityService,
	}, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
		AccessLog:    !cfg.IsProduction(),
	})
	router.Register(app, cfg, router.Dependencies{
		Gate:                 gate,
		AuthHandler:          handler.NewAuthHandler(authService, logger),
		AdminHandler:         handler.NewAdminHandler(adminService, activityService, logger),
		SchoolRecordsHandler: handler.NewSchoolRecordsHandler(recordsService, logger),
		TeacherHandler:       handler.NewTeacherHandler(teacherService, logger),
		GradebookHandler:     handler.NewGradebookHandler(gradebookService, logger),
		ParentHandler:        handler.NewParentHandler(parentService, logger),
		StudentHandler:       handler.NewStudentHandler(studentService, logger),
		DatabasePing:         func(ctx context.Context) error { return database.Ping(ctx, db) },
		AuthRateLimit:        middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("environment", cfg.AppEnv).Msg("server starting")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, db, logger)
}

func connectRedis(cfg config.Config, logger zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Info().Msg("redis not configured, dashboard cache disabled")
		return nil
	}
	client, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard cache disabled")
		return nil
	}
	return client
}

func connectNATS(cfg config.Config, logger zerolog.Logger) *nats.Conn {
	if cfg.NATSURL == "" {
		logger.Info().Msg("nats not configured, account events disabled")
		return nil
	}
	conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, account events disabled")
		return nil
	}
	return conn
}

func waitForShutdown(app *fiber.App, db *gorm.DB, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info().Msg("server stopped")
}
