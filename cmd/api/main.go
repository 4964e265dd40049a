package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carebase/admin-api/docs"
	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/database"
	"github.com/carebase/admin-api/internal/http/handler"
	"github.com/carebase/admin-api/internal/http/middleware"
	"github.com/carebase/admin-api/internal/http/router"
	"github.com/carebase/admin-api/internal/i18n"
	"github.com/carebase/admin-api/internal/jobs"
	"github.com/carebase/admin-api/internal/logger"
	"github.com/carebase/admin-api/internal/repository"
	"github.com/carebase/admin-api/internal/service"
	"github.com/carebase/admin-api/internal/storage"
	"github.com/carebase/admin-api/internal/telemetry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// @title Care Admin API
// @version 1.0
// @description Role-scoped administration API for clients, appointments, HR leave and documents

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// In development secrets come from the environment, elsewhere from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.Environment,
			Release:          cfg.App.Name,
			EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			log.Warn("Sentry initialization failed, continuing without it", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
			log.Info("Sentry initialized")
		}
	}

	shutdownTracing := telemetry.Setup(ctx, &cfg.Telemetry, cfg.App.Environment, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	catalog, err := i18n.Load(cfg.I18n.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	clientRepo := repository.NewClientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	leaveRepo := repository.NewHRLeaveRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	chatRepo := repository.NewChatRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	// Initialize services
	tokens := auth.NewTokenManager(&cfg.Auth)
	activityService := service.NewActivityService(activityRepo, log)
	sessionService := service.NewSessionService(userRepo, orgRepo, tokenRepo, tokens, catalog, activityService, &cfg.Auth, log)
	userService := service.NewUserService(userRepo, activityService, log)
	clientService := service.NewClientService(clientRepo, userRepo, documentRepo, appointmentRepo, activityService, log)
	appointmentService := service.NewAppointmentService(appointmentRepo, clientRepo, userRepo, activityService, log)
	leaveService := service.NewHRLeaveService(leaveRepo, activityService, log)
	documentService := service.NewDocumentService(documentRepo, clientRepo, fileStorage, activityService, log)
	noteService := service.NewNoteService(noteRepo, clientRepo, activityService, log)
	chatService := service.NewChatService(chatRepo, log)
	dashboardService := service.NewDashboardService(userRepo, clientRepo, appointmentRepo, activityRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, catalog, authMiddleware, rateLimiter, router.Handlers{
		Auth:        handler.NewAuthHandler(sessionService, log),
		User:        handler.NewUserHandler(userService, log),
		Client:      handler.NewClientHandler(clientService, log),
		Appointment: handler.NewAppointmentHandler(appointmentService, log),
		HRLeave:     handler.NewHRLeaveHandler(leaveService, log),
		Document:    handler.NewDocumentHandler(documentService, cfg.Storage.MaxUploadSizeMB, log),
		File:        handler.NewFileHandler(fileStorage, log),
		Note:        handler.NewNoteHandler(noteService, log),
		Chat:        handler.NewChatHandler(chatService, log),
		Dashboard:   handler.NewDashboardHandler(dashboardService, log),
		Activity:    handler.NewActivityHandler(activityService, log),
		I18n:        handler.NewI18nHandler(catalog),
	})

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterTokenCleanupJob(scheduler, tokenRepo, log, cfg.Jobs.TokenCleanupSchedule); err != nil {
			log.Error("Failed to register token cleanup job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
