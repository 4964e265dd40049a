package router

import (
	"encoding/json"
	"net/http"

	"github.com/carebase/admin-api/internal/auth"
	"github.com/carebase/admin-api/internal/config"
	"github.com/carebase/admin-api/internal/database"
	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/http/handler"
	"github.com/carebase/admin-api/internal/http/middleware"
	"github.com/carebase/admin-api/internal/i18n"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/carebase/admin-api/docs" // Import swagger docs
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Client      *handler.ClientHandler
	Appointment *handler.AppointmentHandler
	HRLeave     *handler.HRLeaveHandler
	Document    *handler.DocumentHandler
	File        *handler.FileHandler
	Note        *handler.NoteHandler
	Chat        *handler.ChatHandler
	Dashboard   *handler.DashboardHandler
	Activity    *handler.ActivityHandler
	I18n        *handler.I18nHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	catalog        *i18n.Catalog
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	catalog *i18n.Catalog,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		catalog:        catalog,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if rt.cfg.Sentry.DSN != "" {
		// Attaches a hub per request; panics are recovered and reported below
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(middleware.Recovery(rt.logger))
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	r.Use(middleware.Language(rt.catalog))
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Health check (liveness)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Local storage objects are served at the public URL recorded on documents
	if rt.cfg.Storage.Mode == "local" {
		r.Get("/files/{key}", rt.handlers.File.Serve)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(rt.rateLimiter.LimitSignIn)
			r.Post("/auth/signup", rt.handlers.Auth.SignUp)
			r.Post("/auth/signin", rt.handlers.Auth.SignIn)
			r.Post("/auth/refresh", rt.handlers.Auth.Refresh)
		})
		r.Post("/auth/signout", rt.handlers.Auth.SignOut)
		r.Get("/i18n", rt.handlers.I18n.Languages)
		r.Get("/i18n/{lang}", rt.handlers.I18n.Table)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", rt.handlers.Auth.Me)
			r.Patch("/auth/me", rt.handlers.Auth.UpdateMe)

			r.Route("/users", func(r chi.Router) {
				r.Get("/assignable", rt.handlers.User.ListAssignable)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireCapability(domain.EntityUsers, domain.ActionRead))
					r.Get("/", rt.handlers.User.List)
					r.Post("/", rt.handlers.User.Create)
					r.Get("/{id}", rt.handlers.User.GetByID)
					r.Put("/{id}", rt.handlers.User.Update)
					r.Delete("/{id}", rt.handlers.User.Delete)
				})
			})

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.handlers.Client.List)
				r.Post("/", rt.handlers.Client.Create)
				r.Get("/{id}", rt.handlers.Client.GetByID)
				r.Put("/{id}", rt.handlers.Client.Update)
				r.Delete("/{id}", rt.handlers.Client.Delete)
				r.Get("/{id}/profile", rt.handlers.Client.Profile)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", rt.handlers.Appointment.List)
				r.Post("/", rt.handlers.Appointment.Create)
				r.Get("/{id}", rt.handlers.Appointment.GetByID)
				r.Put("/{id}", rt.handlers.Appointment.Update)
				r.Delete("/{id}", rt.handlers.Appointment.Delete)
			})

			r.Route("/hr/leaves", func(r chi.Router) {
				r.Get("/", rt.handlers.HRLeave.List)
				r.Post("/", rt.handlers.HRLeave.Create)
				r.Get("/{id}", rt.handlers.HRLeave.GetByID)
				r.Delete("/{id}", rt.handlers.HRLeave.Delete)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireCapability(domain.EntityHRLeaves, domain.ActionApprove))
					r.Post("/{id}/approve", rt.handlers.HRLeave.Approve)
					r.Post("/{id}/reject", rt.handlers.HRLeave.Reject)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", rt.handlers.Document.List)
				r.Post("/", rt.handlers.Document.Upload)
				r.Get("/{id}", rt.handlers.Document.GetByID)
				r.Delete("/{id}", rt.handlers.Document.Delete)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", rt.handlers.Note.List)
				r.Post("/", rt.handlers.Note.Create)
				r.Put("/{id}", rt.handlers.Note.Update)
				r.Delete("/{id}", rt.handlers.Note.Delete)
			})

			r.Get("/chat/messages", rt.handlers.Chat.History)
			r.Post("/chat/messages", rt.handlers.Chat.Send)

			r.Get("/dashboard", rt.handlers.Dashboard.Get)

			r.With(rt.authMiddleware.RequireCapability(domain.EntityActivityLogs, domain.ActionRead)).
				Get("/activity", rt.handlers.Activity.List)
		})
	})

	return otelhttp.NewHandler(r, rt.cfg.Telemetry.ServiceName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)
}

// databaseHealth reports readiness with pool stats
func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}

// readiness combines the dependency checks
func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]interface{}{}
	status := http.StatusOK
	overall := "healthy"

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]string{"status": "unhealthy", "error": err.Error()}
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	} else {
		checks["database"] = map[string]string{"status": "healthy"}
	}

	writeHealth(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
