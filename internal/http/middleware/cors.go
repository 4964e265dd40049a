package middleware

import (
	"net/http"

	"github.com/carebase/admin-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Headers the admin frontend reads from responses and sends on requests
// regardless of what the deployment configures.
var (
	apiExposedHeaders = []string{"Location", "Content-Language", RequestIDHeader}
	apiAllowedHeaders = []string{"Authorization", "Content-Type", LanguageHeader, RequestIDHeader}
)

// CORS returns a CORS middleware configured from the application config
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   mergeHeaders(cfg.AllowedHeaders, apiAllowedHeaders),
		ExposedHeaders:   mergeHeaders(cfg.ExposedHeaders, apiExposedHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	allowAny := func(r *http.Request, origin string) bool { return origin != "" }
	devLike := environment == "development" || environment == "local" || environment == ""

	switch {
	case containsWildcard(cfg.AllowedOrigins):
		if !devLike {
			logger.Warn("CORS wildcard origin outside development", zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAny
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case devLike:
		options.AllowOriginFunc = allowAny
		logger.Info("CORS allows every origin in development")
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func mergeHeaders(configured, required []string) []string {
	seen := make(map[string]bool, len(configured)+len(required))
	merged := make([]string, 0, len(configured)+len(required))
	for _, h := range append(append([]string{}, configured...), required...) {
		key := http.CanonicalHeaderKey(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, h)
	}
	return merged
}
