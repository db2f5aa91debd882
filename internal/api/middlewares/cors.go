package middlewares

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

const (
	maxAge = 300
)

// CorsMiddleware lets browser clients read resources and post tool calls
// from the configured origins.
func CorsMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{traceIdHeader},
		MaxAge:         maxAge,
	})
	return c.Handler
}
