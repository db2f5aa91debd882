package middlewares

import (
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/config"
)

// ContentLengthMiddleware rejects tool payloads above server.max-content-length.
func ContentLengthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if r.ContentLength > cfg.Server.MaxContentLength {
					http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
					return
				}
				// chunked bodies carry no length, bound the read instead
				r.Body = http.MaxBytesReader(w, r.Body, cfg.Server.MaxContentLength)
			}
			next.ServeHTTP(w, r)
		})
	}
}
