package middlewares

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"
)

// The API only ever returns JSON, so it gets the strictest policy. The
// swagger UI needs its scripts and styles.
const (
	apiContentSecurityPolicy     = "default-src 'none'; frame-ancestors 'none'"
	swaggerContentSecurityPolicy = "default-src 'self'; script-src 'self' 'unsafe-inline'; " +
		"style-src 'self' 'unsafe-inline'; img-src 'self' data:; object-src 'none'; frame-ancestors 'none'"
)

func newSecure(csp string) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: csp,
		ReferrerPolicy:        "no-referrer",
	})
}

// SecurityHeadersMiddleware sets the security headers, with a relaxed
// content policy for the swagger pages only.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	api := newSecure(apiContentSecurityPolicy)
	swagger := newSecure(swaggerContentSecurityPolicy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sec := api
			if strings.HasPrefix(r.URL.Path, "/swagger/") {
				sec = swagger
			}
			if err := sec.Process(w, r); err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("error while applying security headers")
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
