package middlewares

import (
	"fmt"
	"net/http"

	"github.com/lstlabs/lst-staking-service/internal/observability/tracing"
)

const traceIdHeader = "X-Trace-Id"

// TracingMiddleware attaches the span collector and echoes the trace id so
// callers can quote it when reporting a failed job.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.AttachTracingIntoContext(r.Context())
		if traceId := ctx.Value(tracing.TraceIdKey); traceId != nil {
			w.Header().Set(traceIdHeader, fmt.Sprint(traceId))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
