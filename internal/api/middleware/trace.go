package middleware

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/phrazzld/lecturenotes/internal/api/shared"
	"github.com/phrazzld/lecturenotes/internal/platform/logger"
)

// validTraceID accepts caller-supplied IDs that are safe to echo and log.
var validTraceID = regexp.MustCompile(`^[A-Za-z0-9\-_]{8,64}$`)

// NewTraceMiddleware adds a trace ID to the request context and echoes it in
// the X-Trace-ID response header. The context also gets a request logger
// carrying the trace ID. A well-formed X-Trace-ID request header is reused;
// anything else gets a fresh ID.
// This middleware should be applied early in the middleware chain so that
// every handler and error response sees the trace ID.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if incoming := r.Header.Get(shared.TraceIDHeader); validTraceID.MatchString(incoming) {
				ctx = shared.WithTraceID(ctx, incoming)
			} else {
				ctx = shared.SetTraceID(ctx)
			}
			traceID := shared.GetTraceID(ctx)
			w.Header().Set(shared.TraceIDHeader, traceID)

			reqLogger := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, reqLogger)

			reqLogger.DebugContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
