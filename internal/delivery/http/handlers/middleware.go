package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/logger"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/metrics"
)

var newRequestID = mustRequestIDGenerator()

func mustRequestIDGenerator() func() string {
	gen, err := nanoid.Standard(21)
	if err != nil {
		panic(err)
	}
	return gen
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// WithMiddleware wraps the router with correlation ids, response headers,
// request logging and HTTP metrics.
func WithMiddleware(next http.Handler, m *metrics.IntakeMetrics, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := newRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		duration := time.Since(start)
		if m != nil {
			handler := routeLabel(r.URL.Path)
			m.HTTPRequestsTotal.WithLabelValues(handler, r.Method, strconv.Itoa(rec.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(handler, r.Method).Observe(duration.Seconds())
		}
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
		)
	})
}

// routeLabel keeps metric cardinality bounded for parameterized paths.
func routeLabel(path string) string {
	switch {
	case path == "/orders":
		return "orders"
	case path == "/login":
		return "login"
	case path == "/health":
		return "health"
	case strings.HasPrefix(path, "/showroom-mails/"):
		return "showroom_mails"
	default:
		return "other"
	}
}
