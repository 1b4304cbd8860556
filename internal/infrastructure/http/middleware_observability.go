package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oculare/shop-backend/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Observability wraps a handler with:
// - W3C trace context extraction
// - X-Request-ID generation + echo
// - request-scoped logger injection
// - HTTP request counter and duration histogram
func Observability(
	base *zap.Logger,
	requests *prometheus.CounterVec,
	durations *prometheus.HistogramVec,
) func(http.Handler) http.Handler {
	prop := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			sc := trace.SpanContextFromContext(ctx)

			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			fields := []zap.Field{zap.String("request_id", rid)}
			if sc.IsValid() {
				fields = append(fields,
					zap.String("trace_id", sc.TraceID().String()),
					zap.String("span_id", sc.SpanID().String()),
				)
			}
			reqLogger := base.With(fields...)
			ctx = logging.ContextWithLogger(ctx, reqLogger)

			start := time.Now()
			lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lrw, r.WithContext(ctx))

			// Routes are fixed, so the raw path is a low-cardinality label.
			statusLabel := strconv.Itoa(lrw.status)
			if requests != nil {
				requests.WithLabelValues(r.Method, r.URL.Path, statusLabel).Inc()
			}
			if durations != nil {
				durations.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
