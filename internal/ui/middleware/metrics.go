// metrics.go — Prometheus HTTP метрики фронтенда SGD.
// Регистрирует метрики: sgd_http_requests_total, sgd_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sgd_http_requests_total",
			Help: "Общее количество HTTP-запросов к фронтенду SGD",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sgd_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к фронтенду SGD в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (числовые id заменяем на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет числовые сегменты пути экспедиентов на {id}
// для предотвращения взрывного роста кардинальности метрик.
// /dashboard/expedientes/123/derivar → /dashboard/expedientes/{id}/derivar
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/", "/login", "/logout", "/health/live", "/health/ready", "/metrics",
		"/dashboard", "/dashboard/nuevo", "/dashboard/seguimiento",
		"/dashboard/reportes", "/dashboard/reportes/exportar",
		"/dashboard/admin":
		return path
	}

	const expPrefix = "/dashboard/expedientes/"
	if strings.HasPrefix(path, expPrefix) {
		rest := path[len(expPrefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return expPrefix + "{id}" + rest[i:]
		}
		return expPrefix + "{id}"
	}

	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}

	return path
}
