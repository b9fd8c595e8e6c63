// health.go — health endpoints фронтенда.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (REST-бэкенд SGD доступен)
// /metrics — Prometheus метрики
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/config"
)

// DependencyHealth — источник состояния фоновых проверок зависимостей
// (topologymetrics). nil — мониторинг не запущен.
type DependencyHealth interface {
	Health() map[string]bool
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	client      *backend.Client
	deps        DependencyHealth
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(client *backend.Client, deps DependencyHealth) *HealthHandler {
	return &HealthHandler{
		client:      client,
		deps:        deps,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		Backend healthCheckResult `json:"backend"`
		// Dependencias — состояние фоновых проверок topologymetrics.
		Dependencias map[string]healthCheckResult `json:"dependencias,omitempty"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "sgd-frontend",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет доступность бэкенда SGD.
// Возвращает 200 (ok) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "sgd-frontend",
	}
	resp.Checks.Backend = healthCheckResult{Status: "ok"}

	if err := h.client.Ping(r.Context()); err != nil {
		resp.Status = "fail"
		resp.Checks.Backend = healthCheckResult{Status: "fail", Message: err.Error()}
	}

	// Фоновые проверки topologymetrics (если мониторинг запущен)
	if h.deps != nil {
		for nombre, ok := range h.deps.Health() {
			res := healthCheckResult{Status: "ok"}
			if !ok {
				res = healthCheckResult{Status: "fail"}
				resp.Status = "fail"
			}
			if resp.Checks.Dependencias == nil {
				resp.Checks.Dependencias = make(map[string]healthCheckResult)
			}
			resp.Checks.Dependencias[nombre] = res
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == "fail" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
