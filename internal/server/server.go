// Пакет server — HTTP-сервер SGD Frontend с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/munimarcona/sgd-frontend/internal/config"
	"github.com/munimarcona/sgd-frontend/internal/ui/handlers"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/static"
)

// Handlers — набор обработчиков страниц, подключаемых к маршрутам.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Bandeja     *handlers.BandejaHandler
	Expediente  *handlers.ExpedienteHandler
	Nuevo       *handlers.NuevoHandler
	Admin       *handlers.AdminHandler
	Reportes    *handlers.ReportesHandler
	Seguimiento *handlers.SeguimientoHandler
	Health      *handlers.HealthHandler
}

// Server — HTTP-сервер SGD Frontend.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, guard *uimiddleware.SessionGuard) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(uimiddleware.MetricsMiddleware())
	router.Use(uimiddleware.RequestLogger(logger))
	router.Use(i18n.Middleware())

	// Публичные маршруты: health и metrics опрашивает Kubernetes,
	// вход и статика доступны без сессии
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Get("/login", h.Auth.HandleLoginPage)
	router.Post("/login", h.Auth.HandleLogin)
	router.Get("/logout", h.Auth.HandleLogout)

	// Корень ведёт на дашборд; RequireSession уже оттуда отправит на /login
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	// Защищённая зона: всё под /dashboard требует сессии
	router.Route("/dashboard", func(r chi.Router) {
		r.Use(guard.RequireSession())

		r.Get("/", h.Bandeja.HandleBandeja)

		r.Get("/expedientes/{id}", h.Expediente.HandleDetalle)
		r.Post("/expedientes/{id}/comentario", h.Expediente.HandleComentar)
		r.Post("/expedientes/{id}/derivar", h.Expediente.HandleDerivar)
		r.Post("/expedientes/{id}/estado", h.Expediente.HandleCambiarEstado)
		r.Get("/documentos/{nombre}", h.Expediente.HandleDescargarDocumento)

		r.Get("/nuevo", h.Nuevo.HandlePage)
		r.Post("/nuevo", h.Nuevo.HandleAccion)

		r.Get("/seguimiento", h.Seguimiento.HandleSeguimiento)

		r.Get("/reportes", h.Reportes.HandleReportes)
		r.Get("/reportes/exportar", h.Reportes.HandleExportar)

		// Админ-панель: дополнительно требуется роль ADMIN
		r.Route("/admin", func(r chi.Router) {
			r.Use(guard.RequireAdmin())

			r.Get("/", h.Admin.HandleAdmin)
			r.Post("/usuarios", h.Admin.HandleGuardarUsuario)
			r.Post("/usuarios/{id}/password", h.Admin.HandlePasswordUsuario)
			r.Post("/departamentos", h.Admin.HandleGuardarDepartamento)
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
