// Точка входа SGD Frontend — веб-интерфейс системы управления
// документами муниципалитета. Загружает конфигурацию, инициализирует
// i18n-каталоги, клиент REST-бэкенда и менеджер сессий, запускает
// мониторинг зависимостей (topologymetrics) и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/config"
	"github.com/munimarcona/sgd-frontend/internal/server"
	"github.com/munimarcona/sgd-frontend/internal/service"
	"github.com/munimarcona/sgd-frontend/internal/ui/auth"
	"github.com/munimarcona/sgd-frontend/internal/ui/handlers"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/wizard"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("SGD Frontend запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("backend_url", cfg.BackendURL),
	)

	// Предупреждение о дефолтном значении группы topologymetrics
	if os.Getenv("SGD_DEPHEALTH_GROUP") == "" {
		logger.Warn("SGD_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Инициализация i18n и загрузка каталогов переводов
	i18n.SetDefaultLang(cfg.DefaultLang)
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки каталогов переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент REST-бэкенда SGD
	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, cfg.BackendCACertPath, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента бэкенда", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Менеджер сессий (AES-256-GCM cookie) и cookie-хранилище мастера.
	// Secure cookie — если фронтенд отдаётся по https (за ingress
	// с TLS termination определяется по схеме URL бэкенда).
	secureCookie := strings.HasPrefix(cfg.BackendURL, "https")

	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, secureCookie)
	if err != nil {
		logger.Error("Ошибка создания менеджера сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}

	wizardStore := wizard.NewStore(cfg.WizardTTL, secureCookie)

	// 6. topologymetrics — мониторинг бэкенда SGD.
	// Состояние проверок отдаётся также в /health/ready.
	ctx := context.Background()
	var deps handlers.DependencyHealth
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"sgd-frontend",
		cfg.DephealthGroup,
		cfg.BackendURL,
		cfg.DephealthCheckInterval,
		cfg.DephealthIsEntry,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		deps = dephealthSvc
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 7. Обработчики страниц
	h := server.Handlers{
		Auth:        handlers.NewAuthHandler(client, sessionMgr, logger),
		Bandeja:     handlers.NewBandejaHandler(client, logger),
		Expediente:  handlers.NewExpedienteHandler(client, logger),
		Nuevo:       handlers.NewNuevoHandler(client, wizardStore, logger),
		Admin:       handlers.NewAdminHandler(client, logger),
		Reportes:    handlers.NewReportesHandler(client, logger),
		Seguimiento: handlers.NewSeguimientoHandler(client, logger),
		Health:      handlers.NewHealthHandler(client, deps),
	}

	guard := uimiddleware.NewSessionGuard(sessionMgr, logger)

	// 8. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h, guard)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 9. Остановка фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("SGD Frontend остановлен")
}
