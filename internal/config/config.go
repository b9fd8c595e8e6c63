// Пакет config — загрузка и валидация конфигурации фронтенда SGD
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации фронтенда.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Бэкенд SGD ---

	// Базовый URL REST-бэкенда (например, https://sgd.munimarcona.gob.pe)
	BackendURL string
	// Таймаут запросов к бэкенду
	BackendTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений с бэкендом (опционально)
	BackendCACertPath string

	// --- Сессия ---

	// Секрет шифрования cookie сессии (ровно 32 байта, AES-256)
	SessionSecret string
	// Время жизни cookie сессии
	SessionTTL time.Duration
	// Время жизни cookie состояния мастера регистрации
	WizardTTL time.Duration

	// --- Локализация ---

	// Язык интерфейса по умолчанию
	DefaultLang string

	// --- Мониторинг и остановка ---

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Лейбл isentry=yes для зависимостей (фронтенд — точка входа)
	DephealthIsEntry bool
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
// Файл .env, если он есть, подхватывается до чтения переменных.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// SGD_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("SGD_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("SGD_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("SGD_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// SGD_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("SGD_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SGD_LOG_LEVEL: %w", err)
	}

	// SGD_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("SGD_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SGD_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Бэкенд SGD ---

	// SGD_BACKEND_URL — обязательный
	cfg.BackendURL, err = getEnvRequired("SGD_BACKEND_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	// SGD_BACKEND_TIMEOUT — таймаут запросов (по умолчанию 30s)
	cfg.BackendTimeout, err = getEnvDuration("SGD_BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SGD_BACKEND_TIMEOUT: %w", err)
	}

	// SGD_BACKEND_CA_CERT_PATH — путь к CA-сертификату (опционально)
	cfg.BackendCACertPath = getEnvDefault("SGD_BACKEND_CA_CERT_PATH", "")

	// --- Сессия ---

	// SGD_SESSION_SECRET — обязательный, ровно 32 байта
	cfg.SessionSecret, err = getEnvRequired("SGD_SESSION_SECRET")
	if err != nil {
		return nil, err
	}
	if len(cfg.SessionSecret) != 32 {
		return nil, fmt.Errorf("SGD_SESSION_SECRET: длина %d, требуется ровно 32 байта", len(cfg.SessionSecret))
	}

	// SGD_SESSION_TTL — время жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("SGD_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("SGD_SESSION_TTL: %w", err)
	}

	// SGD_WIZARD_TTL — время жизни состояния мастера (по умолчанию 30m)
	cfg.WizardTTL, err = getEnvDuration("SGD_WIZARD_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("SGD_WIZARD_TTL: %w", err)
	}

	// --- Локализация ---

	// SGD_DEFAULT_LANG — язык по умолчанию (по умолчанию es)
	cfg.DefaultLang = getEnvDefault("SGD_DEFAULT_LANG", "es")

	// --- Мониторинг и остановка ---

	// SGD_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("SGD_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SGD_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// SGD_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию sgd)
	cfg.DephealthGroup = getEnvDefault("SGD_DEPHEALTH_GROUP", "sgd")

	// SGD_DEPHEALTH_ISENTRY — лейбл isentry=yes (по умолчанию true)
	cfg.DephealthIsEntry = getEnvDefault("SGD_DEPHEALTH_ISENTRY", "true") == "true"

	// SGD_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("SGD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SGD_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
