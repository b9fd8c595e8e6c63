// Пакет i18n — интернационализация интерфейса SGD.
// Тексты лежат в плоских JSON-каталогах (es, en), встроенных в бинарник;
// язык запроса определяет middleware (cookie "lang" → Accept-Language →
// испанский) и кладёт его в контекст. Обработчики и шаблоны получают
// переводы через T(ctx, key) / Tf(ctx, key, args...).
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// defaultLang — язык, на который откатывается определение языка запроса
// и недостающие ключи каталогов. Устанавливается один раз при старте
// из SGD_DEFAULT_LANG (см. SetDefaultLang); исходно — испанский.
var defaultLang = "es"

// SupportedLanguages — теги языков в порядке приоритета матчинга.
var SupportedLanguages = []language.Tag{
	language.Spanish,
	language.English,
}

var matcher = language.NewMatcher(SupportedLanguages)

// SetDefaultLang задаёт язык по умолчанию. Неподдерживаемое значение
// игнорируется: лучше остаться на испанском, чем отдавать сырые ключи.
func SetDefaultLang(lang string) {
	if lang == "es" || lang == "en" {
		defaultLang = lang
	}
}

// DefaultLang возвращает текущий язык по умолчанию.
func DefaultLang() string {
	return defaultLang
}

type contextKey string

const contextKeyLang contextKey = "i18n_lang"

// Bundle — каталоги переводов всех языков. Заполняется при старте,
// далее только читается.
type Bundle struct {
	mu        sync.RWMutex
	porIdioma map[string]map[string]string
	logger    *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		porIdioma: make(map[string]map[string]string),
		logger:    logger,
	}
}

// LoadMessages разбирает плоский JSON-каталог {"key": "texto", ...}
// и регистрирует его под указанным языком.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var mensajes map[string]string
	if err := json.Unmarshal(data, &mensajes); err != nil {
		return fmt.Errorf("i18n: каталог %s не разбирается: %w", lang, err)
	}

	b.mu.Lock()
	b.porIdioma[lang] = mensajes
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Info("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(mensajes)),
		)
	}
	return nil
}

// lookup ищет ключ в каталоге одного языка.
func (b *Bundle) lookup(lang, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	msg, ok := b.porIdioma[lang][key]
	return msg, ok
}

// Translate возвращает перевод ключа: сперва запрошенный язык, затем
// испанский. Ненайденный ключ возвращается как есть — заметно на странице
// и не роняет рендеринг.
func (b *Bundle) Translate(lang, key string) string {
	if msg, ok := b.lookup(lang, key); ok {
		return msg
	}
	if lang != defaultLang {
		if msg, ok := b.lookup(defaultLang, key); ok {
			return msg
		}
	}
	return key
}

// Translatef — Translate с подстановкой аргументов.
// Формат-строка приходит из JSON-каталога во время выполнения, поэтому
// printf-анализатор go vet её проверить не может (см. formatFunc).
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	plantilla := b.Translate(lang, key)
	if len(args) == 0 {
		return plantilla
	}
	return formatFunc(plantilla, args...)
}

// Глобальный Bundle: один на процесс, создаётся при старте.
var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init инициализирует глобальный Bundle. Повторные вызовы возвращают
// уже созданный экземпляр.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// GetBundle возвращает глобальный Bundle (nil до Init).
func GetBundle() *Bundle {
	return globalBundle
}

// WithLang помещает язык в контекст запроса.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык запроса; без middleware — испанский.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return defaultLang
}

// T возвращает перевод ключа на языке запроса.
func T(ctx context.Context, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(LangFromContext(ctx), key)
}

// Tf возвращает перевод ключа с аргументами на языке запроса.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// formatFunc — fmt.Sprintf через переменную: формат-строки загружаются
// из каталогов во время выполнения, статическая printf-проверка неприменима.
//
//nolint:govet
var formatFunc = fmt.Sprintf

// MatchLanguage выбирает поддерживаемый язык по Accept-Language.
func MatchLanguage(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	if strings.HasPrefix(base.String(), "en") {
		return "en"
	}
	return defaultLang
}
