// Пакет middleware — HTTP middleware фронтенда SGD.
// auth.go — проверка сессии из зашифрованного cookie и проверка роли.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/munimarcona/sgd-frontend/internal/domain/rbac"
	"github.com/munimarcona/sgd-frontend/internal/ui/auth"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeySession — данные сессии в контексте запроса.
	ContextKeySession contextKey = "sgd_session"
)

// SessionGuard — middleware проверки аутентификации пользователей.
// Извлекает сессию из зашифрованного cookie, redirect на /login при
// отсутствии сессии. Токен не обновляется: истёкший токен обнаруживается
// при первом отказе бэкенда.
type SessionGuard struct {
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewSessionGuard создаёт новый SessionGuard middleware.
func NewSessionGuard(sessionManager *auth.SessionManager, logger *slog.Logger) *SessionGuard {
	return &SessionGuard{
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "session_guard")),
	}
}

// RequireSession возвращает middleware для приватных маршрутов.
// Применяется ко всем маршрутам /dashboard/*.
func (sg *SessionGuard) RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sg.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				sg.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем и redirect на login
				sg.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			if session == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin возвращает middleware для маршрутов администрирования.
// Пользователь без роли ADMIN отправляется на /dashboard.
// Применяется поверх RequireSession.
func (sg *SessionGuard) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if session == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if !rbac.EsAdmin(session.Usuario.Rol) {
				sg.logger.Info("Отказ в доступе к администрированию",
					slog.Int("usuario_id", session.Usuario.ID),
					slog.String("rol", session.Usuario.Rol),
				)
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если запрос не прошёл через RequireSession.
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}
