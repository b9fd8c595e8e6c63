// auth.go — вход и выход пользователя.
// Аутентификацию выполняет бэкенд (POST /auth/login); фронтенд лишь
// хранит полученный JWT в зашифрованной cookie сессии.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/ui/auth"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
)

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	client         *backend.Client
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(client *backend.Client, sessionManager *auth.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		client:         client,
		sessionManager: sessionManager,
		logger:         logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage обрабатывает GET /login — форма входа.
// Уже аутентифицированного пользователя отправляем на дашборд.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	renderizar(h.logger, w, r, pages.Login(pages.LoginData{}))
}

// HandleLogin обрабатывает POST /login — проверка учётных данных.
// При отказе бэкенда его сообщение показывается дословно,
// введённый correo сохраняется в форме.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	correo := strings.TrimSpace(r.PostFormValue("correo"))
	password := r.PostFormValue("password")

	// Пустые поля не доходят до бэкенда
	if correo == "" || password == "" {
		renderizar(h.logger, w, r, pages.Login(pages.LoginData{
			Correo: correo,
			Error:  i18n.T(r.Context(), "login.campos_obligatorios"),
		}))
		return
	}

	result, err := h.client.Login(r.Context(), correo, password)
	if err != nil {
		h.logger.Warn("Вход отклонён",
			slog.String("correo", correo),
			slog.String("error", err.Error()),
		)
		renderizar(h.logger, w, r, pages.Login(pages.LoginData{
			Correo: correo,
			Error:  mensajeError(r.Context(), err),
		}))
		return
	}

	// Срок действия токена проверяет бэкенд; здесь только диагностика:
	// токен, истёкший уже при выдаче, говорит о рассинхроне часов
	if exp, err := tokenExpiry(result.Token); err == nil {
		if time.Until(exp) <= 0 {
			h.logger.Warn("Бэкенд выдал уже истёкший токен",
				slog.Time("exp", exp),
			)
		} else {
			h.logger.Debug("Токен выдан",
				slog.Time("exp", exp),
			)
		}
	}

	sessionData := &auth.SessionData{
		Token:   result.Token,
		Usuario: result.Usuario,
	}
	if err := h.sessionManager.SetSessionCookie(w, sessionData); err != nil {
		h.logger.Error("Ошибка установки session cookie",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка создания сессии", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Пользователь вошёл",
		slog.Int("usuario_id", result.Usuario.ID),
		slog.String("rol", result.Usuario.Rol),
	)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// tokenExpiry извлекает exp из JWT без проверки подписи:
// подпись валидирует бэкенд, фронтенду токен нужен только как bearer.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return claims.ExpiresAt.Time, nil
}

// HandleLogout обрабатывает GET /logout — сброс сессии.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
