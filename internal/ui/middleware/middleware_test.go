package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/munimarcona/sgd-frontend/internal/domain/model"
	"github.com/munimarcona/sgd-frontend/internal/ui/auth"
)

func newGuard(t *testing.T) (*SessionGuard, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager("test-key", time.Hour, false)
	if err != nil {
		t.Fatalf("NewSessionManager вернул ошибку: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionGuard(sm, logger), sm
}

// cookieFor создаёт session cookie для указанного пользователя.
func cookieFor(t *testing.T, sm *auth.SessionManager, usuario model.UsuarioSesion) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, &auth.SessionData{Token: "tok", Usuario: usuario}); err != nil {
		t.Fatalf("SetSessionCookie вернул ошибку: %v", err)
	}
	return w.Result().Cookies()[0]
}

func TestRequireSession_SinCookie(t *testing.T) {
	guard, _ := newGuard(t)

	handler := guard.RequireSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться без сессии")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("ожидался redirect 302, получен %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect на %q, ожидается /login", loc)
	}
}

func TestRequireSession_CookieCorrupta(t *testing.T) {
	guard, _ := newGuard(t)

	handler := guard.RequireSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться с повреждённой сессией")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "basura"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("ожидался redirect 302, получен %d", w.Code)
	}
	// Повреждённый cookie должен быть очищен
	limpiado := false
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge == -1 {
			limpiado = true
		}
	}
	if !limpiado {
		t.Error("повреждённый cookie должен очищаться")
	}
}

func TestRequireSession_ConSesion(t *testing.T) {
	guard, sm := newGuard(t)

	var gotSession *auth.SessionData
	handler := guard.RequireSession()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookieFor(t, sm, model.UsuarioSesion{ID: 7, Rol: "JEFE"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", w.Code)
	}
	if gotSession == nil || gotSession.Usuario.ID != 7 {
		t.Errorf("сессия не попала в контекст: %+v", gotSession)
	}
}

func TestRequireAdmin_RolInsuficiente(t *testing.T) {
	guard, sm := newGuard(t)

	handler := guard.RequireSession()(guard.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("обработчик не должен вызываться для не-админа")
	})))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)
	req.AddCookie(cookieFor(t, sm, model.UsuarioSesion{ID: 7, Rol: "ASISTENTE"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("ожидался redirect 302, получен %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("redirect на %q, ожидается /dashboard", loc)
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	guard, sm := newGuard(t)

	handler := guard.RequireSession()(guard.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)
	req.AddCookie(cookieFor(t, sm, model.UsuarioSesion{ID: 1, Rol: "ADMIN"}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", w.Code)
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotID string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if gotID == "" {
		t.Error("request_id должен генерироваться")
	}
	if hdr := w.Header().Get(RequestIDHeader); hdr != gotID {
		t.Errorf("заголовок %s = %q, в контексте %q", RequestIDHeader, hdr, gotID)
	}
}

func TestRequestLogger_RequestIDDesdeProxy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var gotID string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set(RequestIDHeader, "proxy-id-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "proxy-id-1" {
		t.Errorf("request_id от прокси должен сохраняться, получено %q", gotID)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"/dashboard/expedientes/123", "/dashboard/expedientes/{id}"},
		{"/dashboard/expedientes/123/derivar", "/dashboard/expedientes/{id}/derivar"},
		{"/static/css/app.css", "/static/*"},
		{"/metrics", "/metrics"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, ожидается %q", tt.path, got, tt.want)
		}
	}
}
