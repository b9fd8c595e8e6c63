package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/munimarcona/sgd-frontend/internal/domain/model"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование SessionData.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", 24*time.Hour, false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := &SessionData{
		Token: "tok-abc-123",
		Usuario: model.UsuarioSesion{
			ID:             7,
			Nombres:        "Juan",
			Apellidos:      "Pérez",
			Correo:         "juan@muni.gob.pe",
			Rol:            "JEFE",
			DepartamentoID: 3,
		},
	}

	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.Token != original.Token {
		t.Errorf("Token: want %q, got %q", original.Token, decrypted.Token)
	}
	if decrypted.Usuario.ID != original.Usuario.ID {
		t.Errorf("Usuario.ID: want %d, got %d", original.Usuario.ID, decrypted.Usuario.ID)
	}
	if decrypted.Usuario.Rol != original.Usuario.Rol {
		t.Errorf("Usuario.Rol: want %q, got %q", original.Usuario.Rol, decrypted.Usuario.Rol)
	}
	if decrypted.Usuario.DepartamentoID != original.Usuario.DepartamentoID {
		t.Errorf("Usuario.DepartamentoID: want %d, got %d",
			original.Usuario.DepartamentoID, decrypted.Usuario.DepartamentoID)
	}
}

// TestSessionManagerWithStringKey проверяет инициализацию с произвольной строкой-ключом.
func TestSessionManagerWithStringKey(t *testing.T) {
	sm, err := NewSessionManager("my-secret-key-for-testing", time.Hour, false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager с string-ключом: %v", err)
	}

	data := &SessionData{
		Token:   "token123",
		Usuario: model.UsuarioSesion{ID: 1, Rol: "ASISTENTE"},
	}

	encrypted, err := sm.Encrypt(data)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.Token != data.Token {
		t.Errorf("Token: want %q, got %q", data.Token, decrypted.Token)
	}
}

// TestSessionDecryptWithWrongKey проверяет, что дешифрование чужим ключом не работает.
func TestSessionDecryptWithWrongKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", time.Hour, false)
	sm2, _ := NewSessionManager("key-two", time.Hour, false)

	data := &SessionData{Token: "secret", Usuario: model.UsuarioSesion{ID: 1}}
	encrypted, err := sm1.Encrypt(data)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if _, err := sm2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestSessionValida проверяет, что половинчатая сессия считается отсутствующей.
func TestSessionValida(t *testing.T) {
	tests := []struct {
		name string
		data *SessionData
		want bool
	}{
		{"полная сессия", &SessionData{Token: "tok", Usuario: model.UsuarioSesion{ID: 1}}, true},
		{"без токена", &SessionData{Usuario: model.UsuarioSesion{ID: 1}}, false},
		{"без пользователя", &SessionData{Token: "tok"}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.data.Valida(); got != tt.want {
				t.Errorf("Valida() = %v, ожидается %v", got, tt.want)
			}
		})
	}
}

// TestSessionCookieSetAndGet проверяет установку и извлечение cookie.
func TestSessionCookieSetAndGet(t *testing.T) {
	sm, _ := NewSessionManager("test-key", 24*time.Hour, false)

	data := &SessionData{
		Token:   "access-123",
		Usuario: model.UsuarioSesion{ID: 7, Nombres: "Juan", Rol: "ADMIN"},
	}

	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])

	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка чтения сессии из cookie: %v", err)
	}
	if got == nil {
		t.Fatal("Сессия не найдена")
	}
	if got.Token != data.Token {
		t.Errorf("Token: want %q, got %q", data.Token, got.Token)
	}
	if got.Usuario.ID != data.Usuario.ID {
		t.Errorf("Usuario.ID: want %d, got %d", data.Usuario.ID, got.Usuario.ID)
	}

	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Cookie name: want %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Path != "/" {
		t.Errorf("Cookie path: want %q, got %q", "/", cookie.Path)
	}
	if cookie.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("Cookie MaxAge: want %d, got %d", int((24 * time.Hour).Seconds()), cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie должен быть HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}
}

// TestSessionCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestSessionCookieMissing(t *testing.T) {
	sm, _ := NewSessionManager("test-key", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	data, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Ожидалось nil data при отсутствии cookie")
	}
}

// TestSessionCookieIncompleta проверяет, что неполная сессия в cookie
// трактуется как отсутствующая.
func TestSessionCookieIncompleta(t *testing.T) {
	sm, _ := NewSessionManager("test-key", time.Hour, false)

	w := httptest.NewRecorder()
	// Токен без пользователя
	if err := sm.SetSessionCookie(w, &SessionData{Token: "tok"}); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(w.Result().Cookies()[0])

	data, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Неполная сессия должна трактоваться как отсутствующая")
	}
}

// TestClearSessionCookie проверяет очистку session cookie.
func TestClearSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", time.Hour, false)

	w := httptest.NewRecorder()
	sm.ClearSessionCookie(w)

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie очистки не установлен")
	}

	cookie := cookies[0]
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge: want -1, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Error("Value должен быть пустым")
	}
}
