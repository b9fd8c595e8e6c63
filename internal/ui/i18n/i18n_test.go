package i18n

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestBundle(t *testing.T) *Bundle {
	t.Helper()
	b := NewBundle(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := LoadFromEmbedFS(b, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("LoadFromEmbedFS вернул ошибку: %v", err)
	}
	return b
}

func TestTranslate_ClaveExistente(t *testing.T) {
	b := newTestBundle(t)

	if got := b.Translate("es", "bandeja.vacia"); got != "No hay expedientes en su bandeja" {
		t.Errorf("Translate(es) = %q", got)
	}
	if got := b.Translate("en", "bandeja.vacia"); got != "There are no case files in your inbox" {
		t.Errorf("Translate(en) = %q", got)
	}
}

func TestTranslate_FallbackEspanol(t *testing.T) {
	b := newTestBundle(t)
	b.porIdioma["en"] = map[string]string{} // имитируем неполный каталог

	if got := b.Translate("en", "bandeja.vacia"); got != "No hay expedientes en su bandeja" {
		t.Errorf("ожидался fallback на испанский, получено %q", got)
	}
}

func TestTranslate_ClaveDesconocida(t *testing.T) {
	b := newTestBundle(t)

	if got := b.Translate("es", "no.existe"); got != "no.existe" {
		t.Errorf("неизвестный ключ должен возвращаться как есть, получено %q", got)
	}
}

func TestTranslatef(t *testing.T) {
	b := newTestBundle(t)

	got := b.Translatef("es", "nuevo.paso", 2, 3)
	if got != "Paso 2 de 3" {
		t.Errorf("Translatef = %q, ожидается 'Paso 2 de 3'", got)
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		accept string
		want   string
	}{
		{"es-PE,es;q=0.9", "es"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR", "es"},
		{"", "es"},
	}

	for _, tt := range tests {
		if got := MatchLanguage(tt.accept); got != tt.want {
			t.Errorf("MatchLanguage(%q) = %q, ожидается %q", tt.accept, got, tt.want)
		}
	}
}

func TestSetDefaultLang_Detect(t *testing.T) {
	SetDefaultLang("en")
	t.Cleanup(func() { SetDefaultLang("es") })

	// Запрос без cookie и без Accept-Language падает на язык по умолчанию
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := detectLanguage(r); got != "en" {
		t.Errorf("detectLanguage без подсказок = %q, ожидается язык по умолчанию en", got)
	}
	if got := LangFromContext(context.Background()); got != "en" {
		t.Errorf("LangFromContext без middleware = %q, ожидается en", got)
	}
}

func TestSetDefaultLang_ValorDesconocido(t *testing.T) {
	SetDefaultLang("de")
	t.Cleanup(func() { SetDefaultLang("es") })

	if got := DefaultLang(); got != "es" {
		t.Errorf("неподдерживаемый язык не должен приниматься, получено %q", got)
	}
}

func TestDetectLanguage_PrioridadCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "es-PE")
	r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})

	if got := detectLanguage(r); got != "en" {
		t.Errorf("cookie должен иметь приоритет, получено %q", got)
	}
}

func TestDetectLanguage_CookieInvalida(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "de"})

	if got := detectLanguage(r); got != "es" {
		t.Errorf("неподдерживаемый язык в cookie игнорируется, получено %q", got)
	}
}
