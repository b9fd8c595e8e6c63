// cookie.go — хранение состояния мастера в короткоживущем cookie.
// Состояние не содержит секретов, поэтому хранится как base64-JSON
// без шифрования.
package wizard

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CookieName — имя cookie состояния мастера.
const CookieName = "sgd_wizard"

// Store читает и пишет состояние мастера в cookie.
type Store struct {
	ttl    time.Duration
	secure bool
}

// NewStore создаёт хранилище состояния мастера.
func NewStore(ttl time.Duration, secure bool) *Store {
	return &Store{ttl: ttl, secure: secure}
}

// Save сериализует состояние в cookie ответа.
func (s *Store) Save(w http.ResponseWriter, estado *Estado) error {
	payload, err := json.Marshal(estado)
	if err != nil {
		return fmt.Errorf("сериализация состояния мастера: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/dashboard/nuevo",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load извлекает состояние из cookie запроса.
// Отсутствующий или повреждённый cookie даёт свежее состояние:
// мастер просто начинается заново.
func (s *Store) Load(r *http.Request) *Estado {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Nuevo()
	}

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Nuevo()
	}

	var estado Estado
	if err := json.Unmarshal(payload, &estado); err != nil {
		return Nuevo()
	}
	if estado.Paso == "" {
		return Nuevo()
	}
	return &estado
}

// Clear удаляет cookie состояния (после успешной отправки или отмены).
func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/dashboard/nuevo",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
