// Пакет handlers — HTTP-обработчики UI SGD Frontend.
// Каждая страница — свой обработчик со своим component-логгером.
// Обработчики не держат состояния домена: всё живёт в бэкенде,
// сюда приходят только ответы REST API и данные форм.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
)

// renderizar пишет HTML-страницу в ответ. Ошибка рендеринга на этом
// этапе означает, что часть ответа уже могла уйти клиенту, поэтому
// только логируем и отдаём 500, если заголовки ещё не отправлены.
func renderizar(logger *slog.Logger, w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// mensajeError превращает ошибку клиента бэкенда в текст для пользователя.
// Сообщения валидации и бизнес-отказов показываются дословно;
// транспортные и прочие ошибки сводятся к одному переведённому сообщению,
// чтобы не светить детали инфраструктуры.
func mensajeError(ctx context.Context, err error) string {
	var ve *backend.ValidationError
	if errors.As(err, &ve) {
		return ve.Mensaje
	}

	var be *backend.BusinessError
	if errors.As(err, &be) {
		return be.Mensaje
	}

	return i18n.T(ctx, "error.conexion")
}

// idFromURL извлекает числовой параметр {id} из chi-маршрута.
func idFromURL(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// redirectConExito делает redirect на path с flash-сообщением в query.
func redirectConExito(w http.ResponseWriter, r *http.Request, path, mensaje string) {
	http.Redirect(w, r, path+"?exito="+url.QueryEscape(mensaje), http.StatusSeeOther)
}
