// expediente.go — детальная карточка экспедиента и три действия над ним:
// комментарий, derivación и смена состояния. Каждое действие живёт
// в своём модальном окне; при отказе бэкенда модал переоткрывается
// с введёнными значениями и сообщением об ошибке.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
)

// ExpedienteHandler — обработчик детальной страницы экспедиента.
type ExpedienteHandler struct {
	client *backend.Client
	logger *slog.Logger
}

// NewExpedienteHandler создаёт новый ExpedienteHandler.
func NewExpedienteHandler(client *backend.Client, logger *slog.Logger) *ExpedienteHandler {
	return &ExpedienteHandler{
		client: client,
		logger: logger.With(slog.String("component", "ui.expediente")),
	}
}

// HandleDetalle обрабатывает GET /dashboard/expedientes/{id}.
// Параметр ?modal= открывает одно из трёх модальных окон.
func (h *ExpedienteHandler) HandleDetalle(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, ok := idFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	modal := r.URL.Query().Get("modal")
	switch modal {
	case pages.ModalComentar, pages.ModalDerivar, pages.ModalEstado:
	default:
		modal = ""
	}

	data := pages.DetalleData{
		Usuario: session.Usuario,
		Modal:   modal,
	}
	h.cargarDetalle(r.Context(), session.Token, id, &data)

	renderizar(h.logger, w, r, pages.Detalle(data))
}

// HandleComentar обрабатывает POST /dashboard/expedientes/{id}/comentario.
func (h *ExpedienteHandler) HandleComentar(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, ok := idFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	comentario := r.PostFormValue("comentario")

	if err := h.client.Comentar(r.Context(), session.Token, id, comentario); err != nil {
		h.logger.Warn("Комментарий отклонён",
			slog.Int("expediente_id", id),
			slog.String("error", err.Error()),
		)
		data := pages.DetalleData{
			Usuario:        session.Usuario,
			Modal:          pages.ModalComentar,
			Error:          mensajeError(r.Context(), err),
			FormComentario: comentario,
		}
		h.cargarDetalle(r.Context(), session.Token, id, &data)
		renderizar(h.logger, w, r, pages.Detalle(data))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard/expedientes/%d", id), http.StatusSeeOther)
}

// HandleDerivar обрабатывает POST /dashboard/expedientes/{id}/derivar.
func (h *ExpedienteHandler) HandleDerivar(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, ok := idFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	deptID, _ := strconv.Atoi(r.PostFormValue("nuevo_departamento_id"))
	descripcion := r.PostFormValue("descripcion")

	if err := h.client.Derivar(r.Context(), session.Token, id, deptID, descripcion); err != nil {
		h.logger.Warn("Derivación отклонена",
			slog.Int("expediente_id", id),
			slog.Int("nuevo_departamento_id", deptID),
			slog.String("error", err.Error()),
		)
		data := pages.DetalleData{
			Usuario:            session.Usuario,
			Modal:              pages.ModalDerivar,
			Error:              mensajeError(r.Context(), err),
			FormDepartamentoID: deptID,
			FormDescripcion:    descripcion,
		}
		h.cargarDetalle(r.Context(), session.Token, id, &data)
		renderizar(h.logger, w, r, pages.Detalle(data))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard/expedientes/%d", id), http.StatusSeeOther)
}

// HandleCambiarEstado обрабатывает POST /dashboard/expedientes/{id}/estado.
func (h *ExpedienteHandler) HandleCambiarEstado(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	id, ok := idFromURL(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	nuevoEstado := r.PostFormValue("nuevo_estado")
	descripcion := r.PostFormValue("descripcion")

	if err := h.client.CambiarEstado(r.Context(), session.Token, id, nuevoEstado, descripcion); err != nil {
		h.logger.Warn("Смена состояния отклонена",
			slog.Int("expediente_id", id),
			slog.String("nuevo_estado", nuevoEstado),
			slog.String("error", err.Error()),
		)
		data := pages.DetalleData{
			Usuario:         session.Usuario,
			Modal:           pages.ModalEstado,
			Error:           mensajeError(r.Context(), err),
			FormEstado:      nuevoEstado,
			FormDescripcion: descripcion,
		}
		h.cargarDetalle(r.Context(), session.Token, id, &data)
		renderizar(h.logger, w, r, pages.Detalle(data))
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard/expedientes/%d", id), http.StatusSeeOther)
}

// HandleDescargarDocumento обрабатывает GET /dashboard/documentos/{nombre} —
// проксирует вложение из uploads бэкенда. Дружественное имя файла
// передаётся параметром ?nombre=.
func (h *ExpedienteHandler) HandleDescargarDocumento(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	nombreSistema := chi.URLParam(r, "nombre")

	cuerpo, contentType, err := h.client.DescargarDocumento(r.Context(), session.Token, nombreSistema)
	if err != nil {
		h.logger.Warn("Вложение не получено",
			slog.String("nombre_sistema", nombreSistema),
			slog.String("error", err.Error()),
		)
		http.Error(w, "El documento solicitado no está disponible", http.StatusNotFound)
		return
	}
	defer cuerpo.Close()

	nombre := r.URL.Query().Get("nombre")
	if nombre == "" {
		nombre = nombreSistema
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	if _, err := io.Copy(w, cuerpo); err != nil {
		// Заголовки уже ушли: остаётся только залогировать
		h.logger.Error("Ошибка передачи вложения",
			slog.String("nombre_sistema", nombreSistema),
			slog.String("error", err.Error()),
		)
	}
}

// cargarDetalle наполняет data карточкой экспедиента и, для модала
// derivación, списком департаментов. Ошибки загрузки не прерывают
// рендеринг: страница показывается с сообщением об ошибке.
func (h *ExpedienteHandler) cargarDetalle(ctx context.Context, token string, id int, data *pages.DetalleData) {
	detalle, err := h.client.Detalle(ctx, token, id)
	if err != nil {
		h.logger.Error("Ошибка получения детали экспедиента",
			slog.Int("expediente_id", id),
			slog.String("error", err.Error()),
		)
		if data.Error == "" {
			data.Error = mensajeError(ctx, err)
		}
		// Без карточки модал открывать не в чем
		data.Modal = ""
		return
	}
	data.Detalle = detalle

	if data.Modal == pages.ModalDerivar {
		departamentos, err := h.client.Departamentos(ctx, token)
		if err != nil {
			h.logger.Warn("Ошибка получения списка департаментов",
				slog.String("error", err.Error()),
			)
		} else {
			data.Departamentos = departamentos
		}
	}
}
