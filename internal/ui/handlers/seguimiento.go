// seguimiento.go — поиск по экспедиентам, созданным пользователем.
// В отличие от бандехи фильтры здесь применяет бэкенд: фронтенд
// лишь пробрасывает query-параметры.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
)

// SeguimientoHandler — обработчик страницы seguimiento.
type SeguimientoHandler struct {
	client *backend.Client
	logger *slog.Logger
}

// NewSeguimientoHandler создаёт новый SeguimientoHandler.
func NewSeguimientoHandler(client *backend.Client, logger *slog.Logger) *SeguimientoHandler {
	return &SeguimientoHandler{
		client: client,
		logger: logger.With(slog.String("component", "ui.seguimiento")),
	}
}

// HandleSeguimiento обрабатывает GET /dashboard/seguimiento.
func (h *SeguimientoHandler) HandleSeguimiento(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	filtro := backend.SeguimientoFiltro{
		Busqueda:   strings.TrimSpace(q.Get("busqueda")),
		Estado:     q.Get("estado"),
		DeptFiltro: q.Get("dept_filtro"),
		FechaDesde: q.Get("fecha_desde"),
		FechaHasta: q.Get("fecha_hasta"),
	}

	data := pages.SeguimientoData{
		Usuario: session.Usuario,
		Filtro:  filtro,
	}

	expedientes, err := h.client.Seguimiento(ctx, session.Token, filtro)
	if err != nil {
		h.logger.Error("Ошибка поиска seguimiento",
			slog.Int("usuario_id", session.Usuario.ID),
			slog.String("error", err.Error()),
		)
		data.Error = mensajeError(ctx, err)
		renderizar(h.logger, w, r, pages.Seguimiento(data))
		return
	}
	data.Expedientes = expedientes

	// Список департаментов для селекта фильтра
	departamentos, err := h.client.Departamentos(ctx, session.Token)
	if err != nil {
		h.logger.Warn("Ошибка получения списка департаментов",
			slog.String("error", err.Error()),
		)
	} else {
		data.Departamentos = departamentos
	}

	renderizar(h.logger, w, r, pages.Seguimiento(data))
}
