// bandeja.go — дашборд: входящая бандеха экспедиентов со счётчиками.
// Фильтрация по тексту и состоянию выполняется на стороне фронтенда:
// бэкенд отдаёт бандеху целиком.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/domain/model"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
)

// BandejaHandler — обработчик страницы бандехи.
type BandejaHandler struct {
	client *backend.Client
	logger *slog.Logger
}

// NewBandejaHandler создаёт новый BandejaHandler.
func NewBandejaHandler(client *backend.Client, logger *slog.Logger) *BandejaHandler {
	return &BandejaHandler{
		client: client,
		logger: logger.With(slog.String("component", "ui.bandeja")),
	}
}

// HandleBandeja обрабатывает GET /dashboard.
func (h *BandejaHandler) HandleBandeja(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	data := pages.BandejaData{
		Usuario:      session.Usuario,
		FiltroTexto:  strings.TrimSpace(q.Get("buscar")),
		FiltroEstado: q.Get("estado"),
		Exito:        q.Get("exito"),
	}

	expedientes, err := h.client.Bandeja(ctx, session.Token)
	if err != nil {
		h.logger.Error("Ошибка получения бандехи",
			slog.Int("usuario_id", session.Usuario.ID),
			slog.String("error", err.Error()),
		)
		data.Error = mensajeError(ctx, err)
		renderizar(h.logger, w, r, pages.Bandeja(data))
		return
	}

	// Счётчики некритичны: при ошибке страница показывается без них
	estadisticas, err := h.client.Estadisticas(ctx, session.Token)
	if err != nil {
		h.logger.Warn("Ошибка получения статистики",
			slog.String("error", err.Error()),
		)
	} else {
		data.Estadisticas = estadisticas
	}

	data.TotalSinFiltro = len(expedientes)
	data.Expedientes = filtrarBandeja(expedientes, data.FiltroTexto, data.FiltroEstado)

	renderizar(h.logger, w, r, pages.Bandeja(data))
}

// filtrarBandeja применяет текстовый фильтр (код, asunto, департамент
// происхождения, без учёта регистра) и точный фильтр по состоянию.
func filtrarBandeja(expedientes []model.Expediente, texto, estado string) []model.Expediente {
	if texto == "" && estado == "" {
		return expedientes
	}

	texto = strings.ToLower(texto)

	filtrados := make([]model.Expediente, 0, len(expedientes))
	for _, exp := range expedientes {
		if estado != "" && exp.Estado != estado {
			continue
		}
		if texto != "" && !coincideTexto(exp, texto) {
			continue
		}
		filtrados = append(filtrados, exp)
	}
	return filtrados
}

func coincideTexto(exp model.Expediente, texto string) bool {
	return strings.Contains(strings.ToLower(exp.CodigoExpediente), texto) ||
		strings.Contains(strings.ToLower(exp.Asunto), texto) ||
		strings.Contains(strings.ToLower(exp.DepartamentoOrigen), texto) ||
		strings.Contains(strings.ToLower(exp.SiglasOrigen), texto)
}
