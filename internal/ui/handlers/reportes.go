// reportes.go — страница отчётов: агрегаты по состояниям и департаментам,
// тренд регистраций за 30 дней и экспорт в XLSX.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/domain/estado"
	"github.com/munimarcona/sgd-frontend/internal/domain/model"
	"github.com/munimarcona/sgd-frontend/internal/export"
	"github.com/munimarcona/sgd-frontend/internal/ui/charts"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
)

// paletaDepartamentos — циклическая палитра для полос департаментов.
var paletaDepartamentos = []string{
	"#2563eb", "#16a34a", "#d97706", "#dc2626", "#7c3aed", "#0891b2",
}

// ReportesHandler — обработчик страницы отчётов и экспорта.
type ReportesHandler struct {
	client *backend.Client
	logger *slog.Logger
}

// NewReportesHandler создаёт новый ReportesHandler.
func NewReportesHandler(client *backend.Client, logger *slog.Logger) *ReportesHandler {
	return &ReportesHandler{
		client: client,
		logger: logger.With(slog.String("component", "ui.reportes")),
	}
}

// HandleReportes обрабатывает GET /dashboard/reportes.
func (h *ReportesHandler) HandleReportes(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	data := pages.ReportesData{Usuario: session.Usuario}

	reporte, err := h.client.Reportes(r.Context(), session.Token)
	if err != nil {
		h.logger.Error("Ошибка получения отчёта",
			slog.String("error", err.Error()),
		)
		data.Error = mensajeError(r.Context(), err)
		renderizar(h.logger, w, r, pages.Reportes(data))
		return
	}

	data.Reporte = reporte
	data.BarrasEstado = barrasPorEstado(reporte.PorEstado)
	data.BarrasDepto = barrasPorDepartamento(reporte.PorDepartamento)
	data.Tendencia = charts.TrendLine(valoresTendencia(reporte.Tendencia30Dias))

	renderizar(h.logger, w, r, pages.Reportes(data))
}

// HandleExportar обрабатывает GET /dashboard/reportes/exportar —
// отдаёт отчёт файлом XLSX.
func (h *ReportesHandler) HandleExportar(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	reporte, err := h.client.Reportes(r.Context(), session.Token)
	if err != nil {
		h.logger.Error("Ошибка получения отчёта для экспорта",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Error al generar el reporte", http.StatusBadGateway)
		return
	}

	nombre := fmt.Sprintf("reporte_sgd_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))

	if err := export.ReporteXLSX(reporte, w); err != nil {
		// Заголовки уже ушли: остаётся только залогировать
		h.logger.Error("Ошибка записи XLSX",
			slog.String("error", err.Error()),
		)
	}
}

// barrasPorEstado строит полосы диаграммы состояний в цветах состояний.
func barrasPorEstado(conteos []model.ConteoEstado) []charts.Bar {
	entradas := make([]charts.BarInput, 0, len(conteos))
	for _, c := range conteos {
		entradas = append(entradas, charts.BarInput{
			Etiqueta: estado.Etiqueta(c.Estado),
			Valor:    c.Total.Int(),
			Color:    estado.Color(c.Estado),
		})
	}
	return charts.Bars(entradas)
}

// barrasPorDepartamento строит полосы диаграммы департаментов.
func barrasPorDepartamento(conteos []model.ConteoDepartamento) []charts.Bar {
	entradas := make([]charts.BarInput, 0, len(conteos))
	for i, c := range conteos {
		entradas = append(entradas, charts.BarInput{
			Etiqueta: c.Departamento,
			Valor:    c.Total.Int(),
			Color:    paletaDepartamentos[i%len(paletaDepartamentos)],
		})
	}
	return charts.Bars(entradas)
}

// valoresTendencia извлекает числовой ряд тренда.
func valoresTendencia(puntos []model.PuntoTendencia) []int {
	valores := make([]int, 0, len(puntos))
	for _, p := range puntos {
		valores = append(valores, p.Total.Int())
	}
	return valores
}
