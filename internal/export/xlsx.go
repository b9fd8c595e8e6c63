// Пакет export — выгрузка отчёта в XLSX.
// Книга строится из уже полученного payload отчёта, без дополнительных
// обращений к бэкенду.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/munimarcona/sgd-frontend/internal/domain/estado"
	"github.com/munimarcona/sgd-frontend/internal/domain/model"
)

// Имена листов книги отчёта.
const (
	SheetResumen   = "Resumen"
	SheetPorEstado = "Por Estado"
	SheetPorDepto  = "Por Departamento"
	SheetTendencia = "Tendencia 30 Días"
)

// ReporteXLSX записывает четырёхлистовую книгу отчёта в w.
func ReporteXLSX(rep *model.Reporte, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := escribirResumen(f, rep); err != nil {
		return err
	}
	if err := escribirPorEstado(f, rep.PorEstado); err != nil {
		return err
	}
	if err := escribirPorDepartamento(f, rep.PorDepartamento); err != nil {
		return err
	}
	if err := escribirTendencia(f, rep.Tendencia30Dias); err != nil {
		return err
	}

	// Убираем лист по умолчанию
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("удаление листа по умолчанию: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("запись книги: %w", err)
	}
	return nil
}

func escribirResumen(f *excelize.File, rep *model.Reporte) error {
	if _, err := f.NewSheet(SheetResumen); err != nil {
		return fmt.Errorf("лист %s: %w", SheetResumen, err)
	}

	filas := [][]any{
		{"Indicador", "Valor"},
		{"Total de expedientes", int(rep.Resumen.Total)},
		{"Pendientes", int(rep.Resumen.Pendientes)},
		{"En proceso", int(rep.Resumen.EnProceso)},
		{"Finalizados", int(rep.Resumen.Finalizados)},
		{"Total de documentos", int(rep.Resumen.TotalDocumentos)},
	}
	return escribirFilas(f, SheetResumen, filas)
}

func escribirPorEstado(f *excelize.File, conteos []model.ConteoEstado) error {
	if _, err := f.NewSheet(SheetPorEstado); err != nil {
		return fmt.Errorf("лист %s: %w", SheetPorEstado, err)
	}

	filas := [][]any{{"Estado", "Expedientes"}}
	for _, c := range conteos {
		filas = append(filas, []any{estado.Etiqueta(c.Estado), int(c.Total)})
	}
	return escribirFilas(f, SheetPorEstado, filas)
}

func escribirPorDepartamento(f *excelize.File, conteos []model.ConteoDepartamento) error {
	if _, err := f.NewSheet(SheetPorDepto); err != nil {
		return fmt.Errorf("лист %s: %w", SheetPorDepto, err)
	}

	filas := [][]any{{"Departamento", "Siglas", "Expedientes"}}
	for _, c := range conteos {
		filas = append(filas, []any{c.Departamento, c.Siglas, int(c.Total)})
	}
	return escribirFilas(f, SheetPorDepto, filas)
}

func escribirTendencia(f *excelize.File, puntos []model.PuntoTendencia) error {
	if _, err := f.NewSheet(SheetTendencia); err != nil {
		return fmt.Errorf("лист %s: %w", SheetTendencia, err)
	}

	filas := [][]any{{"Fecha", "Expedientes"}}
	for _, p := range puntos {
		filas = append(filas, []any{p.Fecha, int(p.Total)})
	}
	return escribirFilas(f, SheetTendencia, filas)
}

// escribirFilas построчно выводит данные начиная с A1.
func escribirFilas(f *excelize.File, sheet string, filas [][]any) error {
	for i, fila := range filas {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &fila); err != nil {
			return fmt.Errorf("лист %s, строка %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
