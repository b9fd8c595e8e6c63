// Пакет pages — страницы интерфейса SGD.
// Каждая страница — типизированный конструктор, возвращающий templ.Component
// поверх встроенных html/template шаблонов; язык берётся из контекста запроса.
package pages

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/domain/estado"
	"github.com/munimarcona/sgd-frontend/internal/domain/model"
	"github.com/munimarcona/sgd-frontend/internal/domain/rbac"
	"github.com/munimarcona/sgd-frontend/internal/ui/charts"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	"github.com/munimarcona/sgd-frontend/internal/ui/wizard"
)

// tpl — общий набор шаблонов, разбирается один раз при старте.
var tpl = template.Must(
	template.New("sgd").Funcs(funcs()).ParseFS(TemplateFS, "templates/*.html"),
)

// funcs возвращает FuncMap, доступный во всех шаблонах.
func funcs() template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string) string {
			if b := i18n.GetBundle(); b != nil {
				return b.Translate(lang, key)
			}
			return key
		},
		"tf": func(lang, key string, args ...any) string {
			if b := i18n.GetBundle(); b != nil {
				return b.Translatef(lang, key, args...)
			}
			return key
		},
		"estadoEtiqueta": estado.Etiqueta,
		"estadoColor":    estado.Color,
		"accionTitulo":   estado.TituloAccion,
		"rolEtiqueta":    rbac.Etiqueta,
		"esAdmin":        rbac.EsAdmin,
		"estados":        func() []estado.Estado { return estado.Todos },
		"roles": func() []string {
			return []string{rbac.RolAdmin, rbac.RolJefe, rbac.RolAsistente, rbac.RolMesaPartes}
		},
		"peso": pesoHumano,
	}
}

// pesoHumano форматирует размер файла для таблицы документов.
func pesoHumano(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// viewModel — обёртка, передаваемая в каждый шаблон.
type viewModel struct {
	// Lang — язык запроса (из i18n middleware).
	Lang string
	// Data — данные конкретной страницы.
	Data any
}

// render оборачивает выполнение именованного шаблона в templ.Component.
func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tpl.ExecuteTemplate(w, name, viewModel{
			Lang: i18n.LangFromContext(ctx),
			Data: data,
		})
	})
}

// --- Страницы ---

// LoginData — данные страницы входа.
type LoginData struct {
	// Correo — введённый адрес (сохраняется при отказе).
	Correo string
	// Error — сообщение об ошибке входа.
	Error string
}

// Login — страница входа.
func Login(data LoginData) templ.Component {
	return render("login", data)
}

// BandejaData — данные бандехи экспедиентов.
type BandejaData struct {
	Usuario        model.UsuarioSesion
	Estadisticas   *model.Estadisticas
	Expedientes    []model.Expediente
	FiltroTexto    string
	FiltroEstado   string
	TotalSinFiltro int
	Error          string
	Exito          string
}

// Bandeja — входящий список экспедиентов.
func Bandeja(data BandejaData) templ.Component {
	return render("bandeja", data)
}

// Modal-слоты страницы деталей. Пустая строка — модал закрыт.
const (
	ModalComentar = "comentar"
	ModalDerivar  = "derivar"
	ModalEstado   = "estado"
)

// DetalleData — данные страницы деталей экспедиента.
// Поля Form* сохраняют введённые значения при отказе, чтобы модал
// переоткрывался с ними.
type DetalleData struct {
	Usuario       model.UsuarioSesion
	Detalle       *model.Detalle
	Departamentos []model.DepartamentoSimple
	// Modal — открытый модал: ModalComentar, ModalDerivar, ModalEstado или "".
	Modal string
	Error string

	FormComentario     string
	FormDepartamentoID int
	FormEstado         string
	FormDescripcion    string
}

// Detalle — страница деталей с документами, историей и модалами действий.
func Detalle(data DetalleData) templ.Component {
	return render("detalle", data)
}

// NuevoData — данные мастера регистрации экспедиента.
type NuevoData struct {
	Usuario       model.UsuarioSesion
	Estado        *wizard.Estado
	Departamentos []model.DepartamentoSimple
	Error         string
}

// Indice — номер текущего шага (для индикатора прогресса).
func (d NuevoData) Indice() int { return d.Estado.Indice() }

// TotalPasos — количество шагов мастера.
func (d NuevoData) TotalPasos() int { return wizard.TotalPasos }

// Nuevo — мастер регистрации экспедиента.
func Nuevo(data NuevoData) templ.Component {
	return render("nuevo", data)
}

// AdminData — данные панели администрирования.
type AdminData struct {
	Usuario model.UsuarioSesion
	// Pestana — активная вкладка: "usuarios" или "departamentos".
	Pestana       string
	Usuarios      []model.Usuario
	Departamentos []model.Departamento
	// DepartamentosSimple — активные департаменты для селектора формы пользователя.
	DepartamentosSimple []model.DepartamentoSimple
	// EditarUsuario — пользователь в форме редактирования (nil — создание).
	EditarUsuario *model.Usuario
	// EditarDepartamento — департамент в форме редактирования (nil — создание).
	EditarDepartamento *model.Departamento
	// PasswordUsuarioID — id пользователя в модале смены пароля (0 — закрыт).
	PasswordUsuarioID int
	// ModalAbierto — открыт ли модал создания/редактирования.
	ModalAbierto bool
	Error        string
	Exito        string
}

// Admin — панель администрирования пользователей и департаментов.
func Admin(data AdminData) templ.Component {
	return render("admin", data)
}

// ReportesData — данные страницы отчётов.
type ReportesData struct {
	Usuario      model.UsuarioSesion
	Reporte      *model.Reporte
	BarrasEstado []charts.Bar
	BarrasDepto  []charts.Bar
	Tendencia    charts.Trend
	Error        string
}

// TrendWidth/TrendHeight — размеры SVG тренда для шаблона.
func (d ReportesData) TrendWidth() int  { return charts.TrendWidth }
func (d ReportesData) TrendHeight() int { return charts.TrendHeight }

// Reportes — страница отчётов с SVG-графиками.
func Reportes(data ReportesData) templ.Component {
	return render("reportes", data)
}

// SeguimientoData — данные страницы поиска по своим экспедиентам.
type SeguimientoData struct {
	Usuario       model.UsuarioSesion
	Expedientes   []model.ExpedienteSeguimiento
	Filtro        backend.SeguimientoFiltro
	Departamentos []model.DepartamentoSimple
	Error         string
}

// Seguimiento — страница отслеживания созданных экспедиентов.
func Seguimiento(data SeguimientoData) templ.Component {
	return render("seguimiento", data)
}
