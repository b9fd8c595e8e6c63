package pages

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/domain/model"
	"github.com/munimarcona/sgd-frontend/internal/ui/charts"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	"github.com/munimarcona/sgd-frontend/internal/ui/wizard"
)

// initI18n загружает каталоги переводов для рендеринга страниц.
func initI18n(t *testing.T) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		t.Fatalf("загрузка каталогов i18n: %v", err)
	}
}

func renderToString(t *testing.T, c interface {
	Render(ctx context.Context, w io.Writer) error
}) string {
	t.Helper()
	var buf bytes.Buffer
	ctx := i18n.WithLang(context.Background(), "es")
	if err := c.Render(ctx, &buf); err != nil {
		t.Fatalf("рендеринг вернул ошибку: %v", err)
	}
	return buf.String()
}

func usuarioDemo() model.UsuarioSesion {
	return model.UsuarioSesion{
		ID:             7,
		Nombres:        "Juan",
		Apellidos:      "Pérez",
		Rol:            "ADMIN",
		DepartamentoID: 3,
	}
}

func TestLogin_Render(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Login(LoginData{Correo: "juan@muni.gob.pe", Error: "Credenciales incorrectas"}))

	if !strings.Contains(html, "Iniciar sesión") {
		t.Error("страница должна содержать заголовок входа")
	}
	if !strings.Contains(html, "juan@muni.gob.pe") {
		t.Error("введённый correo должен сохраняться")
	}
	if !strings.Contains(html, "Credenciales incorrectas") {
		t.Error("сообщение об ошибке должно отображаться")
	}
}

func TestBandeja_EstadoVacio(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Bandeja(BandejaData{Usuario: usuarioDemo()}))

	if !strings.Contains(html, "No hay expedientes en su bandeja") {
		t.Error("пустая бандеха должна показывать empty state")
	}
}

func TestBandeja_FiltroSinCoincidencias(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Bandeja(BandejaData{
		Usuario:        usuarioDemo(),
		FiltroTexto:    "licencia",
		TotalSinFiltro: 5,
	}))

	if !strings.Contains(html, "Ningún expediente coincide con el filtro") {
		t.Error("пустой результат фильтра отличается от пустой бандехи")
	}
}

func TestBandeja_ConExpedientes(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Bandeja(BandejaData{
		Usuario: usuarioDemo(),
		Expedientes: []model.Expediente{
			{ID: 1, CodigoExpediente: "EXP-2026-000001", Asunto: "Solicitud", Estado: "EN_PROCESO"},
		},
		TotalSinFiltro: 1,
	}))

	if !strings.Contains(html, "EXP-2026-000001") {
		t.Error("таблица должна содержать código экспедиента")
	}
	if !strings.Contains(html, "En Proceso") {
		t.Error("состояние должно отображаться человекочитаемой подписью")
	}
}

func TestDetalle_ModalComentar(t *testing.T) {
	initI18n(t)

	data := DetalleData{
		Usuario: usuarioDemo(),
		Detalle: &model.Detalle{
			Expediente: model.ExpedienteDetalle{
				Expediente: model.Expediente{ID: 5, CodigoExpediente: "EXP-2026-000005", Estado: "REGISTRADO"},
			},
			Historial: []model.Movimiento{{Accion: "CREADO", Descripcion: "Expediente registrado"}},
		},
		Modal:          ModalComentar,
		FormComentario: "texto previo",
	}
	html := renderToString(t, Detalle(data))

	if !strings.Contains(html, `action="/dashboard/expedientes/5/comentario"`) {
		t.Error("модал комментария должен отправлять на нужный путь")
	}
	if !strings.Contains(html, "texto previo") {
		t.Error("введённый комментарий должен сохраняться при переоткрытии")
	}
	if strings.Contains(html, `action="/dashboard/expedientes/5/derivar"`) {
		t.Error("одновременно может быть открыт только один модал")
	}
}

func TestDetalle_SinModal(t *testing.T) {
	initI18n(t)

	data := DetalleData{
		Usuario: usuarioDemo(),
		Detalle: &model.Detalle{
			Expediente: model.ExpedienteDetalle{
				Expediente: model.Expediente{ID: 5, CodigoExpediente: "EXP-2026-000005", Estado: "REGISTRADO"},
			},
		},
	}
	html := renderToString(t, Detalle(data))

	if strings.Contains(html, "modal-fondo") {
		t.Error("без параметра modal модалов быть не должно")
	}
	if !strings.Contains(html, "Sin documentos adjuntos") {
		t.Error("пустой список документов должен иметь свой empty state")
	}
}

func TestNuevo_PasoDatos(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Nuevo(NuevoData{
		Usuario: usuarioDemo(),
		Estado:  wizard.Nuevo(),
	}))

	if !strings.Contains(html, "Paso 1 de 3") {
		t.Error("индикатор прогресса должен показывать 1 из 3")
	}
	if !strings.Contains(html, `name="asunto"`) {
		t.Error("первый шаг запрашивает asunto")
	}
	if strings.Contains(html, `value="atras"`) {
		t.Error("с первого шага нет кнопки назад")
	}
}

func TestNuevo_PasoArchivo(t *testing.T) {
	initI18n(t)

	estado := &wizard.Estado{Paso: wizard.PasoArchivo, Asunto: "x", TipoOrigen: "EXTERNO", DepartamentoDestinoID: 4}
	html := renderToString(t, Nuevo(NuevoData{Usuario: usuarioDemo(), Estado: estado}))

	if !strings.Contains(html, "Paso 3 de 3") {
		t.Error("индикатор прогресса должен показывать 3 из 3")
	}
	if !strings.Contains(html, `enctype="multipart/form-data"`) {
		t.Error("терминальный шаг отправляет multipart")
	}
}

func TestAdmin_ModalPassword(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Admin(AdminData{
		Usuario:           usuarioDemo(),
		Pestana:           "usuarios",
		PasswordUsuarioID: 12,
	}))

	if !strings.Contains(html, `action="/dashboard/admin/usuarios/12/password"`) {
		t.Error("модал смены пароля должен отправлять на нужный путь")
	}
	if !strings.Contains(html, `minlength="6"`) {
		t.Error("поле пароля должно требовать минимум 6 символов")
	}
}

func TestAdmin_EditarUsuarioSinPassword(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Admin(AdminData{
		Usuario:      usuarioDemo(),
		Pestana:      "usuarios",
		ModalAbierto: true,
		EditarUsuario: &model.Usuario{
			ID: 12, DNI: "44556677", Nombres: "Ana", Apellidos: "Torres", Rol: "JEFE",
		},
	}))

	if !strings.Contains(html, "readonly") {
		t.Error("DNI при редактировании заблокирован")
	}
	if strings.Contains(html, `name="password"`) {
		t.Error("форма редактирования не запрашивает пароль")
	}
}

func TestReportes_Render(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Reportes(ReportesData{
		Usuario: usuarioDemo(),
		Reporte: &model.Reporte{},
		BarrasEstado: []charts.Bar{
			{Etiqueta: "En proceso", Valor: 40, Porcentaje: 100, Color: "#3b82f6"},
		},
		Tendencia: charts.TrendLine([]int{1, 5, 3}),
	}))

	if !strings.Contains(html, "polyline") {
		t.Error("страница должна содержать SVG тренда")
	}
	if !strings.Contains(html, "width:100.0%") {
		t.Error("полоса максимума должна иметь ширину 100%")
	}
}

func TestSeguimiento_Render(t *testing.T) {
	initI18n(t)

	html := renderToString(t, Seguimiento(SeguimientoData{
		Usuario: usuarioDemo(),
		Filtro:  backend.SeguimientoFiltro{Busqueda: "licencia"},
		Expedientes: []model.ExpedienteSeguimiento{
			{Expediente: model.Expediente{ID: 9, CodigoExpediente: "EXP-2026-000009", Estado: "DERIVADO"}, TotalDocumentos: 2},
		},
	}))

	if !strings.Contains(html, "EXP-2026-000009") {
		t.Error("таблица должна содержать найденный экспедиент")
	}
	if !strings.Contains(html, `value="licencia"`) {
		t.Error("введённый фильтр должен сохраняться в форме")
	}
}
