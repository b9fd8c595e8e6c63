// nuevo.go — мастер регистрации экспедиента из трёх шагов:
// данные трамита → департамент назначения → файл. Прогресс живёт
// в cookie; файл в cookie не сохраняется и запрашивается на
// терминальном шаге при отправке.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
	"github.com/munimarcona/sgd-frontend/internal/ui/wizard"
)

// maxUploadBytes — предел размера multipart-формы при отправке (20 MiB).
const maxUploadBytes = 20 << 20

// NuevoHandler — обработчик мастера регистрации экспедиента.
type NuevoHandler struct {
	client *backend.Client
	store  *wizard.Store
	logger *slog.Logger
}

// NewNuevoHandler создаёт новый NuevoHandler.
func NewNuevoHandler(client *backend.Client, store *wizard.Store, logger *slog.Logger) *NuevoHandler {
	return &NuevoHandler{
		client: client,
		store:  store,
		logger: logger.With(slog.String("component", "ui.nuevo")),
	}
}

// HandlePage обрабатывает GET /dashboard/nuevo — текущий шаг мастера.
func (h *NuevoHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	estado := h.store.Load(r)

	data := pages.NuevoData{
		Usuario: session.Usuario,
		Estado:  estado,
	}
	h.cargarDepartamentos(r, session.Token, &data)

	renderizar(h.logger, w, r, pages.Nuevo(data))
}

// HandleAccion обрабатывает POST /dashboard/nuevo.
// Поле accion определяет действие: siguiente, atras или enviar.
func (h *NuevoHandler) HandleAccion(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	// Терминальный шаг шлёт multipart, остальные — urlencoded
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	estado := h.store.Load(r)

	switch r.PostFormValue("accion") {
	case "atras":
		h.retroceder(w, r, estado)
	case "enviar":
		h.enviar(w, r, session.Token, session.Usuario.ID, session.Usuario.DepartamentoID, estado)
	default:
		h.avanzar(w, r, session.Token, estado)
	}
}

// absorberCampos переносит поля формы текущего шага в состояние мастера.
func absorberCampos(r *http.Request, estado *wizard.Estado) {
	switch estado.Paso {
	case wizard.PasoDatos:
		estado.Asunto = strings.TrimSpace(r.PostFormValue("asunto"))
		estado.TipoOrigen = r.PostFormValue("tipo_origen")
		estado.Prioridad = r.PostFormValue("prioridad")
	case wizard.PasoDepartamento:
		estado.DepartamentoDestinoID, _ = strconv.Atoi(r.PostFormValue("departamento_destino_id"))
	}
}

// avanzar сохраняет поля текущего шага и переходит к следующему.
func (h *NuevoHandler) avanzar(w http.ResponseWriter, r *http.Request, token string, estado *wizard.Estado) {
	absorberCampos(r, estado)

	if err := estado.Avanzar(); err != nil {
		h.renderPaso(w, r, token, estado, err.Error())
		return
	}

	if err := h.store.Save(w, estado); err != nil {
		h.logger.Error("Ошибка сохранения состояния мастера",
			slog.String("error", err.Error()),
		)
	}
	http.Redirect(w, r, "/dashboard/nuevo", http.StatusSeeOther)
}

// retroceder возвращается на предыдущий шаг, сохраняя введённое
// на текущем (выбор не теряется при навигации назад).
func (h *NuevoHandler) retroceder(w http.ResponseWriter, r *http.Request, estado *wizard.Estado) {
	absorberCampos(r, estado)

	if err := estado.Retroceder(); err == nil {
		if sErr := h.store.Save(w, estado); sErr != nil {
			h.logger.Error("Ошибка сохранения состояния мастера",
				slog.String("error", sErr.Error()),
			)
		}
	}
	http.Redirect(w, r, "/dashboard/nuevo", http.StatusSeeOther)
}

// enviar регистрирует экспедиент с терминального шага.
// Пользователь без департамента блокируется до обращения к бэкенду.
func (h *NuevoHandler) enviar(w http.ResponseWriter, r *http.Request, token string, usuarioID, deptOrigenID int, estado *wizard.Estado) {
	var archivos int
	if r.MultipartForm != nil {
		archivos = len(r.MultipartForm.File["archivo_adjunto"])
	}

	if err := estado.ValidarEnvio(archivos, deptOrigenID); err != nil {
		mensaje := err.Error()
		if errors.Is(err, wizard.ErrUsuarioSinDepto) {
			mensaje = i18n.T(r.Context(), "nuevo.sin_departamento_usuario")
		}
		h.renderPaso(w, r, token, estado, mensaje)
		return
	}

	archivo, cabecera, err := r.FormFile("archivo_adjunto")
	if err != nil {
		h.renderPaso(w, r, token, estado, wizard.ErrSinArchivo.Error())
		return
	}
	defer archivo.Close()

	codigo, err := h.client.CrearExpediente(r.Context(), token, backend.NuevoExpediente{
		Asunto:                estado.Asunto,
		TipoOrigen:            estado.TipoOrigen,
		DepartamentoDestinoID: estado.DepartamentoDestinoID,
		UsuarioCreadorID:      usuarioID,
		DepartamentoOrigenID:  deptOrigenID,
		NombreArchivo:         cabecera.Filename,
		Archivo:               archivo,
	})
	if err != nil {
		h.logger.Warn("Регистрация экспедиента отклонена",
			slog.Int("usuario_id", usuarioID),
			slog.String("error", err.Error()),
		)
		h.renderPaso(w, r, token, estado, mensajeError(r.Context(), err))
		return
	}

	h.logger.Info("Экспедиент зарегистрирован",
		slog.String("codigo_expediente", codigo),
		slog.Int("usuario_id", usuarioID),
	)

	h.store.Clear(w)
	redirectConExito(w, r, "/dashboard", i18n.Tf(r.Context(), "nuevo.registrado", codigo))
}

// renderPaso показывает текущий шаг с сообщением об ошибке.
func (h *NuevoHandler) renderPaso(w http.ResponseWriter, r *http.Request, token string, estado *wizard.Estado, mensaje string) {
	data := pages.NuevoData{
		Usuario: uimiddleware.SessionFromContext(r.Context()).Usuario,
		Estado:  estado,
		Error:   mensaje,
	}
	h.cargarDepartamentos(r, token, &data)

	renderizar(h.logger, w, r, pages.Nuevo(data))
}

// cargarDepartamentos подгружает список департаментов для шага выбора.
func (h *NuevoHandler) cargarDepartamentos(r *http.Request, token string, data *pages.NuevoData) {
	if data.Estado.Paso != wizard.PasoDepartamento {
		return
	}

	departamentos, err := h.client.Departamentos(r.Context(), token)
	if err != nil {
		h.logger.Warn("Ошибка получения списка департаментов",
			slog.String("error", err.Error()),
		)
		if data.Error == "" {
			data.Error = mensajeError(r.Context(), err)
		}
		return
	}
	data.Departamentos = departamentos
}
