// admin.go — админ-панель: управление пользователями и департаментами.
// Две вкладки (?pestana=usuarios|departamentos), модальные формы
// создания/редактирования и отдельный модал смены пароля.
// Доступ ограничен ролью ADMIN на уровне middleware.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/munimarcona/sgd-frontend/internal/backend"
	"github.com/munimarcona/sgd-frontend/internal/ui/i18n"
	uimiddleware "github.com/munimarcona/sgd-frontend/internal/ui/middleware"
	"github.com/munimarcona/sgd-frontend/internal/ui/pages"
)

// AdminHandler — обработчик админ-панели.
type AdminHandler struct {
	client *backend.Client
	logger *slog.Logger
}

// NewAdminHandler создаёт новый AdminHandler.
func NewAdminHandler(client *backend.Client, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		client: client,
		logger: logger.With(slog.String("component", "ui.admin")),
	}
}

// HandleAdmin обрабатывает GET /dashboard/admin.
// Параметры crear, editar и password открывают модальные окна.
func (h *AdminHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	q := r.URL.Query()

	data := pages.AdminData{
		Usuario: session.Usuario,
		Pestana: pestanaValida(q.Get("pestana")),
		Exito:   q.Get("exito"),
	}

	h.cargarPestana(r.Context(), session.Token, &data)

	// Модальные окна
	switch {
	case q.Get("crear") == "1":
		data.ModalAbierto = true
	case q.Get("editar") != "":
		h.abrirEdicion(&data, q.Get("editar"))
	case q.Get("password") != "":
		if id, err := strconv.Atoi(q.Get("password")); err == nil && id > 0 {
			data.PasswordUsuarioID = id
		}
	}

	renderizar(h.logger, w, r, pages.Admin(data))
}

// HandleGuardarUsuario обрабатывает POST /dashboard/admin/usuarios.
// Без ?editar= создаёт пользователя, с ?editar={id} обновляет.
// Пароль входит только в создание; при обновлении не отправляется.
func (h *AdminHandler) HandleGuardarUsuario(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	deptID, _ := strconv.Atoi(r.PostFormValue("departamento_id"))
	datos := backend.DatosUsuario{
		DNI:            r.PostFormValue("dni"),
		Nombres:        r.PostFormValue("nombres"),
		Apellidos:      r.PostFormValue("apellidos"),
		Correo:         r.PostFormValue("correo"),
		Rol:            r.PostFormValue("rol"),
		DepartamentoID: deptID,
		Activo:         r.PostFormValue("activo") == "1",
	}

	editarID, _ := strconv.Atoi(r.URL.Query().Get("editar"))

	var err error
	var exitoKey string
	if editarID > 0 {
		err = h.client.ActualizarUsuario(r.Context(), session.Token, editarID, datos)
		exitoKey = "admin.usuario_actualizado"
	} else {
		datos.Password = r.PostFormValue("password")
		err = h.client.CrearUsuario(r.Context(), session.Token, datos)
		exitoKey = "admin.usuario_creado"
	}

	if err != nil {
		h.logger.Warn("Сохранение пользователя отклонено",
			slog.Int("editar_id", editarID),
			slog.String("error", err.Error()),
		)
		h.renderConModalUsuario(w, r, session.Token, editarID, mensajeError(r.Context(), err))
		return
	}

	redirectAdmin(w, r, "usuarios", i18n.T(r.Context(), exitoKey))
}

// HandlePasswordUsuario обрабатывает POST /dashboard/admin/usuarios/{id}/password.
func (h *AdminHandler) HandlePasswordUsuario(w http.ResponseWriter, r *http.Request) {
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

	if err := h.client.CambiarPassword(r.Context(), session.Token, id, r.PostFormValue("password")); err != nil {
		h.logger.Warn("Смена пароля отклонена",
			slog.Int("usuario_id", id),
			slog.String("error", err.Error()),
		)
		data := pages.AdminData{
			Usuario:           session.Usuario,
			Pestana:           "usuarios",
			PasswordUsuarioID: id,
			Error:             mensajeError(r.Context(), err),
		}
		h.cargarPestana(r.Context(), session.Token, &data)
		renderizar(h.logger, w, r, pages.Admin(data))
		return
	}

	redirectAdmin(w, r, "usuarios", i18n.T(r.Context(), "admin.password_actualizada"))
}

// HandleGuardarDepartamento обрабатывает POST /dashboard/admin/departamentos.
// Без ?editar= создаёт департамент, с ?editar={id} обновляет.
func (h *AdminHandler) HandleGuardarDepartamento(w http.ResponseWriter, r *http.Request) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	datos := backend.DatosDepartamento{
		Nombre: r.PostFormValue("nombre"),
		Siglas: r.PostFormValue("siglas"),
		Activo: r.PostFormValue("activo") == "1",
	}

	editarID, _ := strconv.Atoi(r.URL.Query().Get("editar"))

	var err error
	var exitoKey string
	if editarID > 0 {
		err = h.client.ActualizarDepartamento(r.Context(), session.Token, editarID, datos)
		exitoKey = "admin.departamento_actualizado"
	} else {
		err = h.client.CrearDepartamento(r.Context(), session.Token, datos)
		exitoKey = "admin.departamento_creado"
	}

	if err != nil {
		h.logger.Warn("Сохранение департамента отклонено",
			slog.Int("editar_id", editarID),
			slog.String("error", err.Error()),
		)
		data := pages.AdminData{
			Usuario:      session.Usuario,
			Pestana:      "departamentos",
			ModalAbierto: true,
		}
		h.cargarPestana(r.Context(), session.Token, &data)
		if editarID > 0 {
			h.abrirEdicion(&data, strconv.Itoa(editarID))
		}
		data.Error = mensajeError(r.Context(), err)
		renderizar(h.logger, w, r, pages.Admin(data))
		return
	}

	redirectAdmin(w, r, "departamentos", i18n.T(r.Context(), exitoKey))
}

// cargarPestana подгружает данные активной вкладки.
// Список департаментов для селекта пользовательской формы
// загружается вместе с вкладкой usuarios.
func (h *AdminHandler) cargarPestana(ctx context.Context, token string, data *pages.AdminData) {
	switch data.Pestana {
	case "usuarios":
		usuarios, err := h.client.ListarUsuarios(ctx, token)
		if err != nil {
			h.logger.Error("Ошибка получения списка пользователей",
				slog.String("error", err.Error()),
			)
			if data.Error == "" {
				data.Error = mensajeError(ctx, err)
			}
			return
		}
		data.Usuarios = usuarios

		departamentos, err := h.client.Departamentos(ctx, token)
		if err != nil {
			h.logger.Warn("Ошибка получения списка департаментов",
				slog.String("error", err.Error()),
			)
		} else {
			data.DepartamentosSimple = departamentos
		}

	case "departamentos":
		departamentos, err := h.client.ListarDepartamentosAdmin(ctx, token)
		if err != nil {
			h.logger.Error("Ошибка получения списка департаментов",
				slog.String("error", err.Error()),
			)
			if data.Error == "" {
				data.Error = mensajeError(ctx, err)
			}
			return
		}
		data.Departamentos = departamentos
	}
}

// abrirEdicion открывает модал редактирования записи с данным id,
// найденной в уже загруженном списке активной вкладки.
func (h *AdminHandler) abrirEdicion(data *pages.AdminData, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return
	}

	switch data.Pestana {
	case "usuarios":
		for i := range data.Usuarios {
			if data.Usuarios[i].ID == id {
				data.EditarUsuario = &data.Usuarios[i]
				data.ModalAbierto = true
				return
			}
		}
	case "departamentos":
		for i := range data.Departamentos {
			if data.Departamentos[i].ID == id {
				data.EditarDepartamento = &data.Departamentos[i]
				data.ModalAbierto = true
				return
			}
		}
	}
}

// renderConModalUsuario переоткрывает модал пользователя после отказа.
func (h *AdminHandler) renderConModalUsuario(w http.ResponseWriter, r *http.Request, token string, editarID int, mensaje string) {
	session := uimiddleware.SessionFromContext(r.Context())

	data := pages.AdminData{
		Usuario:      session.Usuario,
		Pestana:      "usuarios",
		ModalAbierto: true,
	}
	h.cargarPestana(r.Context(), token, &data)
	if editarID > 0 {
		h.abrirEdicion(&data, strconv.Itoa(editarID))
	}
	data.Error = mensaje

	renderizar(h.logger, w, r, pages.Admin(data))
}

// pestanaValida нормализует имя вкладки; по умолчанию usuarios.
func pestanaValida(pestana string) string {
	if pestana == "departamentos" {
		return pestana
	}
	return "usuarios"
}

// redirectAdmin делает redirect на вкладку админ-панели с flash-сообщением.
func redirectAdmin(w http.ResponseWriter, r *http.Request, pestana, mensaje string) {
	params := url.Values{}
	params.Set("pestana", pestana)
	params.Set("exito", mensaje)
	http.Redirect(w, r, fmt.Sprintf("/dashboard/admin?%s", params.Encode()), http.StatusSeeOther)
}
