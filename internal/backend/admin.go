// admin.go — операции администрирования: CRUD пользователей и департаментов.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/munimarcona/sgd-frontend/internal/domain/model"
	"github.com/munimarcona/sgd-frontend/internal/domain/rbac"
)

// минимальная длина пароля, проверяется до обращения к бэкенду
const minPasswordLen = 6

// DatosUsuario — поля формы создания/редактирования пользователя.
// Password заполняется только при создании; при редактировании DNI не меняется.
type DatosUsuario struct {
	DNI            string `json:"dni"`
	Nombres        string `json:"nombres"`
	Apellidos      string `json:"apellidos"`
	Correo         string `json:"correo"`
	Rol            string `json:"rol"`
	DepartamentoID int    `json:"departamento_id"`
	Activo         bool   `json:"activo"`
	Password       string `json:"password,omitempty"`
}

// validar проверяет общие поля формы пользователя.
func (d *DatosUsuario) validar() error {
	if strings.TrimSpace(d.DNI) == "" {
		return NewValidation("dni", "El DNI es obligatorio")
	}
	if strings.TrimSpace(d.Nombres) == "" {
		return NewValidation("nombres", "Los nombres son obligatorios")
	}
	if strings.TrimSpace(d.Apellidos) == "" {
		return NewValidation("apellidos", "Los apellidos son obligatorios")
	}
	if strings.TrimSpace(d.Correo) == "" {
		return NewValidation("correo", "El correo es obligatorio")
	}
	if !rbac.EsValido(d.Rol) {
		return NewValidation("rol", "Rol no válido")
	}
	return nil
}

// ListarUsuarios возвращает всех пользователей системы.
func (c *Client) ListarUsuarios(ctx context.Context, token string) ([]model.Usuario, error) {
	var lista []model.Usuario
	if err := c.doJSON(ctx, "listar-usuarios", http.MethodGet, "/admin/usuarios", token, nil, &lista); err != nil {
		return nil, err
	}
	return lista, nil
}

// CrearUsuario создаёт пользователя. Пароль обязателен и проверяется
// до отправки запроса.
func (c *Client) CrearUsuario(ctx context.Context, token string, datos DatosUsuario) error {
	if err := datos.validar(); err != nil {
		return err
	}
	if datos.Password == "" {
		return NewValidation("password", "La contraseña es obligatoria")
	}
	if len(datos.Password) < minPasswordLen {
		return NewValidation("password", fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen))
	}
	return c.doJSON(ctx, "crear-usuario", http.MethodPost, "/admin/usuarios", token, &datos, nil)
}

// ActualizarUsuario обновляет пользователя. Пароль в этой операции
// не участвует и из тела исключается.
func (c *Client) ActualizarUsuario(ctx context.Context, token string, id int, datos DatosUsuario) error {
	if err := datos.validar(); err != nil {
		return err
	}
	datos.Password = ""
	path := fmt.Sprintf("/admin/usuarios/%d", id)
	return c.doJSON(ctx, "actualizar-usuario", http.MethodPatch, path, token, &datos, nil)
}

// CambiarPassword меняет пароль пользователя (отдельная операция,
// независимая от редактирования).
func (c *Client) CambiarPassword(ctx context.Context, token string, id int, password string) error {
	if len(password) < minPasswordLen {
		return NewValidation("password", fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen))
	}
	body := map[string]string{"password": password}
	path := fmt.Sprintf("/admin/usuarios/%d/password", id)
	return c.doJSON(ctx, "cambiar-password", http.MethodPatch, path, token, body, nil)
}

// DatosDepartamento — поля формы создания/редактирования департамента.
type DatosDepartamento struct {
	Nombre string `json:"nombre"`
	Siglas string `json:"siglas"`
	Activo bool   `json:"activo"`
}

func (d *DatosDepartamento) validar() error {
	if strings.TrimSpace(d.Nombre) == "" {
		return NewValidation("nombre", "El nombre es obligatorio")
	}
	if strings.TrimSpace(d.Siglas) == "" {
		return NewValidation("siglas", "Las siglas son obligatorias")
	}
	return nil
}

// ListarDepartamentosAdmin возвращает все департаменты со счётчиком
// пользователей (в отличие от Departamentos — включая неактивные).
func (c *Client) ListarDepartamentosAdmin(ctx context.Context, token string) ([]model.Departamento, error) {
	var lista []model.Departamento
	if err := c.doJSON(ctx, "listar-departamentos", http.MethodGet, "/admin/departamentos", token, nil, &lista); err != nil {
		return nil, err
	}
	return lista, nil
}

// CrearDepartamento создаёт департамент.
func (c *Client) CrearDepartamento(ctx context.Context, token string, datos DatosDepartamento) error {
	if err := datos.validar(); err != nil {
		return err
	}
	return c.doJSON(ctx, "crear-departamento", http.MethodPost, "/admin/departamentos", token, &datos, nil)
}

// ActualizarDepartamento обновляет департамент.
func (c *Client) ActualizarDepartamento(ctx context.Context, token string, id int, datos DatosDepartamento) error {
	if err := datos.validar(); err != nil {
		return err
	}
	path := fmt.Sprintf("/admin/departamentos/%d", id)
	return c.doJSON(ctx, "actualizar-departamento", http.MethodPatch, path, token, &datos, nil)
}
