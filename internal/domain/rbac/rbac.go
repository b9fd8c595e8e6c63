// Пакет rbac — роли пользователей SGD и проверки доступа UI.
// Роли назначает бэкенд; клиент лишь решает, какие экраны показывать.
package rbac

// Роли системы.
const (
	RolAdmin      = "ADMIN"
	RolJefe       = "JEFE"
	RolAsistente  = "ASISTENTE"
	RolMesaPartes = "MESA_PARTES"
)

// rolesValidos — полный набор ролей.
var rolesValidos = map[string]bool{
	RolAdmin:      true,
	RolJefe:       true,
	RolAsistente:  true,
	RolMesaPartes: true,
}

// EsValido проверяет, является ли строка допустимой ролью.
func EsValido(rol string) bool {
	return rolesValidos[rol]
}

// EsAdmin — доступ к админ-панели есть только у роли ADMIN.
func EsAdmin(rol string) bool {
	return rol == RolAdmin
}

// Etiqueta возвращает отображаемое название роли.
func Etiqueta(rol string) string {
	switch rol {
	case RolAdmin:
		return "Admin"
	case RolJefe:
		return "Jefe"
	case RolAsistente:
		return "Asistente"
	case RolMesaPartes:
		return "Mesa de Partes"
	default:
		return rol
	}
}
