package model

import "encoding/json"

// Usuario — пользователь системы (управляется из админ-панели).
type Usuario struct {
	ID             int    `json:"id"`
	DNI            string `json:"dni"`
	Nombres        string `json:"nombres"`
	Apellidos      string `json:"apellidos"`
	Correo         string `json:"correo"`
	Rol            string `json:"rol"`
	Activo         bool   `json:"activo"`
	CreadoEn       string `json:"creado_en"`
	DepartamentoID int    `json:"departamento_id"`
	Departamento   string `json:"departamento"`
	Siglas         string `json:"siglas"`
}

// Departamento — подразделение муниципалитета (админ-список с total_usuarios).
type Departamento struct {
	ID            int     `json:"id"`
	Nombre        string  `json:"nombre"`
	Siglas        string  `json:"siglas"`
	Activo        bool    `json:"activo"`
	TotalUsuarios FlexInt `json:"total_usuarios"`
	CreadoEn      string  `json:"creado_en"`
}

// DepartamentoSimple — краткая форма для селектов (GET /departamentos).
type DepartamentoSimple struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Siglas string `json:"siglas"`
}

// UsuarioSesion — нормализованный пользователь из ответа логина.
// Бэкенд нестабилен в именах идентификаторов (id / id_usuario,
// departamento_id / id_departamento); нормализация выполняется один раз
// на границе, при декодировании.
type UsuarioSesion struct {
	ID             int
	DNI            string
	Nombres        string
	Apellidos      string
	Correo         string
	Rol            string
	DepartamentoID int
}

// usuarioSesionWire — сырая форма с fallback-полями идентификаторов.
type usuarioSesionWire struct {
	ID             int    `json:"id"`
	IDUsuario      int    `json:"id_usuario"`
	DNI            string `json:"dni"`
	Nombres        string `json:"nombres"`
	Apellidos      string `json:"apellidos"`
	Correo         string `json:"correo"`
	Rol            string `json:"rol"`
	DepartamentoID int    `json:"departamento_id"`
	IDDepartamento int    `json:"id_departamento"`
}

// UnmarshalJSON декодирует пользователя, выбирая первый непустой
// вариант каждого идентификатора.
func (u *UsuarioSesion) UnmarshalJSON(data []byte) error {
	var w usuarioSesionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id := w.ID
	if id == 0 {
		id = w.IDUsuario
	}
	deptID := w.DepartamentoID
	if deptID == 0 {
		deptID = w.IDDepartamento
	}

	*u = UsuarioSesion{
		ID:             id,
		DNI:            w.DNI,
		Nombres:        w.Nombres,
		Apellidos:      w.Apellidos,
		Correo:         w.Correo,
		Rol:            w.Rol,
		DepartamentoID: deptID,
	}
	return nil
}

// MarshalJSON сериализует уже нормализованную форму (для session cookie).
func (u UsuarioSesion) MarshalJSON() ([]byte, error) {
	return json.Marshal(usuarioSesionWire{
		ID:             u.ID,
		DNI:            u.DNI,
		Nombres:        u.Nombres,
		Apellidos:      u.Apellidos,
		Correo:         u.Correo,
		Rol:            u.Rol,
		DepartamentoID: u.DepartamentoID,
	})
}

// NombreCompleto возвращает "Nombres Apellidos" для отображения в шапке.
func (u UsuarioSesion) NombreCompleto() string {
	if u.Nombres == "" {
		return u.Apellidos
	}
	if u.Apellidos == "" {
		return u.Nombres
	}
	return u.Nombres + " " + u.Apellidos
}
