// Пакет estado — фиксированное перечисление состояний экспедиента и
// действий истории. Клиент никогда не вычисляет переходы: он только
// запрашивает их у бэкенда и перерисовывает то состояние, которое
// бэкенд вернул. Здесь — только перечисление и отображаемые метаданные.
package estado

// Estado — состояние экспедиента.
type Estado string

const (
	Registrado Estado = "REGISTRADO"
	EnProceso  Estado = "EN_PROCESO"
	Derivado   Estado = "DERIVADO"
	Observado  Estado = "OBSERVADO"
	Finalizado Estado = "FINALIZADO"
	Archivado  Estado = "ARCHIVADO"
)

// Todos — все состояния в порядке жизненного цикла.
// Порядок используется в селектах и легендах отчётов.
var Todos = []Estado{Registrado, EnProceso, Derivado, Observado, Finalizado, Archivado}

// etiquetas — человекочитаемые названия состояний (испанский — язык домена).
var etiquetas = map[Estado]string{
	Registrado: "Registrado",
	EnProceso:  "En Proceso",
	Derivado:   "Derivado",
	Observado:  "Observado",
	Finalizado: "Finalizado",
	Archivado:  "Archivado",
}

// colores — цвет бейджа/графика для каждого состояния.
var colores = map[Estado]string{
	Registrado: "#eab308",
	EnProceso:  "#3b82f6",
	Derivado:   "#a855f7",
	Observado:  "#f97316",
	Finalizado: "#22c55e",
	Archivado:  "#6b7280",
}

// EsValido проверяет, входит ли строка в фиксированное перечисление.
func EsValido(s string) bool {
	_, ok := etiquetas[Estado(s)]
	return ok
}

// Etiqueta возвращает отображаемое название состояния.
// Неизвестное состояние рендерится как есть (generic-ветка).
func Etiqueta(s string) string {
	if e, ok := etiquetas[Estado(s)]; ok {
		return e
	}
	if s == "" {
		return "Sin estado"
	}
	return s
}

// Color возвращает цвет состояния; для неизвестных — серый.
func Color(s string) string {
	if c, ok := colores[Estado(s)]; ok {
		return c
	}
	return "#6b7280"
}

// Accion — действие в истории экспедиента.
type Accion string

const (
	AccionCreado            Accion = "CREADO"
	AccionDerivado          Accion = "DERIVADO"
	AccionDocumentoAgregado Accion = "DOCUMENTO_AGREGADO"
	AccionEstadoActualizado Accion = "ESTADO_ACTUALIZADO"
	AccionFinalizado        Accion = "FINALIZADO"
)

// titulosAccion — заголовки событий таймлайна.
var titulosAccion = map[Accion]string{
	AccionCreado:            "Expediente Creado",
	AccionDerivado:          "Derivado a Departamento",
	AccionDocumentoAgregado: "Documento Adjuntado",
	AccionEstadoActualizado: "Estado Actualizado",
	AccionFinalizado:        "Expediente Finalizado",
}

// TituloAccion возвращает заголовок события истории.
// Нераспознанное действие рендерится generic-заголовком.
func TituloAccion(a string) string {
	if t, ok := titulosAccion[Accion(a)]; ok {
		return t
	}
	return "Movimiento"
}
