// Пакет wizard — трёхшаговый мастер регистрации экспедиента.
// Линейная машина состояний: datos → departamento → archivo.
// Введённые значения живут в cookie между шагами и сбрасываются
// после успешной отправки или ухода с мастера.
package wizard

import (
	"errors"
	"strings"
)

// Paso — шаг мастера.
type Paso string

const (
	PasoDatos        Paso = "datos"
	PasoDepartamento Paso = "departamento"
	PasoArchivo      Paso = "archivo"
)

// pasos — порядок шагов мастера.
var pasos = []Paso{PasoDatos, PasoDepartamento, PasoArchivo}

// TotalPasos — количество шагов мастера.
const TotalPasos = 3

// Ошибки валидации переходов.
var (
	ErrAsuntoVacio     = errors.New("el asunto es obligatorio")
	ErrTipoOrigenVacio = errors.New("seleccione el tipo de origen")
	ErrSinDepartamento = errors.New("seleccione un departamento de destino")
	ErrSinArchivo      = errors.New("adjunte exactamente un archivo")
	ErrUsuarioSinDepto = errors.New("su usuario no tiene un departamento asignado")
	ErrPrimerPaso      = errors.New("ya está en el primer paso")
)

// Estado — накопленные данные мастера.
// Prioridad запрашивается в форме, но бэкенд её не принимает:
// поле сохраняется между шагами и не попадает в запрос регистрации.
type Estado struct {
	Paso                  Paso   `json:"paso"`
	Asunto                string `json:"asunto"`
	TipoOrigen            string `json:"tipo_origen"`
	Prioridad             string `json:"prioridad"`
	DepartamentoDestinoID int    `json:"departamento_destino_id"`
}

// Nuevo возвращает начальное состояние мастера.
func Nuevo() *Estado {
	return &Estado{Paso: PasoDatos}
}

// Indice возвращает номер текущего шага, начиная с 1.
// Неизвестный шаг трактуется как первый.
func (e *Estado) Indice() int {
	for i, p := range pasos {
		if e.Paso == p {
			return i + 1
		}
	}
	return 1
}

// Avanzar переходит к следующему шагу, валидируя текущий.
// С терминального шага перехода вперёд нет — там отправка.
func (e *Estado) Avanzar() error {
	switch e.Paso {
	case PasoDatos:
		if strings.TrimSpace(e.Asunto) == "" {
			return ErrAsuntoVacio
		}
		if e.TipoOrigen == "" {
			return ErrTipoOrigenVacio
		}
		e.Paso = PasoDepartamento
	case PasoDepartamento:
		if e.DepartamentoDestinoID == 0 {
			return ErrSinDepartamento
		}
		e.Paso = PasoArchivo
	case PasoArchivo:
		// Терминальный шаг: вперёд некуда
	default:
		e.Paso = PasoDatos
	}
	return nil
}

// Retroceder возвращается на предыдущий шаг без валидации.
func (e *Estado) Retroceder() error {
	switch e.Paso {
	case PasoDepartamento:
		e.Paso = PasoDatos
	case PasoArchivo:
		e.Paso = PasoDepartamento
	default:
		return ErrPrimerPaso
	}
	return nil
}

// ValidarEnvio проверяет готовность к отправке с терминального шага.
// numArchivos — количество файлов в форме (требуется ровно один);
// deptOrigenID — департамент вошедшего пользователя: без него
// отправка блокируется до любого обращения к бэкенду.
func (e *Estado) ValidarEnvio(numArchivos, deptOrigenID int) error {
	if deptOrigenID == 0 {
		return ErrUsuarioSinDepto
	}
	if strings.TrimSpace(e.Asunto) == "" {
		return ErrAsuntoVacio
	}
	if e.DepartamentoDestinoID == 0 {
		return ErrSinDepartamento
	}
	if numArchivos != 1 {
		return ErrSinArchivo
	}
	return nil
}
