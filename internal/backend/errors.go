// errors.go — таксономия ошибок взаимодействия с бэкендом.
// Три различимых вида (errors.As на стороне обработчиков):
//   - ValidationError — отловлено на клиенте, запрос не отправлялся;
//   - BusinessError   — бэкенд ответил конвертом exito:false, mensaje показывается дословно;
//   - TransportError  — сеть/декодирование/не-2xx без конверта, в UI — фиксированное
//     сообщение об ошибке соединения.
package backend

import "fmt"

// ValidationError — ошибка валидации полей до отправки запроса.
type ValidationError struct {
	// Campo — имя поля формы (для подсветки).
	Campo string
	// Mensaje — текст для пользователя.
	Mensaje string
}

func (e *ValidationError) Error() string {
	if e.Campo == "" {
		return e.Mensaje
	}
	return fmt.Sprintf("%s: %s", e.Campo, e.Mensaje)
}

// NewValidation создаёт ValidationError для поля.
func NewValidation(campo, mensaje string) *ValidationError {
	return &ValidationError{Campo: campo, Mensaje: mensaje}
}

// BusinessError — бизнес-отказ бэкенда (exito:false).
// Mensaje приходит от сервера и показывается пользователю без изменений.
type BusinessError struct {
	Mensaje string
}

func (e *BusinessError) Error() string {
	return e.Mensaje
}

// TransportError — сбой транспорта: сеть, таймаут, статус без конверта,
// невалидный JSON. Исходная причина в Err, пользователю она не показывается.
type TransportError struct {
	// Op — операция клиента, в которой произошёл сбой.
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
