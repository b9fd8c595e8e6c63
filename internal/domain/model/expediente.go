// Пакет model — доменные модели SGD Frontend.
// Все сущности принадлежат бэкенду; здесь только их эфемерные копии,
// декодированные из JSON-ответов. Имена wire-полей — испанские,
// как их отдаёт REST API муниципалитета.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Expediente — карточка экспедиента в бандехе (входящем списке).
type Expediente struct {
	ID                 int    `json:"id"`
	CodigoExpediente   string `json:"codigo_expediente"`
	Asunto             string `json:"asunto"`
	TipoOrigen         string `json:"tipo_origen"`
	Estado             string `json:"estado"`
	FechaCreacion      string `json:"fecha_creacion"`
	Creador            string `json:"creador"`
	DepartamentoOrigen string `json:"departamento_origen"`
	SiglasOrigen       string `json:"siglas_origen"`
}

// ExpedienteDetalle — полная карточка экспедиента (GET /expedientes/:id/detalle).
type ExpedienteDetalle struct {
	Expediente
	CorreoCreador string `json:"correo_creador"`
}

// Documento — файл, прикреплённый к экспедиенту.
// С точки зрения клиента неизменяем: операций редактирования/удаления нет.
type Documento struct {
	ID             int    `json:"id"`
	NombreOriginal string `json:"nombre_original"`
	NombreSistema  string `json:"nombre_sistema"`
	TipoMime       string `json:"tipo_mime"`
	PesoBytes      int64  `json:"peso_bytes"`
	FechaSubida    string `json:"fecha_subida"`
	SubidoPor      string `json:"subido_por"`
}

// Movimiento — запись истории экспедиента (append-only, по возрастанию времени).
type Movimiento struct {
	ID           int    `json:"id"`
	Accion       string `json:"accion"`
	Descripcion  string `json:"descripcion"`
	Fecha        string `json:"fecha"`
	RealizadoPor string `json:"realizado_por"`
	Departamento string `json:"departamento"`
}

// Detalle — агрегат ответа GET /expedientes/:id/detalle.
type Detalle struct {
	Expediente ExpedienteDetalle `json:"expediente"`
	Documentos []Documento       `json:"documentos"`
	Historial  []Movimiento      `json:"historial"`
}

// ExpedienteSeguimiento — строка результата поиска в seguimiento.
type ExpedienteSeguimiento struct {
	Expediente
	TotalDocumentos  FlexInt `json:"total_documentos"`
	UltimoMovimiento string  `json:"ultimo_movimiento"`
}

// Estadisticas — счётчики дашборда (GET /expedientes/estadisticas).
type Estadisticas struct {
	Total       FlexInt `json:"total"`
	Pendientes  FlexInt `json:"pendientes"`
	EnProceso   FlexInt `json:"en_proceso"`
	Finalizados FlexInt `json:"finalizados"`
}

// FlexInt — целое, которое бэкенд отдаёт то числом, то строкой
// (агрегаты COUNT из PostgreSQL сериализуются строками).
type FlexInt int

// UnmarshalJSON принимает и число, и строку с числом.
// Пустая строка и null декодируются в 0.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// Int возвращает значение как int.
func (f FlexInt) Int() int { return int(f) }
