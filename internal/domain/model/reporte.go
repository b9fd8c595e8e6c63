package model

// ResumenReporte — сводные счётчики отчёта.
type ResumenReporte struct {
	Total           FlexInt `json:"total"`
	Pendientes      FlexInt `json:"pendientes"`
	EnProceso       FlexInt `json:"en_proceso"`
	Finalizados     FlexInt `json:"finalizados"`
	TotalDocumentos FlexInt `json:"total_documentos"`
}

// ConteoEstado — количество экспедиентов в одном состоянии.
type ConteoEstado struct {
	Estado string  `json:"estado"`
	Total  FlexInt `json:"total"`
}

// ConteoDepartamento — количество экспедиентов по подразделению.
type ConteoDepartamento struct {
	Departamento string  `json:"departamento"`
	Siglas       string  `json:"siglas"`
	Total        FlexInt `json:"total"`
}

// PuntoTendencia — одна точка 30-дневного дневного тренда.
type PuntoTendencia struct {
	Fecha string  `json:"fecha"`
	Total FlexInt `json:"total"`
}

// Reporte — агрегированный payload GET /expedientes/reportes.
// Снимок на момент запроса; клиент ничего не пересчитывает,
// кроме геометрии графиков.
type Reporte struct {
	Resumen         ResumenReporte       `json:"resumen"`
	PorEstado       []ConteoEstado       `json:"por_estado"`
	PorDepartamento []ConteoDepartamento `json:"por_departamento"`
	Tendencia30Dias []PuntoTendencia     `json:"tendencia_30_dias"`
}
