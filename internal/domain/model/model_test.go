package model

import (
	"encoding/json"
	"testing"
)

func TestFlexInt_Unmarshal(t *testing.T) {
	tests := []struct {
		nombre  string
		entrada string
		want    int
		wantErr bool
	}{
		{"число", `42`, 42, false},
		{"строка с числом", `"17"`, 17, false},
		{"ноль строкой", `"0"`, 0, false},
		{"пустая строка", `""`, 0, false},
		{"null", `null`, 0, false},
		{"не число", `"abc"`, 0, true},
		{"дробное", `3.5`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.nombre, func(t *testing.T) {
			var f FlexInt
			err := json.Unmarshal([]byte(tt.entrada), &f)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s): err = %v, wantErr = %v", tt.entrada, err, tt.wantErr)
			}
			if err == nil && f.Int() != tt.want {
				t.Errorf("Unmarshal(%s) = %d, ожидается %d", tt.entrada, f.Int(), tt.want)
			}
		})
	}
}

func TestFlexInt_EnStruct(t *testing.T) {
	// Бэкенд отдаёт агрегаты COUNT строками.
	var e Estadisticas
	raw := `{"total":"12","pendientes":3,"en_proceso":"0","finalizados":null}`
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if e.Total.Int() != 12 || e.Pendientes.Int() != 3 || e.EnProceso.Int() != 0 || e.Finalizados.Int() != 0 {
		t.Errorf("Estadisticas = %+v, смешанные формы не нормализованы", e)
	}
}

func TestUsuarioSesion_Unmarshal(t *testing.T) {
	tests := []struct {
		nombre     string
		entrada    string
		wantID     int
		wantDeptID int
	}{
		{
			"канонические имена",
			`{"id":7,"departamento_id":3,"nombres":"Ana","apellidos":"Quispe"}`,
			7, 3,
		},
		{
			"fallback id_usuario / id_departamento",
			`{"id_usuario":9,"id_departamento":5,"nombres":"Luis"}`,
			9, 5,
		},
		{
			"канонические имеют приоритет",
			`{"id":1,"id_usuario":2,"departamento_id":4,"id_departamento":6}`,
			1, 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.nombre, func(t *testing.T) {
			var u UsuarioSesion
			if err := json.Unmarshal([]byte(tt.entrada), &u); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if u.ID != tt.wantID {
				t.Errorf("ID = %d, ожидается %d", u.ID, tt.wantID)
			}
			if u.DepartamentoID != tt.wantDeptID {
				t.Errorf("DepartamentoID = %d, ожидается %d", u.DepartamentoID, tt.wantDeptID)
			}
		})
	}
}

func TestUsuarioSesion_MarshalRoundTrip(t *testing.T) {
	// Сессионная cookie сериализует уже нормализованную форму.
	orig := UsuarioSesion{ID: 7, DNI: "45871236", Nombres: "Ana", Apellidos: "Quispe",
		Correo: "ana@munimarcona.gob.pe", Rol: "ASISTENTE", DepartamentoID: 3}
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back UsuarioSesion
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != orig {
		t.Errorf("после round-trip = %+v, ожидается %+v", back, orig)
	}
}

func TestUsuarioSesion_NombreCompleto(t *testing.T) {
	tests := []struct {
		u    UsuarioSesion
		want string
	}{
		{UsuarioSesion{Nombres: "Ana", Apellidos: "Quispe"}, "Ana Quispe"},
		{UsuarioSesion{Nombres: "Ana"}, "Ana"},
		{UsuarioSesion{Apellidos: "Quispe"}, "Quispe"},
	}
	for _, tt := range tests {
		if got := tt.u.NombreCompleto(); got != tt.want {
			t.Errorf("NombreCompleto(%+v) = %q, ожидается %q", tt.u, got, tt.want)
		}
	}
}
