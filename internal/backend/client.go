// Package backend — клиент REST API системы документооборота.
// Все ответы бэкенда приходят в конверте {exito, data?, mensaje?};
// клиент разворачивает конверт и переводит отказы в типизированные ошибки.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/munimarcona/sgd-frontend/internal/domain/estado"
	"github.com/munimarcona/sgd-frontend/internal/domain/model"
)

// Client — HTTP-клиент бэкенда.
type Client struct {
	baseURL    string
	uploadsURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient создаёт клиента бэкенда. Базовый путь API (/api) добавляется
// к каждому запросу. caCertPath — необязательный CA-сертификат для TLS.
func NewClient(baseURL string, timeout time.Duration, caCertPath string, logger *slog.Logger) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if caCertPath != "" {
		caCert, err := os.ReadFile(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("чтение CA сертификата: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("не удалось разобрать CA сертификат %s", caCertPath)
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		uploadsURL: strings.TrimRight(baseURL, "/") + "/uploads/expedientes_internos",
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger.With(slog.String("component", "backend-client")),
	}, nil
}

// BaseURL возвращает базовый адрес API (для dephealth).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope — стандартный конверт ответа бэкенда.
type envelope struct {
	Exito   bool            `json:"exito"`
	Data    json.RawMessage `json:"data"`
	Mensaje string          `json:"mensaje"`
}

// doJSON выполняет запрос с JSON-телом (body может быть nil) и раскрывает
// конверт ответа в out (out может быть nil, если data не нужна).
func (c *Client) doJSON(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("сериализация запроса: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("создание запроса: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, status, err := c.send(op, req, token)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Тело без конверта (HTML-страница прокси, пустой ответ) — транспортный сбой.
		return &TransportError{Op: op, Err: fmt.Errorf("статус %d: невалидный ответ: %w", status, err)}
	}
	if !env.Exito {
		return &BusinessError{Mensaje: mensajeODefault(env.Mensaje, status)}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("декодирование data: %w", err)}
		}
	}
	return nil
}

// send отправляет запрос и возвращает сырое тело ответа.
func (c *Client) send(op string, req *http.Request, token string) ([]byte, int, error) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Запрос к бэкенду не выполнен",
			slog.String("op", op),
			slog.String("error", err.Error()))
		return nil, 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("чтение ответа: %w", err)}
	}

	c.logger.Debug("Ответ бэкенда",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))
	return raw, resp.StatusCode, nil
}

func mensajeODefault(mensaje string, status int) string {
	if mensaje != "" {
		return mensaje
	}
	return fmt.Sprintf("Error del servidor (código %d)", status)
}

// LoginResult — результат аутентификации.
type LoginResult struct {
	Token   string
	Usuario model.UsuarioSesion
}

// Login выполняет вход. Конверт логина особый: token и usuario лежат
// рядом с exito, а не внутри data.
func (c *Client) Login(ctx context.Context, correo, password string) (*LoginResult, error) {
	payload, err := json.Marshal(map[string]string{
		"correo":   correo,
		"password": password,
	})
	if err != nil {
		return nil, &TransportError{Op: "login", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "login", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	raw, status, err := c.send("login", req, "")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Exito   bool                `json:"exito"`
		Token   string              `json:"token"`
		Usuario model.UsuarioSesion `json:"usuario"`
		Mensaje string              `json:"mensaje"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &TransportError{Op: "login", Err: fmt.Errorf("статус %d: невалидный ответ: %w", status, err)}
	}
	if !resp.Exito {
		return nil, &BusinessError{Mensaje: mensajeODefault(resp.Mensaje, status)}
	}
	if resp.Token == "" || resp.Usuario.ID == 0 {
		return nil, &TransportError{Op: "login", Err: fmt.Errorf("бэкенд не вернул токен или пользователя")}
	}
	return &LoginResult{Token: resp.Token, Usuario: resp.Usuario}, nil
}

// Bandeja возвращает список экспедиентов, видимых пользователю.
func (c *Client) Bandeja(ctx context.Context, token string) ([]model.Expediente, error) {
	var lista []model.Expediente
	if err := c.doJSON(ctx, "bandeja", http.MethodGet, "/expedientes/bandeja", token, nil, &lista); err != nil {
		return nil, err
	}
	return lista, nil
}

// Estadisticas возвращает счётчики для шапки бандехи.
func (c *Client) Estadisticas(ctx context.Context, token string) (*model.Estadisticas, error) {
	var est model.Estadisticas
	if err := c.doJSON(ctx, "estadisticas", http.MethodGet, "/expedientes/estadisticas", token, nil, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// Detalle возвращает экспедиент с документами и историей движений.
func (c *Client) Detalle(ctx context.Context, token string, id int) (*model.Detalle, error) {
	var det model.Detalle
	path := fmt.Sprintf("/expedientes/%d/detalle", id)
	if err := c.doJSON(ctx, "detalle", http.MethodGet, path, token, nil, &det); err != nil {
		return nil, err
	}
	return &det, nil
}

// Comentar добавляет комментарий (observación) к экспедиенту.
// Пустой после обрезки текст отклоняется без обращения к бэкенду.
func (c *Client) Comentar(ctx context.Context, token string, id int, comentario string) error {
	comentario = strings.TrimSpace(comentario)
	if comentario == "" {
		return NewValidation("comentario", "El comentario no puede estar vacío")
	}
	body := map[string]string{"comentario": comentario}
	path := fmt.Sprintf("/expedientes/%d/comentario", id)
	return c.doJSON(ctx, "comentar", http.MethodPost, path, token, body, nil)
}

// Derivar передаёт экспедиент в другой департамент.
func (c *Client) Derivar(ctx context.Context, token string, id, nuevoDepartamentoID int, descripcion string) error {
	if nuevoDepartamentoID == 0 {
		return NewValidation("nuevo_departamento_id", "Seleccione un departamento de destino")
	}
	body := map[string]any{
		"nuevo_departamento_id": nuevoDepartamentoID,
	}
	if d := strings.TrimSpace(descripcion); d != "" {
		body["descripcion"] = d
	}
	path := fmt.Sprintf("/expedientes/%d/derivar", id)
	return c.doJSON(ctx, "derivar", http.MethodPost, path, token, body, nil)
}

// CambiarEstado меняет состояние экспедиента.
func (c *Client) CambiarEstado(ctx context.Context, token string, id int, nuevoEstado, descripcion string) error {
	if !estado.EsValido(nuevoEstado) {
		return NewValidation("nuevo_estado", "Seleccione un estado válido")
	}
	body := map[string]any{"nuevo_estado": nuevoEstado}
	if d := strings.TrimSpace(descripcion); d != "" {
		body["descripcion"] = d
	}
	path := fmt.Sprintf("/expedientes/%d/estado", id)
	return c.doJSON(ctx, "cambiar-estado", http.MethodPatch, path, token, body, nil)
}

// NuevoExpediente — данные для регистрации экспедиента. Файл обязателен,
// ровно один.
type NuevoExpediente struct {
	Asunto                string
	TipoOrigen            string
	DepartamentoDestinoID int
	UsuarioCreadorID      int
	DepartamentoOrigenID  int
	NombreArchivo         string
	Archivo               io.Reader
}

// CrearExpediente регистрирует экспедиент (multipart с вложением).
// Возвращает присвоенный código экспедиента.
func (c *Client) CrearExpediente(ctx context.Context, token string, nuevo NuevoExpediente) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	campos := map[string]string{
		"asunto":                  nuevo.Asunto,
		"tipo_origen":             nuevo.TipoOrigen,
		"departamento_destino_id": strconv.Itoa(nuevo.DepartamentoDestinoID),
		"usuario_creador_id":      strconv.Itoa(nuevo.UsuarioCreadorID),
		"departamento_origen_id":  strconv.Itoa(nuevo.DepartamentoOrigenID),
	}
	for nombre, valor := range campos {
		if err := mw.WriteField(nombre, valor); err != nil {
			return "", &TransportError{Op: "crear", Err: fmt.Errorf("поле %s: %w", nombre, err)}
		}
	}

	part, err := mw.CreateFormFile("archivo_adjunto", nuevo.NombreArchivo)
	if err != nil {
		return "", &TransportError{Op: "crear", Err: fmt.Errorf("создание части файла: %w", err)}
	}
	if _, err := io.Copy(part, nuevo.Archivo); err != nil {
		return "", &TransportError{Op: "crear", Err: fmt.Errorf("копирование файла: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return "", &TransportError{Op: "crear", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/expedientes/nuevo", &buf)
	if err != nil {
		return "", &TransportError{Op: "crear", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, status, err := c.send("crear", req, token)
	if err != nil {
		return "", err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", &TransportError{Op: "crear", Err: fmt.Errorf("статус %d: невалидный ответ: %w", status, err)}
	}
	if !env.Exito {
		return "", &BusinessError{Mensaje: mensajeODefault(env.Mensaje, status)}
	}
	var creado struct {
		CodigoExpediente string `json:"codigo_expediente"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &creado); err != nil {
			return "", &TransportError{Op: "crear", Err: fmt.Errorf("декодирование data: %w", err)}
		}
	}
	return creado.CodigoExpediente, nil
}

// SeguimientoFiltro — параметры поиска по созданным пользователем экспедиентам.
// Пустые значения в запрос не попадают.
type SeguimientoFiltro struct {
	Busqueda   string
	Estado     string
	DeptFiltro string
	FechaDesde string
	FechaHasta string
}

// Seguimiento возвращает экспедиенты пользователя с последним движением.
func (c *Client) Seguimiento(ctx context.Context, token string, filtro SeguimientoFiltro) ([]model.ExpedienteSeguimiento, error) {
	q := url.Values{}
	set := func(clave, valor string) {
		if valor != "" {
			q.Set(clave, valor)
		}
	}
	set("busqueda", filtro.Busqueda)
	set("estado", filtro.Estado)
	set("dept_filtro", filtro.DeptFiltro)
	set("fecha_desde", filtro.FechaDesde)
	set("fecha_hasta", filtro.FechaHasta)

	path := "/expedientes/seguimiento"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var lista []model.ExpedienteSeguimiento
	if err := c.doJSON(ctx, "seguimiento", http.MethodGet, path, token, nil, &lista); err != nil {
		return nil, err
	}
	return lista, nil
}

// Reportes возвращает агрегаты для страницы отчётов.
func (c *Client) Reportes(ctx context.Context, token string) (*model.Reporte, error) {
	var rep model.Reporte
	if err := c.doJSON(ctx, "reportes", http.MethodGet, "/expedientes/reportes", token, nil, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Departamentos возвращает активные департаменты (селекторы деривации и мастера).
func (c *Client) Departamentos(ctx context.Context, token string) ([]model.DepartamentoSimple, error) {
	var lista []model.DepartamentoSimple
	if err := c.doJSON(ctx, "departamentos", http.MethodGet, "/departamentos", token, nil, &lista); err != nil {
		return nil, err
	}
	return lista, nil
}

// DescargarDocumento открывает файл вложения по его системному имени.
// Вложения бэкенд раздаёт статически из /uploads/expedientes_internos,
// вне конверта /api. Возвращает тело и Content-Type; закрыть тело
// должен вызывающий.
func (c *Client) DescargarDocumento(ctx context.Context, token, nombreSistema string) (io.ReadCloser, string, error) {
	if nombreSistema == "" ||
		strings.ContainsAny(nombreSistema, `/\`) ||
		strings.Contains(nombreSistema, "..") {
		return nil, "", NewValidation("nombre_sistema", "Nombre de archivo no válido")
	}

	u := c.uploadsURL + "/" + url.PathEscape(nombreSistema)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", &TransportError{Op: "descargar-documento", Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &TransportError{Op: "descargar-documento", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		c.logger.Warn("Вложение недоступно",
			slog.String("nombre_sistema", nombreSistema),
			slog.Int("status", resp.StatusCode))
		return nil, "", &BusinessError{Mensaje: "El documento solicitado no está disponible"}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Ping проверяет доступность бэкенда (readiness и dephealth).
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &TransportError{Op: "ping", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "ping", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 {
		return &TransportError{Op: "ping", Err: fmt.Errorf("статус %d", resp.StatusCode)}
	}
	return nil
}
