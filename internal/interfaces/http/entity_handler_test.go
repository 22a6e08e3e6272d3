package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/entity-registry/internal/application/dto"
	"github.com/jhoicas/entity-registry/internal/application/usecase"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/infrastructure/localstore"
	"github.com/jhoicas/entity-registry/internal/infrastructure/slot"
	apphttp "github.com/jhoicas/entity-registry/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const validBody = `{"name":"Acme Co","pan":"ABCDE1234F","gst":null,"phone":"9876543210",` +
	`"address":"1 Main St","district":"Delhi","managers":[{"name":"Jane Doe","phone":"9876543211"}]}`

type stubPDF struct{}

func (stubPDF) GenerateRegisterPDF(context.Context, []*entity.Entity) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

// buildTestApp construye la aplicación completa sobre un slot en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	repo := localstore.New(slot.NewMemory(), localstore.DefaultKey)
	uc := usecase.NewEntityUseCase(repo, stubPDF{}, nil)
	return apphttp.NewApp(apphttp.AppConfig{Name: "test"}, apphttp.RouterDeps{EntityUC: uc})
}

// doRequest lanza la petición y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRoot_YHealth(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, apphttp.RootMessage, decode[dto.MessageResponse](t, resp).Message)

	resp = doRequest(t, app, http.MethodGet, "/health", "")
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, resp).Status)
}

func TestCreate_DevuelveEntidadCreada(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/user-details/", validBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	out := decode[map[string]any](t, resp)
	assert.NotZero(t, out["id"])
	assert.NotEmpty(t, out["created_at"])
	assert.Nil(t, out["gst"])
	assert.Len(t, out["managers"], 1)
}

func TestCreate_ValidacionDevuelve400ConCampo(t *testing.T) {
	app := buildTestApp(t)
	body := strings.Replace(validBody, `"9876543210"`, `"12345"`, 1)

	resp := doRequest(t, app, http.MethodPost, "/user-details/", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Equal(t, "phone", out.Field)
	assert.Equal(t, "Please enter a valid 10-digit phone number.", out.Message)
}

func TestCreate_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/user-details/", `{"name":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestList_VacioYConDatos(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/user-details/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `[]`, string(body))

	doRequest(t, app, http.MethodPost, "/user-details/", validBody).Body.Close()
	resp = doRequest(t, app, http.MethodGet, "/user-details", "")
	list := decode[[]dto.EntityResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Co", list[0].Name)
}

func TestDelete_ExistenteYLuego404(t *testing.T) {
	app := buildTestApp(t)
	created := decode[dto.EntityResponse](t, doRequest(t, app, http.MethodPost, "/user-details/", validBody))
	target := "/user-details/" + strconv.FormatInt(created.ID, 10)

	resp := doRequest(t, app, http.MethodDelete, target, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, apphttp.DeletedMessage, decode[dto.MessageResponse](t, resp).Message)

	resp = doRequest(t, app, http.MethodDelete, target, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestDelete_IDInvalido(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodDelete, "/user-details/abc", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decode[dto.ErrorResponse](t, resp).Code)
}

func TestExportPDF(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/user-details/export.pdf", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "%PDF-"))
}

func TestCORS_PermiteCualquierOrigen(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/user-details/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestID_SeRespetaElEntrante(t *testing.T) {
	app := buildTestApp(t)
	const id = "6f1c7a52-6a4f-4a63-9d7e-7c3f1e0d2b11"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, id)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestRutaInexistente(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}
