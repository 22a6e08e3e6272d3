package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/infrastructure/remote"
)

func sampleInput() entity.EntityInput {
	return entity.EntityInput{
		Name:     "Acme Co",
		PAN:      "ABCDE1234F",
		Phone:    "9876543210",
		Address:  "1 Main St",
		District: "Delhi",
		Managers: []entity.Manager{{Name: "Jane Doe", Phone: "9876543211"}, {Name: "", Phone: ""}},
	}
}

func newClient(t *testing.T, h http.HandlerFunc) *remote.EntityClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return remote.NewEntityClient(srv.URL+"/", 2*time.Second, nil)
}

func TestCreate_EnviaInputYDecodificaRespuesta(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user-details/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "created_at")
		assert.Nil(t, body["gst"])
		assert.Len(t, body["managers"], 1, "los encargados vacíos no se envían")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":7,"name":"Acme Co","pan":"ABCDE1234F","gst":null,"phone":"9876543210",` +
			`"address":"1 Main St","district":"Delhi","created_at":"2025-01-02 03:04:05",` +
			`"managers":[{"name":"Jane Doe","phone":"9876543211"}]}`))
	})

	got, err := client.Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got.CreatedAt.Time)
	assert.Len(t, got.Managers, 1)
}

func TestCreate_RespuestaNoOKEsStorageError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"database is locked"}`))
	})

	_, err := client.Create(context.Background(), sampleInput())
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database is locked")
}

func TestList_Vacio(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[]`))
	})

	list, err := client.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Empty(t, list)
}

func TestList_ConservaOrdenDelBackend(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":2,"name":"Beta","created_at":"2025-01-02T00:00:00Z"},` +
			`{"id":1,"name":"Alpha","created_at":"2025-01-01T00:00:00Z","managers":null}]`))
	})

	list, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), list[1].ID)
	assert.NotNil(t, list[1].Managers)
}

func TestList_ErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := remote.NewEntityClient(url, time.Second, nil).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestDelete_IdempotenteAnte404(t *testing.T) {
	var calls int
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/user-details/42", r.URL.Path)
		if calls == 1 {
			_, _ = w.Write([]byte(`{"message":"Entity deleted successfully"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"entidad no encontrada"}`))
	})

	require.NoError(t, client.Delete(context.Background(), 42))
	require.NoError(t, client.Delete(context.Background(), 42))
	assert.Equal(t, 2, calls)
}

func TestDelete_ErrorDelServidor(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	err := client.Delete(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "Bad Gateway")
}

func TestUpdate_NoSoportado(t *testing.T) {
	client := remote.NewEntityClient("http://127.0.0.1:1", time.Second, nil)
	err := client.Update(context.Background(), 1, entity.EntityPatch{})
	assert.ErrorIs(t, err, domain.ErrUpdateUnsupported)
}
