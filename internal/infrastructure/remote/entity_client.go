// Package remote implementa repository.EntityStore contra el backend REST /user-details/.
// Cada operación es una única petición HTTP, sin reintentos.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

var _ repository.EntityStore = (*EntityClient)(nil)

const resourcePath = "/user-details/"

// Tamaño máximo del cuerpo de error que se incluye en el mensaje.
const maxErrorBody = 512

// EntityClient cliente HTTP del backend. Usa net/http de la stdlib.
type EntityClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewEntityClient construye el cliente. timeout <= 0 usa 10 s.
func NewEntityClient(baseURL string, timeout time.Duration, log *logger.Logger) *EntityClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EntityClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.OrNop(log).Named("remote"),
	}
}

// Create POST /user-details/. El backend asigna id y created_at.
func (c *EntityClient) Create(ctx context.Context, in entity.EntityInput) (*entity.Entity, error) {
	in.Managers = entity.CompleteManagers(in.Managers)
	body, err := json.Marshal(in)
	if err != nil {
		return nil, domain.NewStorageError("create", err)
	}
	resp, err := c.do(ctx, http.MethodPost, resourcePath, body)
	if err != nil {
		return nil, domain.NewStorageError("create", err)
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return nil, domain.NewStorageError("create", statusError(resp))
	}
	var out entity.Entity
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, domain.NewStorageError("create", fmt.Errorf("decodificar respuesta: %w", err))
	}
	if out.Managers == nil {
		out.Managers = []entity.Manager{}
	}
	c.log.Debug().Int64("id", out.ID).Msg("entidad creada en backend")
	return &out, nil
}

// List GET /user-details/. El orden lo define el backend.
func (c *EntityClient) List(ctx context.Context) ([]*entity.Entity, error) {
	resp, err := c.do(ctx, http.MethodGet, resourcePath, nil)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	defer resp.Body.Close()

	if !isOK(resp.StatusCode) {
		return nil, domain.NewStorageError("list", statusError(resp))
	}
	var list []*entity.Entity
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, domain.NewStorageError("list", fmt.Errorf("decodificar respuesta: %w", err))
	}
	out := make([]*entity.Entity, 0, len(list))
	for _, e := range list {
		if e == nil {
			continue
		}
		if e.Managers == nil {
			e.Managers = []entity.Manager{}
		}
		out = append(out, e)
	}
	return out, nil
}

// Update no existe en el backend: el despliegue remoto es de solo alta, consulta y baja.
func (c *EntityClient) Update(context.Context, int64, entity.EntityPatch) error {
	return domain.ErrUpdateUnsupported
}

// Delete DELETE /user-details/{id}. Un 404 cuenta como éxito (borrado idempotente).
func (c *EntityClient) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, resourcePath+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if !isOK(resp.StatusCode) {
		return domain.NewStorageError("delete", statusError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	c.log.Debug().Int64("id", id).Msg("entidad eliminada en backend")
	return nil
}

func (c *EntityClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func isOK(status int) bool { return status >= 200 && status < 300 }

// statusError resume una respuesta no-2xx. Entiende {"message": ...} y {"detail": ...}.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Detail  any    `json:"detail"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Detail != nil:
			msg = fmt.Sprint(payload.Detail)
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("backend respondió %d: %s", resp.StatusCode, msg)
}
