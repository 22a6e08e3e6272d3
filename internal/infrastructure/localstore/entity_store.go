// Package localstore implementa repository.EntityStore sobre una ranura clave-valor:
// la colección completa se lee, se modifica y se reescribe como un único arreglo JSON
// en cada operación.
//
// Dentro de un proceso las operaciones se serializan con un mutex. Dos procesos que
// comparten la misma ranura (por ejemplo, el mismo archivo o la misma clave de Redis)
// compiten sin control de versiones: el último en escribir sobrescribe al anterior.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/infrastructure/slot"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

var _ repository.EntityRepository = (*EntityStore)(nil)

// DefaultKey nombre de la ranura que guarda la colección.
const DefaultKey = "userEntities"

// EntityStore almacén de entidades sobre slot.Storage.
type EntityStore struct {
	slots slot.Storage
	key   string
	now   func() time.Time
	log   *logger.Logger
	mu    sync.Mutex
}

// Option configura el EntityStore.
type Option func(*EntityStore)

// WithClock fija el reloj usado para id y created_at.
func WithClock(now func() time.Time) Option {
	return func(s *EntityStore) { s.now = now }
}

// WithLogger asigna el logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *EntityStore) { s.log = l.Named("localstore") }
}

// New construye el almacén sobre la ranura key (DefaultKey si está vacía).
func New(slots slot.Storage, key string, opts ...Option) *EntityStore {
	if key == "" {
		key = DefaultKey
	}
	s := &EntityStore{slots: slots, key: key, now: time.Now, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create asigna id (milisegundos Unix, mayor que cualquier id existente) y created_at, y añade al final.
func (s *EntityStore) Create(ctx context.Context, in entity.EntityInput) (*entity.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx, "create")
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	e := entity.New(nextID(list, now), in, now)
	list = append(list, e)
	if err := s.write(ctx, "create", list); err != nil {
		return nil, err
	}
	s.log.Debug().Int64("id", e.ID).Int("total", len(list)).Msg("entidad creada")
	return e, nil
}

// List devuelve las entidades en orden de inserción.
func (s *EntityStore) List(ctx context.Context) ([]*entity.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx, "list")
}

// GetByID devuelve la entidad o nil si no existe.
func (s *EntityStore) GetByID(ctx context.Context, id int64) (*entity.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx, "get")
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

// Update reemplaza los campos del patch. domain.ErrNotFound si el id no existe.
func (s *EntityStore) Update(ctx context.Context, id int64, patch entity.EntityPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx, "update")
	if err != nil {
		return err
	}
	for _, e := range list {
		if e.ID == id {
			e.Apply(patch)
			if err := s.write(ctx, "update", list); err != nil {
				return err
			}
			s.log.Debug().Int64("id", id).Msg("entidad actualizada")
			return nil
		}
	}
	return domain.ErrNotFound
}

// Delete elimina la entidad. Un id inexistente no es error y no reescribe la ranura.
func (s *EntityStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx, "delete")
	if err != nil {
		return err
	}
	out := list[:0]
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	if len(out) == len(list) {
		return nil
	}
	if err := s.write(ctx, "delete", out); err != nil {
		return err
	}
	s.log.Debug().Int64("id", id).Msg("entidad eliminada")
	return nil
}

// read carga la colección. Ranura ausente o JSON ilegible = colección vacía.
func (s *EntityStore) read(ctx context.Context, op string) ([]*entity.Entity, error) {
	raw, err := s.slots.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, slot.ErrNotFound) {
			return []*entity.Entity{}, nil
		}
		return nil, domain.NewStorageError(op, err)
	}
	var list []*entity.Entity
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("ranura ilegible, se trata como vacía")
		return []*entity.Entity{}, nil
	}
	out := make([]*entity.Entity, 0, len(list))
	for _, e := range list {
		if e != nil {
			if e.Managers == nil {
				e.Managers = []entity.Manager{}
			}
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *EntityStore) write(ctx context.Context, op string, list []*entity.Entity) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return domain.NewStorageError(op, err)
	}
	if err := s.slots.Set(ctx, s.key, raw); err != nil {
		return domain.NewStorageError(op, err)
	}
	return nil
}

func nextID(list []*entity.Entity, now time.Time) int64 {
	id := now.UnixMilli()
	for _, e := range list {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}
