package repository

import (
	"context"

	"github.com/jhoicas/entity-registry/internal/domain/entity"
)

// EntityStore define el puerto de persistencia para Entity.
// Todas las implementaciones (slot local, REST, PostgreSQL) cumplen el mismo contrato:
//   - Create asigna id y created_at y devuelve el registro guardado.
//   - List nunca devuelve error por colección vacía; devuelve un slice vacío.
//   - Update devuelve domain.ErrNotFound si el id no existe.
//   - Delete es idempotente: borrar un id inexistente no es error.
//
// Los fallos del medio se devuelven como *domain.StorageError.
type EntityStore interface {
	Create(ctx context.Context, in entity.EntityInput) (*entity.Entity, error)
	List(ctx context.Context) ([]*entity.Entity, error)
	Update(ctx context.Context, id int64, patch entity.EntityPatch) error
	Delete(ctx context.Context, id int64) error
}

// EntityRepository almacén con búsqueda por id, usado por el backend HTTP.
// GetByID devuelve (nil, nil) si el id no existe.
type EntityRepository interface {
	EntityStore
	GetByID(ctx context.Context, id int64) (*entity.Entity, error)
}
