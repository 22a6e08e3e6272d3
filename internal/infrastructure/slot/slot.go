// Package slot implementa almacenes clave-valor de "ranura única": cada clave guarda un
// documento completo que se lee y se reescribe entero (equivalente al localStorage del navegador).
package slot

import (
	"context"
	"errors"
)

// ErrNotFound la clave no existe.
var ErrNotFound = errors.New("slot: clave inexistente")

// Storage almacén de ranuras. Get devuelve ErrNotFound si la clave no existe.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
