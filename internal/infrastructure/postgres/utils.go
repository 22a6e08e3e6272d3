package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/entity-registry/internal/domain"
)

// isUndefinedTable verifica si un error es una tabla inexistente (42P01).
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01" // undefined_table
	}
	return strings.Contains(err.Error(), "42P01")
}

// storageError envuelve el fallo de base de datos como error de almacenamiento del dominio.
// Los errores que ya son del dominio se devuelven tal cual.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStorage) {
		return err
	}
	if isUndefinedTable(err) {
		return domain.NewStorageError(op, errors.New("esquema no inicializado: "+err.Error()))
	}
	return domain.NewStorageError(op, err)
}
