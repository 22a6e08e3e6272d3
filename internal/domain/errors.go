package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrStorage           = errors.New("almacenamiento no disponible")
	ErrUpdateUnsupported = errors.New("el almacenamiento no admite actualizaciones")
)

// ValidationError regla de entrada incumplida. Message es el texto que se muestra al usuario.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError el medio de persistencia no respondió o la respuesta no fue OK.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrStorage.Error())
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError envuelve err como fallo de almacenamiento de la operación op.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
