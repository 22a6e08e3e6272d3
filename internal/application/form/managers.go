package form

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/validation"
)

// ErrRowNotFound la fila de encargado no existe (ya eliminada o referencia ajena).
var ErrRowNotFound = errors.New("fila de encargado no encontrada")

// RemoveManagerPrompt texto de confirmación al quitar un encargado.
const RemoveManagerPrompt = "Are you sure you want to remove this manager?"

// RowRef referencia estable a una fila, independiente de su posición.
type RowRef = uuid.UUID

// ManagerRow fila editable de la lista de encargados.
type ManagerRow struct {
	Ref   RowRef
	Name  string
	Phone string
}

// ManagerList secuencia ordenada de filas de encargados del formulario.
type ManagerList struct {
	rows []ManagerRow
}

// NewManagerList construye una lista vacía.
func NewManagerList() *ManagerList {
	return &ManagerList{}
}

// AddRow añade una fila al final, opcionalmente precargada, y devuelve su referencia.
// Los valores iniciales pasan por la misma sanitización que la edición.
func (l *ManagerList) AddRow(initial *entity.Manager) RowRef {
	row := ManagerRow{Ref: uuid.New()}
	if initial != nil {
		row.Name = validation.Sanitize(validation.KindAlpha, initial.Name)
		row.Phone = validation.Sanitize(validation.KindDigits, initial.Phone)
	}
	l.rows = append(l.rows, row)
	return row.Ref
}

// RemoveRow pide confirmación y, si se acepta, quita la fila conservando el orden del resto.
// Devuelve false si el usuario cancela; sin Confirmer no se quita nada.
func (l *ManagerList) RemoveRow(ref RowRef, confirm ports.Confirmer) (bool, error) {
	i := l.index(ref)
	if i < 0 {
		return false, ErrRowNotFound
	}
	if confirm == nil || !confirm.Confirm(RemoveManagerPrompt) {
		return false, nil
	}
	l.rows = slices.Delete(l.rows, i, i+1)
	return true, nil
}

// SetName asigna el nombre sanitizado (solo letras y espacios) y devuelve el valor visible.
func (l *ManagerList) SetName(ref RowRef, value string) (string, error) {
	i := l.index(ref)
	if i < 0 {
		return "", ErrRowNotFound
	}
	l.rows[i].Name = validation.Sanitize(validation.KindAlpha, value)
	return l.rows[i].Name, nil
}

// SetPhone asigna el teléfono sanitizado (solo dígitos) y devuelve el valor visible.
func (l *ManagerList) SetPhone(ref RowRef, value string) (string, error) {
	i := l.index(ref)
	if i < 0 {
		return "", ErrRowNotFound
	}
	l.rows[i].Phone = validation.Sanitize(validation.KindDigits, value)
	return l.rows[i].Phone, nil
}

// Rows devuelve una copia de las filas en orden.
func (l *ManagerList) Rows() []ManagerRow {
	return slices.Clone(l.rows)
}

// Raw devuelve todas las filas como encargados, incluidas las vacías (para validar por posición).
func (l *ManagerList) Raw() []entity.Manager {
	out := make([]entity.Manager, len(l.rows))
	for i, r := range l.rows {
		out[i] = entity.Manager{Name: r.Name, Phone: r.Phone}
	}
	return out
}

// Managers devuelve solo las filas completas, en orden.
func (l *ManagerList) Managers() []entity.Manager {
	return entity.CompleteManagers(l.Raw())
}

// Len número de filas visibles.
func (l *ManagerList) Len() int { return len(l.rows) }

// Clear quita todas las filas sin confirmación (reinicio tras guardar).
func (l *ManagerList) Clear() { l.rows = nil }

func (l *ManagerList) index(ref RowRef) int {
	return slices.IndexFunc(l.rows, func(r ManagerRow) bool { return r.Ref == ref })
}
