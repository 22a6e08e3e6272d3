// Package form implementa el formulario de alta de entidades: sanitización continua de los
// campos, lista dinámica de encargados, validación al enviar y envío al almacén.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/domain/validation"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// ErrSubmitInProgress ya hay un envío en curso (control deshabilitado).
var ErrSubmitInProgress = errors.New("envío en curso")

// ErrUnknownField el campo no pertenece al formulario.
var ErrUnknownField = errors.New("campo desconocido")

// Mensajes de resultado del envío.
const (
	SavedMessage      = "Saved!"
	SaveFailedMessage = "Failed to save data. Please try again."
)

// State estado del control de envío.
type State int

const (
	StateIdle State = iota
	StateBusy
)

func (s State) String() string {
	if s == StateBusy {
		return "busy"
	}
	return "idle"
}

// Fields orden de los campos de primer nivel del formulario.
var Fields = []string{
	validation.FieldName,
	validation.FieldPAN,
	validation.FieldGST,
	validation.FieldPhone,
	validation.FieldAddress,
	validation.FieldDistrict,
}

// Controller formulario de alta. Un Controller corresponde a un formulario en pantalla.
type Controller struct {
	store     repository.EntityStore
	validator *validation.Validator
	notifier  ports.Notifier
	log       *logger.Logger

	mu       sync.Mutex
	state    State
	values   map[string]string
	managers *ManagerList
}

// NewController construye el formulario vacío.
func NewController(store repository.EntityStore, notifier ports.Notifier, log *logger.Logger) *Controller {
	if notifier == nil {
		notifier = ports.Discard
	}
	return &Controller{
		store:     store,
		validator: validation.New(),
		notifier:  notifier,
		log:       logger.OrNop(log).Named("form"),
		values:    make(map[string]string, len(Fields)),
		managers:  NewManagerList(),
	}
}

// SetField asigna el valor tecleado aplicando la sanitización del campo y devuelve el valor visible.
func (c *Controller) SetField(field, value string) (string, error) {
	if !isField(field) {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	clean := validation.Sanitize(validation.KindOf(field), value)
	c.mu.Lock()
	c.values[field] = clean
	c.mu.Unlock()
	return clean, nil
}

// Paste inserta texto pegado en la posición at del campo, sanitizado.
func (c *Controller) Paste(field string, at int, text string) (string, error) {
	if !isField(field) {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v := validation.Paste(validation.KindOf(field), c.values[field], at, text)
	c.values[field] = v
	return v, nil
}

// Value valor visible del campo.
func (c *Controller) Value(field string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[field]
}

// AddManager añade una fila de encargado, opcionalmente precargada.
func (c *Controller) AddManager(initial *entity.Manager) RowRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers.AddRow(initial)
}

// RemoveManager quita la fila ref si confirm acepta.
func (c *Controller) RemoveManager(ref RowRef, confirm ports.Confirmer) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers.RemoveRow(ref, confirm)
}

// SetManagerName edita el nombre de la fila ref.
func (c *Controller) SetManagerName(ref RowRef, value string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers.SetName(ref, value)
}

// SetManagerPhone edita el teléfono de la fila ref.
func (c *Controller) SetManagerPhone(ref RowRef, value string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers.SetPhone(ref, value)
}

// ManagerRows copia de las filas de encargados en orden.
func (c *Controller) ManagerRows() []ManagerRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.managers.Rows()
}

// State estado actual del control de envío.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load precarga el formulario con datos guardados (los encargados se añaden como filas).
func (c *Controller) Load(in entity.EntityInput) {
	gst := ""
	if in.GST != nil {
		gst = *in.GST
	}
	for field, v := range map[string]string{
		validation.FieldName:     in.Name,
		validation.FieldPAN:      in.PAN,
		validation.FieldGST:      gst,
		validation.FieldPhone:    in.Phone,
		validation.FieldAddress:  in.Address,
		validation.FieldDistrict: in.District,
	} {
		_, _ = c.SetField(field, v)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range in.Managers {
		c.managers.AddRow(&in.Managers[i])
	}
}

// Reset vacía los campos y la lista de encargados.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]string, len(Fields))
	c.managers.Clear()
}

// Submit valida y envía el formulario al almacén.
//   - Validación fallida: notifica el mensaje y devuelve *domain.ValidationError; el almacén no se toca.
//   - Fallo del almacén: vuelve a Idle, notifica y devuelve el *domain.StorageError.
//   - Éxito: notifica "Saved!", reinicia el formulario y devuelve la entidad guardada.
func (c *Controller) Submit(ctx context.Context) (*entity.Entity, error) {
	c.mu.Lock()
	if c.state == StateBusy {
		c.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f := c.formLocked()
	if err := c.validator.Validate(f); err != nil {
		c.mu.Unlock()
		c.log.Debug().Err(err).Msg("validación fallida")
		c.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: err.Error()})
		return nil, err
	}
	c.state = StateBusy
	c.mu.Unlock()

	saved, err := c.store.Create(ctx, f.Input())

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		c.log.Error().Err(err).Msg("error guardando entidad")
		c.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: SaveFailedMessage})
		return nil, err
	}

	c.log.Info().Int64("id", saved.ID).Int("managers", len(saved.Managers)).Msg("entidad guardada")
	c.notifier.Notify(ports.Notice{Level: ports.NoticeSuccess, Message: SavedMessage})
	c.Reset()
	return saved, nil
}

func (c *Controller) formLocked() validation.Form {
	return validation.Form{
		Name:     c.values[validation.FieldName],
		PAN:      c.values[validation.FieldPAN],
		GST:      c.values[validation.FieldGST],
		Phone:    c.values[validation.FieldPhone],
		Address:  c.values[validation.FieldAddress],
		District: c.values[validation.FieldDistrict],
		Managers: c.managers.Raw(),
	}
}

func isField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}
