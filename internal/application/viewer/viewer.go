// Package viewer implementa el listado de entidades: carga, tarjetas, edición en línea
// por tarjeta (Viewing/Editing) y borrado con confirmación.
//
// La edición solo se confirma con CommitEdit; salir de un campo no guarda nada.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/entity-registry/internal/application/form"
	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/domain/validation"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

var (
	// ErrReadOnly el despliegue no permite editar (backend remoto sin actualización).
	ErrReadOnly = errors.New("listado de solo lectura")
	// ErrInvalidTransition la transición no corresponde al estado actual de la tarjeta.
	ErrInvalidTransition = errors.New("transición de edición no válida")
	// ErrUnknownEntity el id no está en el listado cargado.
	ErrUnknownEntity = errors.New("entidad no presente en el listado")
)

// Mensajes al usuario.
const (
	LoadFailedMessage   = "Failed to load entities. Please ensure the backend server is running."
	SaveFailedMessage   = "Failed to save data. Please try again."
	DeleteFailedMessage = "Failed to delete entity. Please try again."
	deletePrompt        = "Are you sure you want to delete the entity for %s?"
)

// ListState estado del listado.
type ListState int

const (
	ListLoading ListState = iota
	ListEmpty
	ListLoaded
)

func (s ListState) String() string {
	switch s {
	case ListEmpty:
		return "empty"
	case ListLoaded:
		return "loaded"
	default:
		return "loading"
	}
}

// CardState estado de edición de una tarjeta.
type CardState int

const (
	Viewing CardState = iota
	Editing
)

func (s CardState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// ListView modelo de vista del listado completo.
type ListView struct {
	State        ListState
	Cards        []CardView
	EmptyMessage string
}

// draft valores en pantalla de una tarjeta en edición.
type draft struct {
	values   map[string]string
	managers *form.ManagerList
}

// Option configura el Viewer.
type Option func(*Viewer)

// WithNotifier fija el puerto de avisos.
func WithNotifier(n ports.Notifier) Option {
	return func(v *Viewer) { v.notifier = n }
}

// WithLogger fija el logger.
func WithLogger(l *logger.Logger) Option {
	return func(v *Viewer) { v.log = logger.OrNop(l).Named("viewer") }
}

// ReadOnly deshabilita la edición en línea.
func ReadOnly() Option {
	return func(v *Viewer) { v.editable = false }
}

// Viewer listado de entidades sobre un EntityStore.
type Viewer struct {
	store     repository.EntityStore
	validator *validation.Validator
	confirmer ports.Confirmer
	notifier  ports.Notifier
	log       *logger.Logger
	editable  bool

	mu       sync.Mutex
	state    ListState
	entities []*entity.Entity
	drafts   map[int64]*draft
}

// declineAll rechaza toda confirmación.
var declineAll = ports.ConfirmerFunc(func(string) bool { return false })

// New construye el listado editable. confirm responde a las confirmaciones de borrado
// y de quitar encargado; con nil se rechazan todas.
func New(store repository.EntityStore, confirm ports.Confirmer, opts ...Option) *Viewer {
	if confirm == nil {
		confirm = declineAll
	}
	v := &Viewer{
		store:     store,
		validator: validation.New(),
		confirmer: confirm,
		notifier:  ports.Discard,
		log:       logger.Nop(),
		editable:  true,
		drafts:    make(map[int64]*draft),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Refresh vuelve a leer el almacén. Un fallo se notifica y deja el listado vacío.
func (v *Viewer) Refresh(ctx context.Context) (ListView, error) {
	v.mu.Lock()
	v.state = ListLoading
	v.mu.Unlock()

	list, err := v.store.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.log.Error().Err(err).Msg("error cargando entidades")
		v.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: LoadFailedMessage})
		v.entities = nil
		v.drafts = make(map[int64]*draft)
		v.state = ListEmpty
		return v.viewLocked(), err
	}

	v.entities = list
	present := make(map[int64]bool, len(list))
	for _, e := range list {
		present[e.ID] = true
	}
	for id := range v.drafts {
		if !present[id] {
			delete(v.drafts, id)
		}
	}
	v.state = ListLoaded
	if len(list) == 0 {
		v.state = ListEmpty
	}
	v.log.Debug().Int("count", len(list)).Msg("listado actualizado")
	return v.viewLocked(), nil
}

// View devuelve el modelo de vista actual sin tocar el almacén.
func (v *Viewer) View() ListView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewLocked()
}

func (v *Viewer) viewLocked() ListView {
	lv := ListView{State: v.state, Cards: make([]CardView, 0, len(v.entities))}
	if v.state == ListEmpty {
		lv.EmptyMessage = EmptyListMessage
	}
	for _, e := range v.entities {
		card := Render(e)
		if d, ok := v.drafts[e.ID]; ok {
			card = renderDraft(card, d)
		}
		lv.Cards = append(lv.Cards, card)
	}
	return lv
}

// CardState estado de la tarjeta id (Viewing si no está en edición).
func (v *Viewer) CardState(id int64) CardState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.drafts[id]; ok {
		return Editing
	}
	return Viewing
}

// BeginEdit pasa la tarjeta a Editing copiando los valores mostrados al borrador.
func (v *Viewer) BeginEdit(id int64) error {
	if !v.editable {
		return ErrReadOnly
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	e := v.findLocked(id)
	if e == nil {
		return ErrUnknownEntity
	}
	if _, ok := v.drafts[id]; ok {
		return fmt.Errorf("%w: la tarjeta %d ya está en edición", ErrInvalidTransition, id)
	}
	card := Render(e)
	d := &draft{
		values: map[string]string{
			validation.FieldName:     card.Name,
			validation.FieldPAN:      card.PAN,
			validation.FieldGST:      card.GST,
			validation.FieldPhone:    card.Phone,
			validation.FieldAddress:  card.Address,
			validation.FieldDistrict: card.District,
		},
		managers: form.NewManagerList(),
	}
	for i := range e.Managers {
		d.managers.AddRow(&e.Managers[i])
	}
	v.drafts[id] = d
	return nil
}

// SetField edita un campo del borrador, sanitizado como en el formulario de alta.
func (v *Viewer) SetField(id int64, field, value string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	d, err := v.draftLocked(id)
	if err != nil {
		return "", err
	}
	if _, ok := d.values[field]; !ok {
		return "", fmt.Errorf("%w: %s", form.ErrUnknownField, field)
	}
	clean := value
	if !(field == validation.FieldGST && value == EmptyGST) {
		clean = validation.Sanitize(validation.KindOf(field), value)
	}
	d.values[field] = clean
	return clean, nil
}

// SetManager edita el encargado en la posición index del borrador.
func (v *Viewer) SetManager(id int64, index int, name, phone string) (entity.Manager, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	d, err := v.draftLocked(id)
	if err != nil {
		return entity.Manager{}, err
	}
	rows := d.managers.Rows()
	if index < 0 || index >= len(rows) {
		return entity.Manager{}, form.ErrRowNotFound
	}
	n, _ := d.managers.SetName(rows[index].Ref, name)
	p, _ := d.managers.SetPhone(rows[index].Ref, phone)
	return entity.Manager{Name: n, Phone: p}, nil
}

// AddManager añade una fila vacía de encargado al borrador y devuelve su posición.
func (v *Viewer) AddManager(id int64) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	d, err := v.draftLocked(id)
	if err != nil {
		return 0, err
	}
	d.managers.AddRow(nil)
	return d.managers.Len() - 1, nil
}

// RemoveManager quita, con confirmación, el encargado en la posición index del borrador.
func (v *Viewer) RemoveManager(id int64, index int) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	d, err := v.draftLocked(id)
	if err != nil {
		return false, err
	}
	rows := d.managers.Rows()
	if index < 0 || index >= len(rows) {
		return false, form.ErrRowNotFound
	}
	return d.managers.RemoveRow(rows[index].Ref, v.confirmer)
}

// CancelEdit descarta el borrador y vuelve a Viewing.
func (v *Viewer) CancelEdit(id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.drafts[id]; !ok {
		return fmt.Errorf("%w: la tarjeta %d no está en edición", ErrInvalidTransition, id)
	}
	delete(v.drafts, id)
	return nil
}

// CommitEdit lee todos los valores del borrador, los valida y llama a Update.
//   - Validación fallida: notifica, la tarjeta sigue en Editing.
//   - Entidad inexistente: se ignora en silencio y se recarga el listado.
//   - Fallo del almacén: notifica, la tarjeta sigue en Editing.
func (v *Viewer) CommitEdit(ctx context.Context, id int64) error {
	v.mu.Lock()
	d, err := v.draftLocked(id)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	f := validation.Form{
		Name:     d.values[validation.FieldName],
		PAN:      d.values[validation.FieldPAN],
		GST:      d.values[validation.FieldGST],
		Phone:    d.values[validation.FieldPhone],
		Address:  d.values[validation.FieldAddress],
		District: d.values[validation.FieldDistrict],
		Managers: d.managers.Raw(),
	}
	v.mu.Unlock()

	if strings.TrimSpace(f.GST) == EmptyGST {
		f.GST = ""
	}
	if err := v.validator.Validate(f); err != nil {
		v.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: err.Error()})
		return err
	}

	in := f.Input()
	patch := entity.EntityPatch{
		Name:     &in.Name,
		PAN:      &in.PAN,
		GSTSet:   true,
		GST:      in.GST,
		Phone:    &in.Phone,
		Address:  &in.Address,
		District: &in.District,
		Managers: &in.Managers,
	}

	err = v.store.Update(ctx, id, patch)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		v.log.Debug().Int64("id", id).Msg("entidad ya no existe, se recarga el listado")
		v.dropDraft(id)
		_, rerr := v.Refresh(ctx)
		return rerr
	case errors.Is(err, domain.ErrUpdateUnsupported):
		return ErrReadOnly
	case err != nil:
		v.log.Error().Err(err).Int64("id", id).Msg("error actualizando entidad")
		v.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: SaveFailedMessage})
		return err
	}

	v.log.Info().Int64("id", id).Msg("entidad actualizada")
	v.dropDraft(id)
	_, err = v.Refresh(ctx)
	return err
}

// Delete pide confirmación con el nombre de la entidad, borra y recarga el listado.
// Devuelve false si el usuario cancela.
func (v *Viewer) Delete(ctx context.Context, id int64) (bool, error) {
	v.mu.Lock()
	name := ""
	if e := v.findLocked(id); e != nil {
		name = e.Name
	}
	v.mu.Unlock()

	if !v.confirmer.Confirm(fmt.Sprintf(deletePrompt, name)) {
		return false, nil
	}
	if err := v.store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		v.log.Error().Err(err).Int64("id", id).Msg("error eliminando entidad")
		v.notifier.Notify(ports.Notice{Level: ports.NoticeError, Message: DeleteFailedMessage})
		return false, err
	}
	v.log.Info().Int64("id", id).Msg("entidad eliminada")
	v.dropDraft(id)
	_, err := v.Refresh(ctx)
	return true, err
}

func (v *Viewer) dropDraft(id int64) {
	v.mu.Lock()
	delete(v.drafts, id)
	v.mu.Unlock()
}

func (v *Viewer) findLocked(id int64) *entity.Entity {
	for _, e := range v.entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (v *Viewer) draftLocked(id int64) (*draft, error) {
	d, ok := v.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: la tarjeta %d no está en edición", ErrInvalidTransition, id)
	}
	return d, nil
}

func renderDraft(card CardView, d *draft) CardView {
	card.State = Editing
	card.Name = d.values[validation.FieldName]
	card.PAN = d.values[validation.FieldPAN]
	card.GST = d.values[validation.FieldGST]
	card.Phone = d.values[validation.FieldPhone]
	card.Address = d.values[validation.FieldAddress]
	card.District = d.values[validation.FieldDistrict]
	card.Managers = card.Managers[:0:0]
	for _, r := range d.managers.Rows() {
		card.Managers = append(card.Managers, ManagerView{Name: r.Name, Phone: r.Phone})
	}
	card.NoManagers = ""
	if len(card.Managers) == 0 {
		card.NoManagers = NoManagersMessage
	}
	return card
}
