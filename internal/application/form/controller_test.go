package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/entity-registry/internal/application/form"
	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/domain/validation"
	"github.com/jhoicas/entity-registry/internal/infrastructure/localstore"
	"github.com/jhoicas/entity-registry/internal/infrastructure/slot"
)

var fixedNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

// recorder registra los avisos emitidos.
type recorder struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (r *recorder) Notify(n ports.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) last() ports.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return ports.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

// stubStore controla la respuesta de Create.
type stubStore struct {
	repository.EntityStore
	createErr error
	block     chan struct{}
	started   chan struct{}
}

func (s *stubStore) Create(ctx context.Context, in entity.EntityInput) (*entity.Entity, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	return entity.New(1, in, fixedNow), nil
}

func newStore() *localstore.EntityStore {
	return localstore.New(slot.NewMemory(), localstore.DefaultKey)
}

func fill(t *testing.T, c *form.Controller, values map[string]string) {
	t.Helper()
	for k, v := range values {
		_, err := c.SetField(k, v)
		require.NoError(t, err)
	}
}

func acme() map[string]string {
	return map[string]string{
		validation.FieldName:     "Acme Co",
		validation.FieldPAN:      "ABCDE1234F",
		validation.FieldGST:      "",
		validation.FieldPhone:    "9876543210",
		validation.FieldAddress:  "1 Main St",
		validation.FieldDistrict: "Delhi",
	}
}

func TestSubmit_GuardaEntidadYReinicia(t *testing.T) {
	store := newStore()
	rec := &recorder{}
	c := form.NewController(store, rec, nil)
	fill(t, c, acme())
	c.AddManager(&entity.Manager{Name: "Jane Doe", Phone: "9876543211"})

	saved, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, saved.GST)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].GST)
	assert.Equal(t, []entity.Manager{{Name: "Jane Doe", Phone: "9876543211"}}, list[0].Managers)

	assert.Equal(t, ports.Notice{Level: ports.NoticeSuccess, Message: form.SavedMessage}, rec.last())
	assert.Empty(t, c.Value(validation.FieldName))
	assert.Empty(t, c.ManagerRows())
	assert.Equal(t, form.StateIdle, c.State())
}

func TestSubmit_TelefonoInvalidoNoGuarda(t *testing.T) {
	store := newStore()
	rec := &recorder{}
	c := form.NewController(store, rec, nil)
	values := acme()
	values[validation.FieldPhone] = "12345"
	fill(t, c, values)

	_, err := c.Submit(context.Background())
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validation.FieldPhone, verr.Field)
	assert.Equal(t, "Please enter a valid 10-digit phone number.", rec.last().Message)
	assert.Equal(t, ports.NoticeError, rec.last().Level)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "Acme Co", c.Value(validation.FieldName), "el formulario conserva los valores")
}

func TestSubmit_EncargadoIncompletoIndicaPosicion(t *testing.T) {
	c := form.NewController(newStore(), nil, nil)
	fill(t, c, acme())
	c.AddManager(&entity.Manager{Name: "Jane Doe", Phone: "9876543211"})
	c.AddManager(&entity.Manager{Name: "John Roe"})

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Please enter a phone number for manager 2.", err.Error())
}

func TestSubmit_FilaDeEncargadoVaciaNoGuarda(t *testing.T) {
	rec := &recorder{}
	store := newStore()
	c := form.NewController(store, rec, nil)
	fill(t, c, acme())
	c.AddManager(nil)

	saved, err := c.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, saved)
	assert.Equal(t, ports.Notice{Level: ports.NoticeError, Message: "Please enter a name for manager 1."}, rec.last())

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Len(t, c.ManagerRows(), 1, "la fila sigue en pantalla")
}

func TestManagers_EdicionDesdeElFormulario(t *testing.T) {
	c := form.NewController(newStore(), nil, nil)
	ref := c.AddManager(nil)

	name, err := c.SetManagerName(ref, "Jane2 Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
	phone, err := c.SetManagerPhone(ref, "98765-43211")
	require.NoError(t, err)
	assert.Equal(t, "9876543211", phone)

	removed, err := c.RemoveManager(ref, nil)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = c.RemoveManager(ref, ports.AlwaysConfirm)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, c.ManagerRows())
}

func TestSubmit_PanEnMayusculas(t *testing.T) {
	store := newStore()
	c := form.NewController(store, nil, nil)
	values := acme()
	values[validation.FieldPAN] = "abcde1234f"
	values[validation.FieldGST] = "27"
	fill(t, c, values)

	saved, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", saved.PAN)
	require.NotNil(t, saved.GST)
	assert.Equal(t, "27", *saved.GST)
}

func TestSubmit_FalloDeAlmacen(t *testing.T) {
	rec := &recorder{}
	store := &stubStore{createErr: domain.NewStorageError("create", errors.New("sin espacio"))}
	c := form.NewController(store, rec, nil)
	fill(t, c, acme())

	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, ports.Notice{Level: ports.NoticeError, Message: form.SaveFailedMessage}, rec.last())
	assert.Equal(t, form.StateIdle, c.State())
	assert.Equal(t, "Delhi", c.Value(validation.FieldDistrict))
}

func TestSubmit_SegundoEnvioMientrasOcupado(t *testing.T) {
	store := &stubStore{block: make(chan struct{}), started: make(chan struct{})}
	c := form.NewController(store, nil, nil)
	fill(t, c, acme())

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-store.started
	assert.Equal(t, form.StateBusy, c.State())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, form.ErrSubmitInProgress)

	close(store.block)
	require.NoError(t, <-done)
	assert.Equal(t, form.StateIdle, c.State())
}

func TestSetField_SanitizaYRechazaCampoDesconocido(t *testing.T) {
	c := form.NewController(newStore(), nil, nil)

	v, err := c.SetField(validation.FieldName, "ab12cd")
	require.NoError(t, err)
	assert.Equal(t, "abcd", v)

	v, err = c.SetField(validation.FieldAddress, "Flat #4, 1st Floor")
	require.NoError(t, err)
	assert.Equal(t, "Flat #4, 1st Floor", v)

	_, err = c.SetField("email", "x")
	assert.ErrorIs(t, err, form.ErrUnknownField)
}

func TestPaste_InsertaEnCursor(t *testing.T) {
	c := form.NewController(newStore(), nil, nil)
	fill(t, c, map[string]string{validation.FieldPhone: "98765"})

	v, err := c.Paste(validation.FieldPhone, 2, "(12) 3")
	require.NoError(t, err)
	assert.Equal(t, "98123765", v)
}

func TestPaste_DireccionConCaracteresMultibyte(t *testing.T) {
	c := form.NewController(newStore(), nil, nil)
	_, err := c.SetField(validation.FieldAddress, "Straße 5")
	require.NoError(t, err)

	v, err := c.Paste(validation.FieldAddress, 5, "X")
	require.NoError(t, err)
	assert.Equal(t, "StraßXe 5", v)
	assert.True(t, utf8.ValidString(c.Value(validation.FieldAddress)))
}

func TestLoad_PrecargaFormulario(t *testing.T) {
	gst := "1234"
	c := form.NewController(newStore(), nil, nil)
	c.Load(entity.EntityInput{
		Name: "Acme Co", PAN: "ABCDE1234F", GST: &gst, Phone: "9876543210",
		Address: "1 Main St", District: "Delhi",
		Managers: []entity.Manager{{Name: "Jane Doe", Phone: "9876543211"}},
	})

	assert.Equal(t, "1234", c.Value(validation.FieldGST))
	assert.Len(t, c.ManagerRows(), 1)
}
