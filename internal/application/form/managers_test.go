package form_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/entity-registry/internal/application/form"
	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
)

var rechazar = ports.ConfirmerFunc(func(string) bool { return false })

func TestManagerList_QuitarPrimeraDeDos(t *testing.T) {
	l := form.NewManagerList()
	first := l.AddRow(&entity.Manager{Name: "Jane Doe", Phone: "9876543211"})
	l.AddRow(&entity.Manager{Name: "John Roe", Phone: "9876543212"})

	var prompt string
	removed, err := l.RemoveRow(first, ports.ConfirmerFunc(func(p string) bool {
		prompt = p
		return true
	}))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, form.RemoveManagerPrompt, prompt)
	assert.Equal(t, []entity.Manager{{Name: "John Roe", Phone: "9876543212"}}, l.Managers())
}

func TestManagerList_CancelarNoQuita(t *testing.T) {
	l := form.NewManagerList()
	ref := l.AddRow(nil)

	removed, err := l.RemoveRow(ref, rechazar)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, l.Len())
}

func TestManagerList_SinConfirmadorNoQuita(t *testing.T) {
	l := form.NewManagerList()
	ref := l.AddRow(&entity.Manager{Name: "Jane Doe", Phone: "9876543211"})

	removed, err := l.RemoveRow(ref, nil)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, l.Len())
}

func TestManagerList_FilaInexistente(t *testing.T) {
	l := form.NewManagerList()
	_, err := l.RemoveRow(uuid.New(), ports.AlwaysConfirm)
	assert.ErrorIs(t, err, form.ErrRowNotFound)
	_, err = l.SetName(uuid.New(), "x")
	assert.ErrorIs(t, err, form.ErrRowNotFound)
	_, err = l.SetPhone(uuid.New(), "1")
	assert.ErrorIs(t, err, form.ErrRowNotFound)
}

func TestManagerList_SanitizaAlEditar(t *testing.T) {
	l := form.NewManagerList()
	ref := l.AddRow(nil)

	name, err := l.SetName(ref, "Jane2 Doe!")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)

	phone, err := l.SetPhone(ref, "98-76 54a3210")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", phone)
}

func TestManagerList_ManagersOmiteFilasIncompletas(t *testing.T) {
	l := form.NewManagerList()
	l.AddRow(&entity.Manager{Name: "Jane Doe"})
	l.AddRow(nil)
	l.AddRow(&entity.Manager{Name: "John Roe", Phone: "9876543212"})

	assert.Len(t, l.Raw(), 3)
	assert.Equal(t, []entity.Manager{{Name: "John Roe", Phone: "9876543212"}}, l.Managers())

	l.Clear()
	assert.Zero(t, l.Len())
	assert.NotNil(t, l.Managers())
}

func TestManagerList_ReferenciasEstables(t *testing.T) {
	l := form.NewManagerList()
	a := l.AddRow(nil)
	b := l.AddRow(nil)
	c := l.AddRow(nil)

	_, err := l.RemoveRow(b, ports.AlwaysConfirm)
	require.NoError(t, err)

	_, err = l.SetName(c, "Carol")
	require.NoError(t, err)
	rows := l.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, a, rows[0].Ref)
	assert.Equal(t, "Carol", rows[1].Name)
}
