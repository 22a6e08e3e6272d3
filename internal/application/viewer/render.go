package viewer

import (
	"github.com/jhoicas/entity-registry/internal/domain/entity"
)

// Textos fijos de la tarjeta.
const (
	EmptyGST          = "N/A"
	NoManagersMessage = "No managers assigned"
	EmptyListMessage  = "No entities found."
	DateLayout        = "Jan 2, 2006, 03:04 PM"
)

// ManagerView encargado tal como se muestra.
type ManagerView struct {
	Name  string
	Phone string
}

// CardView modelo de vista de una entidad, independiente del toolkit de UI.
type CardView struct {
	ID       int64
	Name     string
	PAN      string
	GST      string
	Phone    string
	Address  string
	District string
	Created  string
	Managers []ManagerView
	// NoManagers se rellena cuando la entidad no tiene encargados.
	NoManagers string
	State      CardState
}

// Render convierte una entidad en su tarjeta. La fecha se muestra en la zona horaria
// con la que se cargó el created_at.
func Render(e *entity.Entity) CardView {
	v := CardView{
		ID:       e.ID,
		Name:     e.Name,
		PAN:      e.PAN,
		GST:      EmptyGST,
		Phone:    e.Phone,
		Address:  e.Address,
		District: e.District,
		Managers: make([]ManagerView, 0, len(e.Managers)),
	}
	if e.GST != nil && *e.GST != "" {
		v.GST = *e.GST
	}
	if !e.CreatedAt.IsZero() {
		v.Created = e.CreatedAt.Format(DateLayout)
	}
	for _, m := range e.Managers {
		v.Managers = append(v.Managers, ManagerView{Name: m.Name, Phone: m.Phone})
	}
	if len(v.Managers) == 0 {
		v.NoManagers = NoManagersMessage
	}
	return v
}
