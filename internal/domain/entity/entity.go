package entity

import (
	"strings"
	"time"
)

// Entity representa un registro de negocio (razón social, PAN, GST, contacto y encargados).
type Entity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	PAN       string    `json:"pan"`
	GST       *string   `json:"gst"` // nil = sin GST
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	District  string    `json:"district"`
	CreatedAt Timestamp `json:"created_at"`
	Managers  []Manager `json:"managers"`
}

// Manager persona de contacto de una entidad. No tiene identidad propia fuera de ella.
type Manager struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Complete indica si el encargado tiene nombre y teléfono.
func (m Manager) Complete() bool {
	return strings.TrimSpace(m.Name) != "" && strings.TrimSpace(m.Phone) != ""
}

// EntityInput datos de alta de una entidad (sin id ni created_at).
type EntityInput struct {
	Name     string    `json:"name"`
	PAN      string    `json:"pan"`
	GST      *string   `json:"gst"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
	District string    `json:"district"`
	Managers []Manager `json:"managers"`
}

// EntityPatch campos a reemplazar en una entidad existente. nil = sin cambios.
// GSTSet distingue "poner GST a null" de "no tocar el GST".
type EntityPatch struct {
	Name     *string
	PAN      *string
	GSTSet   bool
	GST      *string
	Phone    *string
	Address  *string
	District *string
	Managers *[]Manager
}

// Empty indica si el patch no modifica ningún campo.
func (p EntityPatch) Empty() bool {
	return p.Name == nil && p.PAN == nil && !p.GSTSet && p.Phone == nil &&
		p.Address == nil && p.District == nil && p.Managers == nil
}

// New construye la entidad persistible a partir del input, con id y fecha de alta asignados.
// Los encargados incompletos se descartan.
func New(id int64, in EntityInput, createdAt time.Time) *Entity {
	return &Entity{
		ID:        id,
		Name:      in.Name,
		PAN:       in.PAN,
		GST:       cloneString(in.GST),
		Phone:     in.Phone,
		Address:   in.Address,
		District:  in.District,
		CreatedAt: Timestamp{Time: createdAt},
		Managers:  CompleteManagers(in.Managers),
	}
}

// Apply reemplaza los campos indicados en el patch. Nunca modifica ID ni CreatedAt.
func (e *Entity) Apply(p EntityPatch) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.PAN != nil {
		e.PAN = *p.PAN
	}
	if p.GSTSet {
		e.GST = cloneString(p.GST)
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.District != nil {
		e.District = *p.District
	}
	if p.Managers != nil {
		e.Managers = CompleteManagers(*p.Managers)
	}
}

// Input devuelve los campos editables de la entidad.
func (e *Entity) Input() EntityInput {
	managers := make([]Manager, len(e.Managers))
	copy(managers, e.Managers)
	return EntityInput{
		Name:     e.Name,
		PAN:      e.PAN,
		GST:      cloneString(e.GST),
		Phone:    e.Phone,
		Address:  e.Address,
		District: e.District,
		Managers: managers,
	}
}

// CompleteManagers descarta los encargados sin nombre o sin teléfono, conservando el orden.
// Nunca devuelve nil, para que la lista se serialice como [].
func CompleteManagers(in []Manager) []Manager {
	out := make([]Manager, 0, len(in))
	for _, m := range in {
		if m.Complete() {
			out = append(out, m)
		}
	}
	return out
}

// OptionalString devuelve nil para cadenas vacías (GST ausente).
func OptionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
