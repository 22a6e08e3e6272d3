package dto

import "github.com/jhoicas/entity-registry/internal/domain/entity"

// ManagerDTO encargado en peticiones y respuestas.
type ManagerDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateEntityRequest cuerpo de POST /user-details/.
type CreateEntityRequest struct {
	Name     string       `json:"name"`
	PAN      string       `json:"pan"`
	GST      *string      `json:"gst"`
	Phone    string       `json:"phone"`
	Address  string       `json:"address"`
	District string       `json:"district"`
	Managers []ManagerDTO `json:"managers"`
}

// EntityResponse entidad en respuestas HTTP.
type EntityResponse struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	PAN       string           `json:"pan"`
	GST       *string          `json:"gst"`
	Phone     string           `json:"phone"`
	Address   string           `json:"address"`
	District  string           `json:"district"`
	CreatedAt entity.Timestamp `json:"created_at"`
	Managers  []ManagerDTO     `json:"managers"`
}

// Input convierte la petición al input de dominio.
func (r CreateEntityRequest) Input() entity.EntityInput {
	managers := make([]entity.Manager, len(r.Managers))
	for i, m := range r.Managers {
		managers[i] = entity.Manager{Name: m.Name, Phone: m.Phone}
	}
	return entity.EntityInput{
		Name:     r.Name,
		PAN:      r.PAN,
		GST:      r.GST,
		Phone:    r.Phone,
		Address:  r.Address,
		District: r.District,
		Managers: managers,
	}
}

// ToEntityResponse convierte la entidad de dominio a su respuesta HTTP.
func ToEntityResponse(e *entity.Entity) *EntityResponse {
	if e == nil {
		return nil
	}
	managers := make([]ManagerDTO, 0, len(e.Managers))
	for _, m := range e.Managers {
		managers = append(managers, ManagerDTO{Name: m.Name, Phone: m.Phone})
	}
	return &EntityResponse{
		ID:        e.ID,
		Name:      e.Name,
		PAN:       e.PAN,
		GST:       e.GST,
		Phone:     e.Phone,
		Address:   e.Address,
		District:  e.District,
		CreatedAt: e.CreatedAt,
		Managers:  managers,
	}
}
