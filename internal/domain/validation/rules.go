// Package validation reúne las reglas de entrada de una entidad: validación al enviar
// (la primera regla incumplida gana) y sanitización continua de los campos.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
)

// Nombres de campo usados en ValidationError.Field.
const (
	FieldName     = "name"
	FieldPAN      = "pan"
	FieldGST      = "gst"
	FieldPhone    = "phone"
	FieldAddress  = "address"
	FieldDistrict = "district"
)

var (
	alphaSpaceRe = regexp.MustCompile(`^[A-Za-z\s]+$`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)
)

// Form valores crudos de un formulario de entidad, tal como los ve el usuario.
type Form struct {
	Name     string
	PAN      string
	GST      string
	Phone    string
	Address  string
	District string
	Managers []entity.Manager
}

// FormFromInput construye un Form desde un EntityInput (GST nil = vacío).
func FormFromInput(in entity.EntityInput) Form {
	f := Form{
		Name:     in.Name,
		PAN:      in.PAN,
		Phone:    in.Phone,
		Address:  in.Address,
		District: in.District,
		Managers: in.Managers,
	}
	if in.GST != nil {
		f.GST = *in.GST
	}
	return f
}

// Trimmed devuelve una copia con los espacios exteriores eliminados.
func (f Form) Trimmed() Form {
	out := Form{
		Name:     strings.TrimSpace(f.Name),
		PAN:      strings.TrimSpace(f.PAN),
		GST:      strings.TrimSpace(f.GST),
		Phone:    strings.TrimSpace(f.Phone),
		Address:  strings.TrimSpace(f.Address),
		District: strings.TrimSpace(f.District),
		Managers: make([]entity.Manager, len(f.Managers)),
	}
	for i, m := range f.Managers {
		out.Managers[i] = entity.Manager{Name: strings.TrimSpace(m.Name), Phone: strings.TrimSpace(m.Phone)}
	}
	return out
}

// Input normaliza el formulario al EntityInput que se persiste: PAN en mayúsculas,
// GST vacío como nil y encargados en blanco descartados.
func (f Form) Input() entity.EntityInput {
	t := f.Trimmed()
	return entity.EntityInput{
		Name:     t.Name,
		PAN:      strings.ToUpper(t.PAN),
		GST:      entity.OptionalString(t.GST),
		Phone:    t.Phone,
		Address:  t.Address,
		District: t.District,
		Managers: entity.CompleteManagers(t.Managers),
	}
}

// Validator aplica las reglas en orden fijo usando go-playground/validator.
type Validator struct {
	v *validator.Validate
}

// New construye el validador registrando las etiquetas alphaspace y digits.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

type rule struct {
	field   string
	value   string
	tag     string
	message string
}

// Validate comprueba el formulario (ya recortado) y devuelve el primer *domain.ValidationError.
// Toda fila de encargado presente se valida, también las vacías; el índice del mensaje es 1-based.
func (val *Validator) Validate(f Form) error {
	f = f.Trimmed()
	rules := []rule{
		{FieldName, f.Name, "required", "Please enter a name."},
		{FieldName, f.Name, "alphaspace", "Name should contain only letters and spaces."},
		{FieldPAN, f.PAN, "required", "Please enter a PAN number."},
		{FieldPAN, f.PAN, "alphanum", "PAN number should contain only alphanumeric characters."},
	}
	if f.GST != "" {
		rules = append(rules, rule{FieldGST, f.GST, "digits", "GST should contain only numbers."})
	}
	rules = append(rules,
		rule{FieldPhone, f.Phone, "required", "Please enter a phone number."},
		rule{FieldPhone, f.Phone, "digits,len=10", "Please enter a valid 10-digit phone number."},
		rule{FieldAddress, f.Address, "required", "Please enter an address."},
		rule{FieldDistrict, f.District, "required", "Please enter a district."},
		rule{FieldDistrict, f.District, "alphaspace", "District should contain only letters and spaces."},
	)
	for i, m := range f.Managers {
		n := i + 1
		rules = append(rules,
			rule{managerField(i, "name"), m.Name, "required", fmt.Sprintf("Please enter a name for manager %d.", n)},
			rule{managerField(i, "name"), m.Name, "alphaspace", "Manager name should contain only letters and spaces."},
			rule{managerField(i, "phone"), m.Phone, "required", fmt.Sprintf("Please enter a phone number for manager %d.", n)},
			rule{managerField(i, "phone"), m.Phone, "digits,len=10", fmt.Sprintf("Please enter a valid 10-digit phone number for manager %d.", n)},
		)
	}
	for _, r := range rules {
		if err := val.v.Var(r.value, r.tag); err != nil {
			return domain.NewValidationError(r.field, r.message)
		}
	}
	return nil
}

// DropBlankManagers quita las filas sin nombre ni teléfono (tras recortar espacios).
func DropBlankManagers(in []entity.Manager) []entity.Manager {
	out := make([]entity.Manager, 0, len(in))
	for _, m := range in {
		if strings.TrimSpace(m.Name) == "" && strings.TrimSpace(m.Phone) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ValidateInput valida un EntityInput con las mismas reglas del formulario.
func (val *Validator) ValidateInput(in entity.EntityInput) error {
	return val.Validate(FormFromInput(in))
}

func managerField(i int, name string) string {
	return fmt.Sprintf("managers[%d].%s", i, name)
}
