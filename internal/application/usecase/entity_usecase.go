package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/entity-registry/internal/application/dto"
	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/domain/validation"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// RegisterPDFGenerator genera el listado imprimible de entidades.
type RegisterPDFGenerator interface {
	GenerateRegisterPDF(ctx context.Context, entities []*entity.Entity) ([]byte, error)
}

// EntityUseCase casos de uso del backend /user-details/.
type EntityUseCase struct {
	repo      repository.EntityRepository
	validator *validation.Validator
	pdf       RegisterPDFGenerator
	log       *logger.Logger
}

// NewEntityUseCase construye el caso de uso. pdf puede ser nil (exportación deshabilitada).
func NewEntityUseCase(repo repository.EntityRepository, pdf RegisterPDFGenerator, log *logger.Logger) *EntityUseCase {
	return &EntityUseCase{
		repo:      repo,
		validator: validation.New(),
		pdf:       pdf,
		log:       logger.OrNop(log).Named("entity_usecase"),
	}
}

// Create valida con las mismas reglas del formulario, normaliza y guarda.
// Los encargados enviados en blanco se descartan antes de validar; los incompletos se rechazan.
func (uc *EntityUseCase) Create(ctx context.Context, in dto.CreateEntityRequest) (*dto.EntityResponse, error) {
	form := validation.FormFromInput(in.Input())
	form.Managers = validation.DropBlankManagers(form.Managers)
	if err := uc.validator.Validate(form); err != nil {
		return nil, err
	}
	saved, err := uc.repo.Create(ctx, form.Input())
	if err != nil {
		uc.log.Error().Err(err).Msg("error creando entidad")
		return nil, err
	}
	uc.log.Info().Int64("id", saved.ID).Str("name", saved.Name).Msg("entidad creada")
	return dto.ToEntityResponse(saved), nil
}

// List devuelve todas las entidades en el orden del repositorio.
func (uc *EntityUseCase) List(ctx context.Context) ([]dto.EntityResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntityResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *dto.ToEntityResponse(e))
	}
	return out, nil
}

// Delete elimina la entidad. domain.ErrNotFound si no existe.
func (uc *EntityUseCase) Delete(ctx context.Context, id int64) error {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.log.Error().Err(err).Int64("id", id).Msg("error eliminando entidad")
		return err
	}
	uc.log.Info().Int64("id", id).Msg("entidad eliminada")
	return nil
}

// ExportPDF genera el PDF del registro completo.
func (uc *EntityUseCase) ExportPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateRegisterPDF(ctx, list)
}
