package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/entity-registry/internal/application/dto"
	"github.com/jhoicas/entity-registry/internal/application/usecase"
	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// DeletedMessage respuesta de un borrado correcto.
const DeletedMessage = "Entity deleted successfully"

// EntityHandler maneja las peticiones HTTP de /user-details/.
type EntityHandler struct {
	uc  *usecase.EntityUseCase
	log *logger.Logger
}

// NewEntityHandler construye el handler.
func NewEntityHandler(uc *usecase.EntityUseCase, log *logger.Logger) *EntityHandler {
	return &EntityHandler{uc: uc, log: logger.OrNop(log).Named("entity_handler")}
}

// Create godoc
// @Summary      Registrar entidad
// @Tags         user-details
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntityRequest  true  "Datos de la entidad"
// @Success      201   {object}  dto.EntityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /user-details/ [post]
func (h *EntityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEntityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar entidades
// @Tags         user-details
// @Produce      json
// @Success      200  {array}  dto.EntityResponse
// @Router       /user-details/ [get]
func (h *EntityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entidad
// @Tags         user-details
// @Produce      json
// @Param        id   path  int  true  "ID de la entidad"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /user-details/{id} [delete]
func (h *EntityHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero"})
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: DeletedMessage})
}

// ExportPDF godoc
// @Summary      Exportar registro en PDF
// @Tags         user-details
// @Produce      application/pdf
// @Success      200
// @Router       /user-details/export.pdf [get]
func (h *EntityHandler) ExportPDF(c *fiber.Ctx) error {
	raw, err := h.uc.ExportPDF(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="entity-register.pdf"`)
	return c.Send(raw)
}

func (h *EntityHandler) writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Field: verr.Field, Message: verr.Message})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "entidad no encontrada"})
	default:
		h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
