package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/entity-registry/pkg/logger"
)

// Locals key para el id de la petición en Fiber.
const LocalRequestID = "request_id"

// HeaderRequestID cabecera con la que se propaga el id de la petición.
const HeaderRequestID = "X-Request-ID"

// RequestMiddleware asigna un id a cada petición (respeta X-Request-ID entrante), lo deja en
// c.Locals y registra método, ruta, estado y duración al terminar.
func RequestMiddleware(log *logger.Logger) fiber.Handler {
	log = logger.OrNop(log).Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(LocalRequestID, id)
		c.Set(HeaderRequestID, id)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("request_id", id).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}

// GetRequestID devuelve el id de la petición del contexto (después de RequestMiddleware).
func GetRequestID(c *fiber.Ctx) string {
	v := c.Locals(LocalRequestID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
