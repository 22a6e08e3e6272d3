package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/entity-registry/internal/application/dto"
	"github.com/jhoicas/entity-registry/internal/application/usecase"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// RootMessage respuesta de GET /.
const RootMessage = "Entity Registry API is running"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EntityUC *usecase.EntityUseCase
	Log      *logger.Logger
}

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	SwaggerFile string // vacío o inexistente = sin Swagger UI
}

// NewApp construye la aplicación Fiber con recover, CORS abierto, log de peticiones,
// Swagger UI opcional en /docs y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: errorCode(code), Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + HeaderRequestID,
	}))
	app.Use(RequestMiddleware(deps.Log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Entity Registry API",
			}))
		} else {
			logger.OrNop(deps.Log).Warn().Str("file", cfg.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(dto.MessageResponse{Message: RootMessage})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok"})
	})

	entities := app.Group("/user-details")
	entityHandler := NewEntityHandler(deps.EntityUC, deps.Log)
	entities.Post("/", entityHandler.Create)
	entities.Get("/", entityHandler.List)
	entities.Get("/export.pdf", entityHandler.ExportPDF)
	entities.Delete("/:id", entityHandler.Delete)
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "INTERNAL"
	}
}
