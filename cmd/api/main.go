package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/entity-registry/internal/application/usecase"
	infrapdf "github.com/jhoicas/entity-registry/internal/infrastructure/pdf"
	"github.com/jhoicas/entity-registry/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/entity-registry/internal/interfaces/http"
	"github.com/jhoicas/entity-registry/pkg/config"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.HTTP.ServerStore).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repo, closeRepo, err := storage.OpenServerRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de entidades")
	}
	defer closeRepo()

	// PDF: listado imprimible del registro
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	entityUC := usecase.NewEntityUseCase(repo, pdfGenerator, log)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		SwaggerFile: cfg.HTTP.SwaggerFile,
	}, httpRouter.RouterDeps{
		EntityUC: entityUC,
		Log:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
