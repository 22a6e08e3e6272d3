// seed registra entidades en el almacén configurado a partir de un CSV.
// Cada fila pasa por el formulario de alta: misma sanitización y validación que un usuario.
//
// Uso: go run ./cmd/seed [ruta/entities.csv]
// Por defecto busca entities.csv en el directorio actual.
//
// Columnas (con cabecera): name,pan,gst,phone,address,district,managers
// managers: "Nombre:Teléfono" separados por ";". Acepta UTF-8 o ISO-8859-1.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/entity-registry/internal/infrastructure/storage"
	"github.com/jhoicas/entity-registry/pkg/config"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

func main() {
	csvPath := "entities.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, closeStore, err := storage.OpenEntityStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacén: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	res, err := seed(ctx, raw, store, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "fila %d: %s\n", f.Line, f.Message)
	}
	fmt.Printf("Registradas %d entidades, %d filas rechazadas (%s)\n", res.Created, len(res.Failures), cfg.Store.Mode)
	if len(res.Failures) > 0 {
		os.Exit(2)
	}
}
