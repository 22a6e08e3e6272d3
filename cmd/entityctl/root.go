package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/domain/repository"
	"github.com/jhoicas/entity-registry/internal/infrastructure/storage"
	"github.com/jhoicas/entity-registry/pkg/config"
	"github.com/jhoicas/entity-registry/pkg/logger"
)

// cli estado compartido por los subcomandos, preparado en PersistentPreRunE.
type cli struct {
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	v         *viper.Viper
	assumeYes bool

	cfg   *config.Config
	log   *logger.Logger
	store repository.EntityStore
	close storage.CloseFunc
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: bufio.NewReader(in), out: out, errOut: errOut, v: viper.New()}

	root := &cobra.Command{
		Use:           "entityctl",
		Short:         "Registro de entidades de negocio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.close != nil {
				c.close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("store-mode", config.StoreModeLocal, "almacén: local | remote")
	flags.String("slot-backend", config.SlotBackendFile, "backend del slot local: memory | file | redis")
	flags.String("slot-dir", ".entity-registry", "directorio del backend file")
	flags.String("slot-key", "userEntities", "nombre del slot con la colección")
	flags.String("redis-addr", "127.0.0.1:6379", "dirección de Redis")
	flags.String("remote-url", "http://localhost:8000", "URL base del backend REST")
	flags.String("log-level", "warn", "nivel de log: trace | debug | info | warn | error")
	flags.BoolVarP(&c.assumeYes, "yes", "y", false, "responder sí a todas las confirmaciones")

	for key, flag := range map[string]string{
		"STORE_MODE":      "store-mode",
		"SLOT_BACKEND":    "slot-backend",
		"SLOT_DIR":        "slot-dir",
		"SLOT_KEY":        "slot-key",
		"REDIS_ADDR":      "redis-addr",
		"REMOTE_BASE_URL": "remote-url",
		"LOG_LEVEL":       "log-level",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}
	c.v.SetDefault("LOG_LEVEL", "warn")

	root.AddCommand(
		newCreateCmd(c),
		newListCmd(c),
		newEditCmd(c),
		newDeleteCmd(c),
		newExportCmd(c),
	)
	return root
}

// open carga la configuración (env + flags) y abre el almacén.
func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.LoadFromViper(c.v)
	if err != nil {
		return c.fail(err)
	}
	c.cfg = cfg
	c.log = logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Out: c.errOut})

	store, closeFn, err := storage.OpenEntityStore(cmd.Context(), cfg, c.log)
	if err != nil {
		return c.fail(fmt.Errorf("abrir almacén: %w", err))
	}
	c.store = store
	c.close = closeFn
	return nil
}

// fail imprime el error y lo devuelve para que cobra termine con código 1.
func (c *cli) fail(err error) error {
	fmt.Fprintln(c.errOut, "error:", err)
	return err
}

// Notify imprime avisos: errores a stderr, el resto a stdout.
func (c *cli) Notify(n ports.Notice) {
	w := c.out
	if n.Level == ports.NoticeError {
		w = c.errOut
	}
	fmt.Fprintln(w, n.Message)
}

// Confirm pregunta por la entrada estándar; --yes acepta sin preguntar.
func (c *cli) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true
	default:
		return false
	}
}

var (
	_ ports.Notifier  = (*cli)(nil)
	_ ports.Confirmer = (*cli)(nil)
)
