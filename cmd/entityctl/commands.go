package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/entity-registry/internal/application/form"
	"github.com/jhoicas/entity-registry/internal/application/ports"
	"github.com/jhoicas/entity-registry/internal/application/viewer"
	"github.com/jhoicas/entity-registry/internal/domain"
	"github.com/jhoicas/entity-registry/internal/domain/entity"
	"github.com/jhoicas/entity-registry/internal/infrastructure/pdf"
	"github.com/jhoicas/entity-registry/pkg/config"
)

// errReported el error ya se mostró al usuario como aviso.
var errReported = errors.New("reportado")

var fieldHelp = map[string]string{
	"name":     "nombre de la entidad (letras y espacios)",
	"pan":      "número PAN (alfanumérico)",
	"gst":      "número GST (opcional, solo dígitos)",
	"phone":    "teléfono de 10 dígitos",
	"address":  "dirección",
	"district": "distrito (letras y espacios)",
}

func newCreateCmd(c *cli) *cobra.Command {
	values := make(map[string]*string, len(form.Fields))
	var managers []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Registrar una entidad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl := form.NewController(c.store, c, c.log)
			for _, field := range form.Fields {
				if _, err := ctrl.SetField(field, *values[field]); err != nil {
					return c.fail(err)
				}
			}
			for _, raw := range managers {
				m, err := parseManager(raw)
				if err != nil {
					return c.fail(err)
				}
				ctrl.AddManager(&m)
			}
			saved, err := ctrl.Submit(cmd.Context())
			if err != nil {
				return errReported
			}
			fmt.Fprintf(c.out, "id: %d\n", saved.ID)
			return nil
		},
	}
	for _, field := range form.Fields {
		values[field] = cmd.Flags().String(field, "", fieldHelp[field])
	}
	cmd.Flags().StringArrayVar(&managers, "manager", nil, `encargado "Nombre:Teléfono" (repetible)`)
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar las entidades registradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				list, err := c.store.List(cmd.Context())
				if err != nil {
					return c.fail(err)
				}
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			view, err := c.viewer().Refresh(cmd.Context())
			if err != nil {
				return errReported
			}
			printList(c, view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "salida JSON con el formato del almacén")
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	values := make(map[string]*string, len(form.Fields))
	var setManagers, addManagers []string
	var removeManagers []int

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Editar una entidad en línea (solo almacén local)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return c.fail(err)
			}
			v := c.viewer()
			if _, err := v.Refresh(cmd.Context()); err != nil {
				return errReported
			}
			if err := v.BeginEdit(id); err != nil {
				return c.fail(err)
			}
			for _, field := range form.Fields {
				if cmd.Flags().Changed(field) {
					if _, err := v.SetField(id, field, *values[field]); err != nil {
						return c.fail(err)
					}
				}
			}
			for _, raw := range setManagers {
				idx, m, err := parseIndexedManager(raw)
				if err != nil {
					return c.fail(err)
				}
				if _, err := v.SetManager(id, idx-1, m.Name, m.Phone); err != nil {
					return c.fail(fmt.Errorf("encargado %d: %w", idx, err))
				}
			}
			sort.Sort(sort.Reverse(sort.IntSlice(removeManagers)))
			for _, idx := range removeManagers {
				if _, err := v.RemoveManager(id, idx-1); err != nil {
					return c.fail(fmt.Errorf("encargado %d: %w", idx, err))
				}
			}
			for _, raw := range addManagers {
				m, err := parseManager(raw)
				if err != nil {
					return c.fail(err)
				}
				idx, err := v.AddManager(id)
				if err != nil {
					return c.fail(err)
				}
				if _, err := v.SetManager(id, idx, m.Name, m.Phone); err != nil {
					return c.fail(err)
				}
			}
			if err := v.CommitEdit(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrStorage) {
					return errReported
				}
				return c.fail(err)
			}
			c.Notify(ports.Notice{Level: ports.NoticeSuccess, Message: form.SavedMessage})
			return nil
		},
	}
	for _, field := range form.Fields {
		values[field] = cmd.Flags().String(field, "", fieldHelp[field])
	}
	cmd.Flags().StringArrayVar(&setManagers, "manager", nil, `reemplaza un encargado "N=Nombre:Teléfono" (N desde 1)`)
	cmd.Flags().StringArrayVar(&addManagers, "add-manager", nil, `añade un encargado "Nombre:Teléfono"`)
	cmd.Flags().IntSliceVar(&removeManagers, "remove-manager", nil, "quita el encargado N (desde 1, con confirmación)")
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Eliminar una entidad (con confirmación)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return c.fail(err)
			}
			v := c.viewer()
			if _, err := v.Refresh(cmd.Context()); err != nil {
				return errReported
			}
			deleted, err := v.Delete(cmd.Context(), id)
			if err != nil {
				return errReported
			}
			if !deleted {
				fmt.Fprintln(c.out, "cancelado")
			}
			return nil
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exportar el registro a PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.store.List(cmd.Context())
			if err != nil {
				return c.fail(err)
			}
			raw, err := pdf.NewMarotoPDFGenerator().GenerateRegisterPDF(cmd.Context(), list)
			if err != nil {
				return c.fail(err)
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return c.fail(fmt.Errorf("escribir %s: %w", out, err))
			}
			fmt.Fprintf(c.out, "%d entidades exportadas a %s\n", len(list), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "entity-register.pdf", "archivo de salida")
	return cmd
}

// viewer construye el listado; el backend remoto no admite edición.
func (c *cli) viewer() *viewer.Viewer {
	opts := []viewer.Option{
		viewer.WithNotifier(c),
		viewer.WithLogger(c.log),
	}
	if c.cfg.Store.Mode == config.StoreModeRemote {
		opts = append(opts, viewer.ReadOnly())
	}
	return viewer.New(c.store, c, opts...)
}

func printList(c *cli, view viewer.ListView) {
	if len(view.Cards) == 0 {
		fmt.Fprintln(c.out, view.EmptyMessage)
		return
	}
	for i, card := range view.Cards {
		if i > 0 {
			fmt.Fprintln(c.out)
		}
		fmt.Fprintf(c.out, "#%d  %s\n", card.ID, card.Name)
		fmt.Fprintf(c.out, "  PAN: %s  GST: %s  Phone: %s\n", card.PAN, card.GST, card.Phone)
		fmt.Fprintf(c.out, "  Address: %s  District: %s\n", card.Address, card.District)
		if card.Created != "" {
			fmt.Fprintf(c.out, "  Created: %s\n", card.Created)
		}
		fmt.Fprintln(c.out, "  Managers:")
		if card.NoManagers != "" {
			fmt.Fprintf(c.out, "    %s\n", card.NoManagers)
		}
		for _, m := range card.Managers {
			fmt.Fprintf(c.out, "    - %s (%s)\n", m.Name, m.Phone)
		}
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id inválido %q", raw)
	}
	return id, nil
}

// parseManager interpreta "Nombre:Teléfono".
func parseManager(raw string) (entity.Manager, error) {
	i := strings.LastIndex(raw, ":")
	if i < 0 {
		return entity.Manager{}, fmt.Errorf("encargado %q: formato esperado Nombre:Teléfono", raw)
	}
	return entity.Manager{Name: strings.TrimSpace(raw[:i]), Phone: strings.TrimSpace(raw[i+1:])}, nil
}

// parseIndexedManager interpreta "N=Nombre:Teléfono".
func parseIndexedManager(raw string) (int, entity.Manager, error) {
	pos, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, entity.Manager{}, fmt.Errorf("encargado %q: formato esperado N=Nombre:Teléfono", raw)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(pos))
	if err != nil || idx < 1 {
		return 0, entity.Manager{}, fmt.Errorf("encargado %q: posición inválida", raw)
	}
	m, err := parseManager(rest)
	return idx, m, err
}
