// Package pdf implementa el listado imprimible del registro de entidades.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de emisión + total de entidades      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TARJETA: Nombre + id │ PAN / GST / Teléfono / Distrito      │
//	│           Dirección, fecha de alta                           │
//	│           Encargados (o "No managers assigned")              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ... una tarjeta por entidad, en el orden del almacén        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/entity-registry/internal/domain/entity"
)

// Textos del listado impreso.
const (
	emptyGST          = "N/A"
	noManagersMessage = "No managers assigned"
	emptyListMessage  = "No entities found."
	dateLayout        = "Jan 2, 2006, 03:04 PM"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.RegisterPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateRegisterPDF genera el PDF con una tarjeta por entidad y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRegisterPDF(ctx context.Context, entities []*entity.Entity) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Entity Register", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.now(), len(entities)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(entities) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New(emptyListMessage, props.Text{Size: 10, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddRows(cardRows(e)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha + total (der).
func headerRow(now time.Time, total int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("ENTITY REGISTER", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+now.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Entities: "+strconv.Itoa(total), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// cardRows: bloque de una entidad.
func cardRows(e *entity.Entity) []core.Row {
	label := props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}
	value := props.Text{Size: 9, Top: 5}

	rows := []core.Row{
		row.New(8).Add(
			col.New(9).Add(text.New(e.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
			})),
			col.New(3).Add(text.New("#"+strconv.FormatInt(e.ID, 10), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			})),
		),
		row.New(11).Add(
			col.New(3).Add(text.New("PAN", label), text.New(e.PAN, value)),
			col.New(3).Add(text.New("GST", label), text.New(gstText(e.GST), value)),
			col.New(3).Add(text.New("PHONE", label), text.New(e.Phone, value)),
			col.New(3).Add(text.New("DISTRICT", label), text.New(e.District, value)),
		),
		row.New(11).Add(
			col.New(8).Add(text.New("ADDRESS", label), text.New(e.Address, value)),
			col.New(4).Add(text.New("CREATED", label), text.New(createdText(e.CreatedAt), value)),
		),
		row.New(6).Add(col.New(12).Add(text.New("MANAGERS", props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 2,
		}))),
	}

	if len(e.Managers) == 0 {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(noManagersMessage, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 2}),
		)))
	}
	for _, m := range e.Managers {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(m.Name, props.Text{Size: 8, Top: 1, Left: 2})),
			col.New(6).Add(text.New(m.Phone, props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func gstText(gst *string) string {
	if gst == nil || *gst == "" {
		return emptyGST
	}
	return *gst
}

func createdText(ts entity.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(dateLayout)
}
