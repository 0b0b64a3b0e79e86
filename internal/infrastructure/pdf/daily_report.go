// Package pdf genera el reporte diario de movimientos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: nombre de la bodega  │  fecha del reporte          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: IN / OUT / PACKING / OUTGOING (conteo y cantidad)  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Tipo | Código | Producto | Cantidad           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STOCK BAJO: Código | Producto | Stock | Mínimo              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

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

	"github.com/jhoicas/logistica-api/internal/application/reporting"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

var _ reporting.PDFRenderer = (*DailyReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var movementOrder = []entity.MovementType{
	entity.MovementTypeIN, entity.MovementTypeOUT, entity.MovementTypePACKING, entity.MovementTypeOUTGOING,
}

// ── Generator ─────────────────────────────────────────────────────────────────

// DailyReportGenerator implementa reporting.PDFRenderer usando Maroto v2.
type DailyReportGenerator struct {
	title string
}

// NewDailyReportGenerator title aparece en el encabezado (nombre de la aplicación o bodega).
func NewDailyReportGenerator(title string) *DailyReportGenerator {
	return &DailyReportGenerator{title: title}
}

// RenderDailyReport genera el PDF y devuelve sus bytes.
func (g *DailyReportGenerator) RenderDailyReport(s *reporting.DailySummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte diario "+s.Date, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(totalsRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle(fmt.Sprintf("MOVIMIENTOS (%d)", len(s.Movements)), colorPrimary))
	m.AddRows(movementHeaderRow())
	m.AddRows(movementRows(s.Movements)...)

	if len(s.LowStock) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle(fmt.Sprintf("STOCK BAJO (%d)", len(s.LowStock)), colorAlert))
		m.AddRows(lowStockHeaderRow())
		m.AddRows(lowStockRows(s.LowStock)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *DailyReportGenerator) headerRow(s *reporting.DailySummary) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte diario de movimientos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(s.Date, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+s.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// totalsRow: una columna por tipo de movimiento.
func totalsRow(s *reporting.DailySummary) core.Row {
	cols := make([]core.Col, 0, len(movementOrder))
	for _, typ := range movementOrder {
		t := s.Totals[typ]
		cols = append(cols, col.New(3).Add(
			text.New(string(typ), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New(strconv.Itoa(t.Quantity), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 6,
			}),
			text.New(fmt.Sprintf("%d mov.", t.Count), props.Text{
				Size: 7, Align: align.Center, Top: 13, Color: colorGray,
			}),
		))
	}
	return row.New(18).Add(cols...)
}

func sectionTitle(title string, color *props.Color) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: color, Top: 1}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func movementHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Hora", 2, align.Left),
		headerCell("Tipo", 2, align.Left),
		headerCell("Código", 3, align.Left),
		headerCell("Producto", 3, align.Left),
		headerCell("Cantidad", 2, align.Right),
	)
}

func movementRows(list []*entity.Movement) []core.Row {
	rows := make([]core.Row, 0, len(list)+1)
	if len(list) == 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Sin movimientos en el día.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
		return rows
	}
	for _, m := range list {
		qty := strconv.Itoa(m.Quantity)
		if m.Type.Sign() < 0 {
			qty = "-" + qty
		}
		rows = append(rows, row.New(5).Add(
			cell(m.Time, 2, align.Left),
			cell(string(m.Type), 2, align.Left),
			cell(m.Barcode, 3, align.Left),
			cell(m.ProductName, 3, align.Left),
			cell(qty, 2, align.Right),
		))
	}
	return rows
}

func lowStockHeaderRow() core.Row {
	return row.New(6).Add(
		headerCell("Código", 3, align.Left),
		headerCell("Producto", 5, align.Left),
		headerCell("Stock", 2, align.Right),
		headerCell("Mínimo", 2, align.Right),
	)
}

func lowStockRows(list []*entity.Product) []core.Row {
	rows := make([]core.Row, 0, len(list))
	for _, p := range list {
		rows = append(rows, row.New(5).Add(
			cell(p.Barcode, 3, align.Left),
			cell(p.Name, 5, align.Left),
			cell(strconv.Itoa(p.Stock), 2, align.Right),
			cell(strconv.Itoa(p.MinStock), 2, align.Right),
		))
	}
	return rows
}
