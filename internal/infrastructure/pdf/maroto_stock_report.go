// Package pdf implementa la generación del reporte de stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Nombre | Cant | Unidad | Bodega | Mín          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total de artículos / artículos en stock bajo       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
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

	"github.com/jhoicas/bodega-bot/internal/application/reports"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 179, Green: 45, Blue: 30}
)

var _ reports.StockPDFGenerator = (*MarotoStockReport)(nil)

// MarotoStockReport implementa reports.StockPDFGenerator usando Maroto v2.
type MarotoStockReport struct{}

// NewMarotoStockReport construye el generador.
func NewMarotoStockReport() *MarotoStockReport { return &MarotoStockReport{} }

// GenerateStockPDF genera el PDF del inventario y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockPDF(items []*entity.Item, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(items) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(summaryRow(items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y fecha de generación (der).
func headerRow(generatedAt time.Time) core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de artículos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Nombre", 4, align.Left),
		h("Cant.", 2, align.Right),
		h("Unidad", 1, align.Center),
		h("Bodega", 2, align.Left),
		h("Mín.", 1, align.Right),
	)
}

// tableRows: una fila por artículo; la cantidad se pinta en rojo en stock bajo.
func tableRows(items []*entity.Item) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		qtyColor := colorGray
		if it.LowStock() {
			qtyColor = colorAlert
		}
		warehouse := "—"
		if it.Warehouse != nil && *it.Warehouse != "" {
			warehouse = *it.Warehouse
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Qty.String(), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: qtyColor,
			})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(warehouse, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.MinQty.String(), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// summaryRow: totales al pie del reporte.
func summaryRow(items []*entity.Item) core.Row {
	low := 0
	for _, it := range items {
		if it.LowStock() {
			low++
		}
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Artículos: %d   |   En stock bajo: %d", len(items), low), props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		),
	)
}
