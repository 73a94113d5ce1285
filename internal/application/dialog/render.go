package dialog

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// Anchos fijos de las tablas monoespaciadas. El texto va dentro de <pre>,
// así las columnas quedan alineadas en el cliente de chat.
const (
	colID   = 4
	colSKU  = 10
	colName = 18
	colQty  = 8
	colUnit = 5
	colWh   = 10
	colMin  = 6
	colDate = 16
	colNote = 20
)

// FormatItemsTable arma una tabla monoespaciada de artículos. Los que están
// en stock bajo llevan el marcador ⚠ delante del ID.
func FormatItemsTable(items []*entity.Item) string {
	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(tableRow("ID", "SKU", "NOMBRE", "CANT", "UN", "BODEGA", "MIN"))

	for _, it := range items {
		id := fmt.Sprintf("%d", it.ID)
		if it.LowStock() {
			id = "⚠" + id
		}
		b.WriteString(tableRow(
			id,
			it.SKU,
			it.Name,
			fmtDec(it.Qty),
			it.Unit,
			derefOrDash(it.Warehouse),
			fmtDec(it.MinQty),
		))
	}
	b.WriteString("</pre>")

	return b.String()
}

func tableRow(id, sku, name, qty, unit, wh, min string) string {
	return fmt.Sprintf("%s %s %s %s %s %s %s\n",
		pad(id, colID),
		pad(sku, colSKU),
		pad(name, colName),
		pad(qty, colQty),
		pad(unit, colUnit),
		pad(wh, colWh),
		pad(min, colMin),
	)
}

// FormatMovementsTable arma la tabla del historial de movimientos.
func FormatMovementsTable(moves []*entity.MovementWithItem) string {
	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%s %s %s %s\n",
		pad("FECHA", colDate), pad("SKU", colSKU), pad("DELTA", colQty), pad("NOTA", colNote)))

	for _, m := range moves {
		delta := fmtDec(m.Delta)
		if m.Delta.IsPositive() {
			delta = "+" + delta
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			pad(m.CreatedAt.Format("2006-01-02 15:04"), colDate),
			pad(m.ItemSKU, colSKU),
			pad(delta, colQty),
			pad(derefOrDash(m.Note), colNote),
		))
	}
	b.WriteString("</pre>")

	return b.String()
}

// FormatItemCard arma la ficha de un artículo para las confirmaciones.
func FormatItemCard(it *entity.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 <b>%s</b>\n", html.EscapeString(it.Name))
	fmt.Fprintf(&b, "SKU: <code>%s</code>\n", html.EscapeString(it.SKU))
	fmt.Fprintf(&b, "ID: %d\n", it.ID)
	fmt.Fprintf(&b, "Stock: %s %s\n", fmtDec(it.Qty), html.EscapeString(it.Unit))
	fmt.Fprintf(&b, "Bodega: %s\n", html.EscapeString(derefOrDash(it.Warehouse)))
	fmt.Fprintf(&b, "Ubicación: %s\n", html.EscapeString(derefOrDash(it.Location)))
	fmt.Fprintf(&b, "Mínimo: %s", fmtDec(it.MinQty))
	if it.LowStock() {
		b.WriteString("\n⚠️ Stock bajo")
	}

	return b.String()
}

// pad recorta con elipsis o rellena con espacios hasta el ancho dado,
// contando runas para no partir acentos ni emojis.
func pad(s string, width int) string {
	s = truncate(s, width)
	if n := len([]rune(s)); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

func fmtDec(d decimal.Decimal) string {
	return d.String()
}

func derefOrDash(s *string) string {
	if s == nil || *s == "" {
		return "—"
	}
	return *s
}
