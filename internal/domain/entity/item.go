package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del almacén identificado por SKU.
// La unicidad del SKU es case-insensitive y se garantiza al escribir.
// Warehouse es una referencia blanda por nombre (sin FK): borrar o renombrar
// la bodega no toca los artículos que la citan.
type Item struct {
	ID        int64
	SKU       string
	Name      string
	Qty       decimal.Decimal
	Unit      string // por defecto "pcs"
	Location  *string
	Warehouse *string
	MinQty    decimal.Decimal // umbral de stock bajo; 0 = sin alerta
	UpdatedAt time.Time
}

// LowStock indica si el artículo está en o bajo su umbral configurado.
func (i *Item) LowStock() bool {
	return i.MinQty.IsPositive() && i.Qty.LessThanOrEqual(i.MinQty)
}

// Campos editables de un artículo (conjunto cerrado).
type ItemField string

const (
	FieldName      ItemField = "name"
	FieldSKU       ItemField = "sku"
	FieldUnit      ItemField = "unit"
	FieldLocation  ItemField = "location"
	FieldWarehouse ItemField = "warehouse"
	FieldMinQty    ItemField = "min_qty"
)

// EditableFields enumera los campos editables en el orden que se ofrecen al usuario.
var EditableFields = []ItemField{FieldName, FieldSKU, FieldUnit, FieldLocation, FieldWarehouse, FieldMinQty}

// ParseItemField valida un nombre de campo contra el conjunto cerrado.
func ParseItemField(s string) (ItemField, bool) {
	f := ItemField(s)
	for _, known := range EditableFields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// FieldChange es una variante etiquetada sobre el conjunto de campos editables:
// cada cambio lleva su propio valor tipado. Se construye solo con los
// constructores de abajo, que validan la entrada.
type FieldChange struct {
	Field  ItemField
	Text   string          // name, sku, unit, location, warehouse
	Clear  bool            // location/warehouse: limpiar el campo
	MinQty decimal.Decimal // min_qty
}

// TextChange construye un cambio para un campo de texto obligatorio (name, sku, unit).
func TextChange(field ItemField, value string) (FieldChange, bool) {
	if value == "" {
		return FieldChange{}, false
	}
	switch field {
	case FieldName, FieldSKU, FieldUnit:
		return FieldChange{Field: field, Text: value}, true
	}
	return FieldChange{}, false
}

// OptionalTextChange construye un cambio para location o warehouse; clear limpia el campo.
func OptionalTextChange(field ItemField, value string, clear bool) (FieldChange, bool) {
	if field != FieldLocation && field != FieldWarehouse {
		return FieldChange{}, false
	}
	if !clear && value == "" {
		return FieldChange{}, false
	}
	return FieldChange{Field: field, Text: value, Clear: clear}, true
}

// MinQtyChange construye un cambio del umbral de stock bajo.
func MinQtyChange(v decimal.Decimal) FieldChange {
	return FieldChange{Field: FieldMinQty, MinQty: v}
}
