package dialog

import (
	"fmt"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// Textos del menú principal. El despachador los reconoce igual que un comando.
const (
	BtnAddItem    = "➕ Agregar artículo"
	BtnAdjustQty  = "🔁 Ajustar stock"
	BtnSetQty     = "✅ Fijar stock"
	BtnDeleteItem = "🗑 Eliminar artículo"
	BtnListItems  = "📋 Artículos"
	BtnSearch     = "🔍 Buscar"
	BtnLowStock   = "⚠️ Stock bajo"
	BtnBulkAdd    = "📥 Carga masiva"
	BtnReports    = "📊 Reportes"
	BtnWarehouses = "🏢 Bodegas"
	BtnSettings   = "⚙️ Ajustes"
	BtnAdminPanel = "🛠 Panel admin"
	BtnHelp       = "ℹ️ Ayuda"
)

// Acciones de los botones inline.
const (
	ActListItems       = "list_items"
	ActWarehouseFilter = "warehouse_filter"
	ActWarehouseSelect = "warehouse_select"
	ActPrefillItem     = "prefill_item"
	ActUpdateField     = "update_field"
	ActLowStock        = "low_stock"
	ActHistory         = "history"
	ActExportCSV       = "export_csv"
	ActExportXLSX      = "export_xlsx"
	ActExportPDF       = "export_pdf"
	ActWarehousesList  = "warehouses_list"
	ActWarehouseAdd    = "warehouse_add"
	ActWarehouseRemove = "warehouse_remove"
	ActWarehouseItems  = "warehouse_items"
	ActAdminsList      = "admins_list"
	ActAdminAdd        = "admin_add"
	ActAdminRemove     = "admin_remove"
	ActUpdateItem      = "update_item"
	ActSetMin          = "set_min"
)

// MainMenu es el teclado persistente con las operaciones de la bodega.
func MainMenu() *Markup {
	return &Markup{
		Reply: [][]string{
			{BtnAddItem, BtnAdjustQty, BtnSetQty},
			{BtnListItems, BtnSearch, BtnLowStock},
			{BtnBulkAdd, BtnDeleteItem, BtnWarehouses},
			{BtnReports, BtnSettings, BtnAdminPanel},
			{BtnHelp},
		},
	}
}

func ReportsMenu() *Markup {
	return &Markup{
		Inline: [][]Button{
			{{Text: "📄 Exportar CSV", Action: ActExportCSV}, {Text: "📘 Exportar Excel", Action: ActExportXLSX}},
			{{Text: "🧾 Exportar PDF", Action: ActExportPDF}},
			{{Text: "⚠️ Stock bajo", Action: ActLowStock}, {Text: "🕘 Historial", Action: ActHistory}},
		},
	}
}

func WarehousesMenu() *Markup {
	return &Markup{
		Inline: [][]Button{
			{{Text: "📋 Listar bodegas", Action: ActWarehousesList}},
			{{Text: "➕ Crear bodega", Action: ActWarehouseAdd}, {Text: "🗑 Eliminar bodega", Action: ActWarehouseRemove}},
			{{Text: "📦 Artículos por bodega", Action: ActWarehouseItems}},
		},
	}
}

func SettingsMenu() *Markup {
	return &Markup{
		Inline: [][]Button{
			{{Text: "✏️ Editar artículo", Action: ActUpdateItem}},
			{{Text: "⚠️ Fijar stock mínimo", Action: ActSetMin}},
		},
	}
}

func AdminMenu() *Markup {
	return &Markup{
		Inline: [][]Button{
			{{Text: "📋 Listar admins", Action: ActAdminsList}},
			{{Text: "➕ Agregar admin", Action: ActAdminAdd}, {Text: "➖ Quitar admin", Action: ActAdminRemove}},
		},
	}
}

// PaginationMarkup arma la fila de navegación del listado general. Las
// acciones llevan la página destino; el núcleo vuelve a acotar el número al
// atenderlas, así que un botón viejo nunca sale del rango.
func PaginationMarkup(page, totalPages int) *Markup {
	if totalPages <= 1 {
		return nil
	}

	var row []Button
	if page > 1 {
		row = append(row, Button{Text: "⬅️ Anterior", Action: fmt.Sprintf("%s:%d", ActListItems, page-1)})
	}
	row = append(row, Button{Text: fmt.Sprintf("%d/%d", page, totalPages), Action: fmt.Sprintf("%s:%d", ActListItems, page)})
	if page < totalPages {
		row = append(row, Button{Text: "Siguiente ➡️", Action: fmt.Sprintf("%s:%d", ActListItems, page+1)})
	}

	return &Markup{Inline: [][]Button{row}}
}

// WarehouseSelectMarkup ofrece las bodegas existentes durante el alta de un
// artículo. La acción con ID 0 deja el artículo sin bodega.
func WarehouseSelectMarkup(warehouses []*entity.Warehouse) *Markup {
	m := &Markup{}
	for _, w := range warehouses {
		m.Inline = append(m.Inline, []Button{{
			Text:   w.Name,
			Action: fmt.Sprintf("%s:%d", ActWarehouseSelect, w.ID),
		}})
	}
	m.Inline = append(m.Inline, []Button{{Text: "Sin bodega", Action: ActWarehouseSelect + ":0"}})

	return m
}

// WarehouseFilterMarkup ofrece las bodegas para el listado filtrado. Cada
// acción arranca en la página 1 ordenada por nombre; el ID 0 lista todo.
func WarehouseFilterMarkup(warehouses []*entity.Warehouse) *Markup {
	m := &Markup{}
	for _, w := range warehouses {
		m.Inline = append(m.Inline, []Button{{
			Text:   w.Name,
			Action: fmt.Sprintf("%s:%d:%s:1", ActWarehouseFilter, w.ID, repository.SortByName),
		}})
	}
	m.Inline = append(m.Inline, []Button{{
		Text:   "Todas las bodegas",
		Action: fmt.Sprintf("%s:0:%s:1", ActWarehouseFilter, repository.SortByName),
	}})

	return m
}

// WarehouseNavMarkup combina los botones de orden con la navegación de
// páginas para un listado filtrado por bodega.
func WarehouseNavMarkup(warehouseID int64, sort string, page, totalPages int) *Markup {
	action := func(s string, p int) string {
		return fmt.Sprintf("%s:%d:%s:%d", ActWarehouseFilter, warehouseID, s, p)
	}

	sortRow := []Button{
		{Text: sortLabel("Nombre", sort == repository.SortByName), Action: action(repository.SortByName, 1)},
		{Text: sortLabel("Cantidad", sort == repository.SortByQty), Action: action(repository.SortByQty, 1)},
		{Text: sortLabel("SKU", sort == repository.SortBySKU), Action: action(repository.SortBySKU, 1)},
	}
	m := &Markup{Inline: [][]Button{sortRow}}

	if totalPages > 1 {
		var nav []Button
		if page > 1 {
			nav = append(nav, Button{Text: "⬅️ Anterior", Action: action(sort, page-1)})
		}
		nav = append(nav, Button{Text: fmt.Sprintf("%d/%d", page, totalPages), Action: action(sort, page)})
		if page < totalPages {
			nav = append(nav, Button{Text: "Siguiente ➡️", Action: action(sort, page+1)})
		}
		m.Inline = append(m.Inline, nav)
	}

	return m
}

func sortLabel(label string, active bool) string {
	if active {
		return "• " + label
	}
	return label
}

// PrefillMarkup ofrece artículos parecidos como plantilla durante el alta.
func PrefillMarkup(items []*entity.Item) *Markup {
	m := &Markup{}
	for _, it := range items {
		m.Inline = append(m.Inline, []Button{{
			Text:   fmt.Sprintf("%s — %s", it.SKU, truncate(it.Name, 30)),
			Action: fmt.Sprintf("%s:%d", ActPrefillItem, it.ID),
		}})
	}
	m.Inline = append(m.Inline, []Button{{Text: "Empezar de cero", Action: ActPrefillItem + ":skip"}})

	return m
}

// UpdateFieldsMarkup lista los campos editables de un artículo.
func UpdateFieldsMarkup() *Markup {
	labels := map[entity.ItemField]string{
		entity.FieldName:      "Nombre",
		entity.FieldSKU:       "SKU",
		entity.FieldUnit:      "Unidad",
		entity.FieldLocation:  "Ubicación",
		entity.FieldWarehouse: "Bodega",
		entity.FieldMinQty:    "Stock mínimo",
	}

	m := &Markup{}
	var row []Button
	for _, f := range entity.EditableFields {
		row = append(row, Button{Text: labels[f], Action: fmt.Sprintf("%s:%s", ActUpdateField, f)})
		if len(row) == 2 {
			m.Inline = append(m.Inline, row)
			row = nil
		}
	}
	if len(row) > 0 {
		m.Inline = append(m.Inline, row)
	}

	return m
}
