package dialog

import (
	"errors"
	"strconv"

	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain"
)

// Flujo de alta de artículo: sku → nombre → cantidad → unidad → ubicación →
// bodega (botones) → mínimo. Tras capturar el nombre se ofrecen artículos
// parecidos como plantilla; aplicar una precarga unidad, ubicación, bodega y
// mínimo, que luego se aceptan escribiendo "-" en el paso correspondiente.

func (d *Dispatcher) startAddItem(chatID int64) {
	d.sessions.Set(chatID, NewSession(FlowAddItem, StepSKU))
	d.reply(chatID, "➕ Alta de artículo.\nIngresa el SKU (código único):", nil)
}

func (d *Dispatcher) addItemStep(chatID int64, s *Session, text string) {
	switch s.Step {
	case StepSKU:
		if text == "" {
			d.reply(chatID, "El SKU no puede estar vacío. Ingresa el SKU:", nil)
			return
		}
		existing, err := d.inventory.FindBySKU(text)
		if err != nil {
			d.fail(chatID, err, "validar sku")
			return
		}
		if existing != nil {
			d.reply(chatID, "Ese SKU ya existe. Ingresa otro SKU:", nil)
			return
		}
		s.Set("sku", text)
		s.Step = StepName
		d.reply(chatID, "Ingresa el nombre del artículo:", nil)

	case StepName:
		if text == "" {
			d.reply(chatID, "El nombre no puede estar vacío. Ingresa el nombre:", nil)
			return
		}
		s.Set("name", text)
		s.Step = StepQty
		d.offerPrefill(chatID, text)
		d.reply(chatID, "Ingresa el stock inicial (número):", nil)

	case StepQty:
		qty, err := inventory.ParseNumber(text)
		if err != nil {
			d.reply(chatID, "Se necesita un número. Ejemplo: 12.5\nIngresa el stock inicial:", nil)
			return
		}
		s.Set("qty", qty)
		s.Step = StepUnit
		d.reply(chatID, "Unidad de medida (ej. pcs, kg, m). Escribe \"-\" para usar la predeterminada:", nil)

	case StepUnit:
		if text != "-" {
			s.Set("unit", text)
		}
		// Con "-" se conserva la unidad de la plantilla si la hay;
		// si no, AddItem aplica la predeterminada.
		s.Step = StepLocation
		d.reply(chatID, "Ubicación dentro de la bodega (pasillo, estante...). \"-\" para omitir:", nil)

	case StepLocation:
		if text != "-" {
			s.Set("location", text)
		}
		s.Step = StepWarehouse
		d.askWarehouse(chatID)

	case StepWarehouse:
		// Este paso se resuelve con botones; el texto "-" también lo salta.
		if text == "-" {
			s.Step = StepMinQty
			d.reply(chatID, "Stock mínimo para la alerta (número, 0 para desactivar):", nil)
			return
		}
		d.reply(chatID, "Elige la bodega con los botones, o escribe \"-\" para omitir.", nil)

	case StepMinQty:
		if text == "-" && s.Has("min_qty") {
			d.commitAddItem(chatID, s)
			return
		}
		min, err := inventory.ParseNumber(text)
		if err != nil {
			d.reply(chatID, "Se necesita un número. Ingresa el stock mínimo (0 para desactivar):", nil)
			return
		}
		s.Set("min_qty", min)
		d.commitAddItem(chatID, s)
	}
}

// offerPrefill busca artículos parecidos al nombre recién escrito y los
// ofrece como plantilla. Si la búsqueda falla se omite la sugerencia: el
// alta puede seguir sin ella.
func (d *Dispatcher) offerPrefill(chatID int64, name string) {
	matches, err := d.inventory.Search(name)
	if err != nil {
		d.log.Warn().Err(err).Msg("buscar plantillas de alta")
		return
	}
	if len(matches) == 0 {
		return
	}
	if len(matches) > 5 {
		matches = matches[:5]
	}
	d.reply(chatID, "Hay artículos parecidos. ¿Usar uno como plantilla?", PrefillMarkup(matches))
}

// addItemPrefill aplica la plantilla elegida: copia unidad, ubicación,
// bodega y mínimo del artículo de referencia sobre la sesión en curso.
func (d *Dispatcher) addItemPrefill(chatID int64, raw string) {
	s := d.sessions.Get(chatID)
	if s == nil || s.Flow != FlowAddItem {
		d.reply(chatID, replyStale, nil)
		return
	}
	if raw == "skip" {
		d.reply(chatID, "Sin plantilla. Continúa con el alta.", nil)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		d.reply(chatID, replyStale, nil)
		return
	}
	item, err := d.inventory.ItemByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		d.reply(chatID, "Ese artículo ya no existe. Continúa con el alta.", nil)
		return
	}
	if err != nil {
		d.fail(chatID, err, "aplicar plantilla")
		return
	}

	s.Set("unit", item.Unit)
	if item.Location != nil {
		s.Set("location", *item.Location)
	}
	if item.Warehouse != nil {
		s.Set("warehouse", *item.Warehouse)
	}
	s.Set("min_qty", item.MinQty)
	d.reply(chatID, "Plantilla aplicada: unidad, ubicación, bodega y mínimo copiados de "+item.SKU+".\nEscribe \"-\" en esos pasos para aceptarlos.", nil)
}

func (d *Dispatcher) askWarehouse(chatID int64) {
	whs, err := d.inventory.Warehouses()
	if err != nil {
		d.fail(chatID, err, "listar bodegas")
		return
	}
	if len(whs) == 0 {
		d.reply(chatID, "No hay bodegas registradas. Escribe \"-\" para continuar sin bodega.", nil)
		return
	}
	d.reply(chatID, "Elige la bodega:", WarehouseSelectMarkup(whs))
}

// addItemWarehouseSelected atiende el botón de bodega. El ID 0 deja el
// artículo sin bodega (o con la de la plantilla, si se aplicó una).
func (d *Dispatcher) addItemWarehouseSelected(chatID int64, raw string) {
	s := d.sessions.Get(chatID)
	if s == nil || s.Flow != FlowAddItem || s.Step != StepWarehouse {
		d.reply(chatID, replyStale, nil)
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		d.reply(chatID, replyStale, nil)
		return
	}
	if id != 0 {
		wh, err := d.inventory.WarehouseByID(id)
		if errors.Is(err, domain.ErrNotFound) {
			d.reply(chatID, "Bodega no encontrada. Elige otra de la lista o escribe \"-\".", nil)
			return
		}
		if err != nil {
			d.fail(chatID, err, "buscar bodega")
			return
		}
		s.Set("warehouse", wh.Name)
	}

	s.Step = StepMinQty
	d.reply(chatID, "Stock mínimo para la alerta (número, 0 para desactivar):", nil)
}

// commitAddItem arma la entrada desde la sesión y crea el artículo.
func (d *Dispatcher) commitAddItem(chatID int64, s *Session) {
	sku, _ := s.String("sku")
	name, _ := s.String("name")
	qty, _ := s.Decimal("qty")
	min, _ := s.Decimal("min_qty")

	in := inventory.AddItemInput{SKU: sku, Name: name, Qty: qty, MinQty: min}
	if unit, ok := s.String("unit"); ok {
		in.Unit = unit
	}
	if loc, ok := s.String("location"); ok {
		in.Location = &loc
	}
	if wh, ok := s.String("warehouse"); ok {
		in.Warehouse = &wh
	}

	item, err := d.inventory.AddItem(in)
	d.sessions.Clear(chatID)
	if errors.Is(err, domain.ErrDuplicate) {
		d.reply(chatID, "No se pudo crear: el SKU ya existe.", MainMenu())
		return
	}
	if err != nil {
		d.fail(chatID, err, "crear artículo")
		return
	}
	d.reply(chatID, "✅ Artículo creado.\n"+FormatItemCard(item), MainMenu())
}
