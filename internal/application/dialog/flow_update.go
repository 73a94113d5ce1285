package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// Flujo de edición: clave → campo (botones o texto) → valor nuevo. El atajo
// "fijar stock mínimo" entra con el campo ya elegido y salta al valor.

func (d *Dispatcher) startUpdateItem(chatID int64, presetField string) {
	s := NewSession(FlowUpdateItem, StepKey)
	if presetField != "" {
		s.Set("preset_field", presetField)
	}
	d.sessions.Set(chatID, s)
	d.reply(chatID, "✏️ Editar artículo.\nIngresa el SKU o ID:", nil)
}

func (d *Dispatcher) updateStep(chatID int64, s *Session, text string) {
	switch s.Step {
	case StepKey:
		item, err := d.inventory.GetByKey(text)
		if errors.Is(err, domain.ErrNotFound) {
			d.reply(chatID, "Artículo no encontrado. Ingresa el SKU o ID:", nil)
			return
		}
		if err != nil {
			d.fail(chatID, err, "resolver artículo")
			return
		}
		s.Set("item_id", item.ID)

		if preset, ok := s.String("preset_field"); ok {
			s.Set("field", preset)
			s.Step = StepValue
			d.reply(chatID, FormatItemCard(item)+"\n\nIngresa el nuevo stock mínimo (número):", nil)
			return
		}
		s.Step = StepField
		d.reply(chatID, FormatItemCard(item)+"\n\nElige el campo a modificar:", UpdateFieldsMarkup())

	case StepField:
		field, ok := entity.ParseItemField(strings.ToLower(text))
		if !ok {
			d.reply(chatID, "Campo no reconocido. Usa los botones o escribe uno de: name, sku, unit, location, warehouse, min_qty", nil)
			return
		}
		d.fieldChosen(chatID, s, field)

	case StepValue:
		d.commitUpdate(chatID, s, text)
	}
}

// updateFieldChosen atiende el botón de campo del teclado de edición.
func (d *Dispatcher) updateFieldChosen(chatID int64, raw string) {
	s := d.sessions.Get(chatID)
	if s == nil || s.Flow != FlowUpdateItem || s.Step != StepField {
		d.reply(chatID, replyStale, nil)
		return
	}
	field, ok := entity.ParseItemField(raw)
	if !ok {
		d.reply(chatID, replyStale, nil)
		return
	}
	d.fieldChosen(chatID, s, field)
}

func (d *Dispatcher) fieldChosen(chatID int64, s *Session, field entity.ItemField) {
	s.Set("field", string(field))
	s.Step = StepValue

	switch field {
	case entity.FieldMinQty:
		d.reply(chatID, "Ingresa el nuevo stock mínimo (número):", nil)
	case entity.FieldLocation, entity.FieldWarehouse:
		d.reply(chatID, fmt.Sprintf("Ingresa el nuevo valor de %s (\"-\" para dejarlo vacío):", field), nil)
	default:
		d.reply(chatID, fmt.Sprintf("Ingresa el nuevo valor de %s:", field), nil)
	}
}

func (d *Dispatcher) commitUpdate(chatID int64, s *Session, text string) {
	itemID, _ := s.Int64("item_id")
	rawField, _ := s.String("field")
	field, ok := entity.ParseItemField(rawField)
	if !ok {
		d.sessions.Clear(chatID)
		d.reply(chatID, replyStale, MainMenu())
		return
	}

	var change entity.FieldChange
	switch field {
	case entity.FieldMinQty:
		min, err := inventory.ParseNumber(text)
		if err != nil {
			d.reply(chatID, "Se necesita un número. Ingresa el nuevo stock mínimo:", nil)
			return
		}
		change = entity.MinQtyChange(min)
	case entity.FieldLocation, entity.FieldWarehouse:
		c, ok := entity.OptionalTextChange(field, text, text == "-")
		if !ok {
			d.reply(chatID, "El valor no puede estar vacío. Ingresa el nuevo valor (\"-\" para dejarlo vacío):", nil)
			return
		}
		change = c
	default:
		c, ok := entity.TextChange(field, text)
		if !ok {
			d.reply(chatID, "El valor no puede estar vacío. Ingresa el nuevo valor:", nil)
			return
		}
		change = c
	}

	d.sessions.Clear(chatID)
	item, err := d.inventory.UpdateFields(itemID, []entity.FieldChange{change})
	if errors.Is(err, domain.ErrDuplicate) {
		d.reply(chatID, "No se pudo actualizar: ese SKU ya existe.", MainMenu())
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		d.reply(chatID, "El artículo ya no existe.", MainMenu())
		return
	}
	if err != nil {
		d.fail(chatID, err, "actualizar artículo")
		return
	}
	d.reply(chatID, "✅ Datos actualizados.\n"+FormatItemCard(item), MainMenu())
}
