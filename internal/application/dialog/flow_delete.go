package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/bodega-bot/internal/domain"
)

// Flujo de eliminación: clave → confirmación explícita. Cualquier texto que
// no sea "si" se toma como arrepentimiento y no borra nada.

func (d *Dispatcher) startDeleteItem(chatID int64) {
	d.sessions.Set(chatID, NewSession(FlowDeleteItem, StepKey))
	d.reply(chatID, "🗑 Eliminar artículo.\nIngresa el SKU o ID:", nil)
}

func (d *Dispatcher) deleteStep(chatID int64, s *Session, text string) {
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
		moves, err := d.inventory.MovementCount(item.ID)
		if err != nil {
			d.fail(chatID, err, "contar movimientos")
			return
		}
		s.Set("item_id", item.ID)
		s.Step = StepConfirm
		word := "movimientos"
		if moves == 1 {
			word = "movimiento"
		}
		d.reply(chatID, FormatItemCard(item)+
			fmt.Sprintf("\n\n⚠️ Se borrará el artículo y sus %d %s de historial.", moves, word)+
			"\nEscribe \"si\" para confirmar:", nil)

	case StepConfirm:
		itemID, _ := s.Int64("item_id")
		d.sessions.Clear(chatID)

		switch strings.ToLower(text) {
		case "si", "sí":
		default:
			d.reply(chatID, "Eliminación cancelada.", MainMenu())
			return
		}

		err := d.inventory.Delete(itemID)
		if errors.Is(err, domain.ErrNotFound) {
			d.reply(chatID, "El artículo ya no existe.", MainMenu())
			return
		}
		if err != nil {
			d.fail(chatID, err, "eliminar artículo")
			return
		}
		d.reply(chatID, "🗑 Artículo eliminado junto con su historial.", MainMenu())
	}
}
