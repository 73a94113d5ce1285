package dialog

import (
	"context"
	"errors"

	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain"
)

// Flujos de cantidad: ajustar (delta aditivo) y fijar (cantidad exacta).
// Comparten la resolución por clave y el comentario opcional; difieren en el
// paso intermedio y en cómo se registra el movimiento.

func (d *Dispatcher) startQtyFlow(chatID int64, flow string) {
	d.sessions.Set(chatID, NewSession(flow, StepKey))
	if flow == FlowSetQty {
		d.reply(chatID, "✅ Fijar stock.\nIngresa el SKU o ID del artículo:", nil)
		return
	}
	d.reply(chatID, "🔁 Ajustar stock.\nIngresa el SKU o ID del artículo:", nil)
}

func (d *Dispatcher) qtyStep(ctx context.Context, chatID int64, s *Session, text string) {
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
		// La cantidad previa queda fijada aquí: el delta de "fijar" se
		// calcula contra este valor aunque otro admin mueva el stock
		// antes de confirmar.
		s.Set("current_qty", item.Qty)
		if s.Flow == FlowSetQty {
			s.Step = StepNewQty
			d.reply(chatID, FormatItemCard(item)+"\n\nIngresa la cantidad exacta:", nil)
			return
		}
		s.Step = StepDelta
		d.reply(chatID, FormatItemCard(item)+"\n\nIngresa el cambio (ej. +5 o -3.5):", nil)

	case StepDelta:
		delta, err := inventory.ParseNumber(text)
		if err != nil {
			d.reply(chatID, "Se necesita un número con signo opcional. Ejemplos: +5, -3.5", nil)
			return
		}
		s.Set("delta", delta)
		s.Step = StepNote
		d.reply(chatID, "Comentario del movimiento (\"-\" para omitir):", nil)

	case StepNewQty:
		qty, err := inventory.ParseNumber(text)
		if err != nil {
			d.reply(chatID, "Se necesita un número. Ejemplo: 40", nil)
			return
		}
		s.Set("new_qty", qty)
		s.Step = StepNote
		d.reply(chatID, "Comentario del movimiento (\"-\" para omitir):", nil)

	case StepNote:
		var note *string
		if text != "-" && text != "" {
			note = &text
		}
		d.commitQty(ctx, chatID, s, note)
	}
}

func (d *Dispatcher) commitQty(ctx context.Context, chatID int64, s *Session, note *string) {
	itemID, _ := s.Int64("item_id")
	d.sessions.Clear(chatID)

	if s.Flow == FlowSetQty {
		newQty, _ := s.Decimal("new_qty")
		prevQty, _ := s.Decimal("current_qty")
		updated, err := d.inventory.SetQty(ctx, itemID, newQty, prevQty, note, chatID)
		if err != nil {
			d.qtyFailed(chatID, err)
			return
		}
		d.reply(chatID, "✅ Stock fijado.\n"+FormatItemCard(updated), MainMenu())
		return
	}

	delta, _ := s.Decimal("delta")
	updated, err := d.inventory.AdjustQty(ctx, itemID, delta, note, chatID)
	if err != nil {
		d.qtyFailed(chatID, err)
		return
	}
	d.reply(chatID, "✅ Stock ajustado.\n"+FormatItemCard(updated), MainMenu())
}

func (d *Dispatcher) qtyFailed(chatID int64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		d.reply(chatID, "El artículo ya no existe.", MainMenu())
		return
	}
	d.fail(chatID, err, "actualizar stock")
}
