package dialog

import (
	"errors"
	"strconv"

	"github.com/jhoicas/bodega-bot/internal/domain"
)

// Flujos de administración: alta/baja de admins y de bodegas.
// Exigen superadmin, y la condición se verifica de nuevo en cada paso: si el
// permiso cambia a mitad del diálogo, el flujo muere ahí mismo.

func (d *Dispatcher) startAddAdmin(chatID int64) {
	if !d.requireSuper(chatID) {
		return
	}
	d.sessions.Set(chatID, NewSession(FlowAddAdmin, StepChatID))
	d.reply(chatID, "➕ Nuevo admin.\nIngresa su chat ID (número). Puede obtenerlo con /id:", nil)
}

func (d *Dispatcher) startRemoveAdmin(chatID int64) {
	if !d.requireSuper(chatID) {
		return
	}
	d.sessions.Set(chatID, NewSession(FlowRemoveAdmin, StepChatID))
	d.reply(chatID, "➖ Quitar admin.\nIngresa el chat ID a revocar:", nil)
}

func (d *Dispatcher) startAddWarehouse(chatID int64) {
	if !d.requireSuper(chatID) {
		return
	}
	d.sessions.Set(chatID, NewSession(FlowAddWarehouse, StepName))
	d.reply(chatID, "🏢 Nueva bodega.\nIngresa el nombre:", nil)
}

func (d *Dispatcher) startRemoveWarehouse(chatID int64) {
	if !d.requireSuper(chatID) {
		return
	}
	d.sessions.Set(chatID, NewSession(FlowRemoveWarehouse, StepName))
	d.reply(chatID, "🗑 Eliminar bodega.\nIngresa el nombre. Los artículos que la citan conservarán el nombre:", nil)
}

func (d *Dispatcher) adminStep(chatID int64, s *Session, text string) {
	if !d.admins.IsSuperAdmin(chatID) {
		d.sessions.Clear(chatID)
		d.reply(chatID, replyNoSuper, MainMenu())
		return
	}

	switch s.Flow {
	case FlowAddAdmin:
		d.addAdminStep(chatID, s, text)
	case FlowRemoveAdmin:
		d.removeAdminStep(chatID, s, text)
	case FlowAddWarehouse:
		d.addWarehouseStep(chatID, text)
	case FlowRemoveWarehouse:
		d.removeWarehouseStep(chatID, text)
	}
}

func (d *Dispatcher) addAdminStep(chatID int64, s *Session, text string) {
	switch s.Step {
	case StepChatID:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			d.reply(chatID, "Se necesita un chat ID numérico. Inténtalo de nuevo:", nil)
			return
		}
		s.Set("chat_id", id)
		s.Step = StepAdminName
		d.reply(chatID, "Nombre o comentario para identificarlo (\"-\" para omitir):", nil)

	case StepAdminName:
		newID, _ := s.Int64("chat_id")
		var name *string
		if text != "-" && text != "" {
			name = &text
		}
		d.sessions.Clear(chatID)

		err := d.admins.Add(newID, name)
		if errors.Is(err, domain.ErrDuplicate) {
			d.reply(chatID, "Ese chat ID ya es admin.", MainMenu())
			return
		}
		if err != nil {
			d.fail(chatID, err, "agregar admin")
			return
		}
		d.log.Info().Int64("chat_id", newID).Int64("by", chatID).Msg("admin agregado")
		d.reply(chatID, "✅ Admin agregado.", MainMenu())
	}
}

func (d *Dispatcher) removeAdminStep(chatID int64, s *Session, text string) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		d.reply(chatID, "Se necesita un chat ID numérico. Inténtalo de nuevo:", nil)
		return
	}
	d.sessions.Clear(chatID)

	err = d.admins.Remove(id)
	if errors.Is(err, domain.ErrNotFound) {
		d.reply(chatID, "Ese chat ID no es admin.", MainMenu())
		return
	}
	if err != nil {
		d.fail(chatID, err, "quitar admin")
		return
	}
	d.log.Info().Int64("chat_id", id).Int64("by", chatID).Msg("admin revocado")
	d.reply(chatID, "✅ Admin revocado.", MainMenu())
}

func (d *Dispatcher) addWarehouseStep(chatID int64, text string) {
	if text == "" {
		d.reply(chatID, "El nombre no puede estar vacío. Ingresa el nombre de la bodega:", nil)
		return
	}
	d.sessions.Clear(chatID)

	wh, err := d.inventory.AddWarehouse(text)
	if errors.Is(err, domain.ErrDuplicate) {
		d.reply(chatID, "Esa bodega ya existe.", MainMenu())
		return
	}
	if err != nil {
		d.fail(chatID, err, "crear bodega")
		return
	}
	d.reply(chatID, "✅ Bodega \""+wh.Name+"\" creada.", MainMenu())
}

func (d *Dispatcher) removeWarehouseStep(chatID int64, text string) {
	d.sessions.Clear(chatID)

	err := d.inventory.RemoveWarehouse(text)
	if errors.Is(err, domain.ErrNotFound) {
		d.reply(chatID, "No hay ninguna bodega con ese nombre.", MainMenu())
		return
	}
	if err != nil {
		d.fail(chatID, err, "eliminar bodega")
		return
	}
	d.reply(chatID, "✅ Bodega eliminada. Sus artículos conservan el nombre.", MainMenu())
}

// requireSuper niega la operación si el chat no es superadmin.
func (d *Dispatcher) requireSuper(chatID int64) bool {
	if d.admins.IsSuperAdmin(chatID) {
		return true
	}
	d.log.Warn().Int64("chat_id", chatID).Msg("operación de superadmin denegada")
	d.reply(chatID, replyNoSuper, nil)
	return false
}
