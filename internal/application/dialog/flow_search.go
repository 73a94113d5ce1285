package dialog

func (d *Dispatcher) startSearch(chatID int64) {
	d.sessions.Set(chatID, NewSession(FlowSearch, StepQuery))
	d.reply(chatID, "🔍 Ingresa el término de búsqueda (SKU o parte del nombre):", nil)
}

func (d *Dispatcher) searchStep(chatID int64, s *Session, text string) {
	if text == "" {
		d.reply(chatID, "El término no puede estar vacío. Ingresa SKU o parte del nombre:", nil)
		return
	}

	items, err := d.inventory.Search(text)
	if err != nil {
		d.fail(chatID, err, "buscar artículos")
		return
	}

	d.sessions.Clear(chatID)
	if len(items) == 0 {
		d.reply(chatID, "Sin resultados para \""+text+"\".", MainMenu())
		return
	}
	d.reply(chatID, "Resultados:\n"+FormatItemsTable(items), MainMenu())
}
