package dialog

import (
	"errors"

	"github.com/jhoicas/bodega-bot/internal/domain"
)

const bulkPrompt = `📥 Carga masiva.
Envía una fila por línea, en formato CSV:

<code>sku,nombre,cantidad[,unidad[,ubicación[,bodega[,mínimo]]]]</code>

Ejemplo:
<code>TORN-M4,Tornillo M4,500,pcs,A-3,Central,100
CABLE-2M,Cable 2m,40</code>

Cada fila se procesa por separado: las válidas se crean aunque otras fallen.
Las bodegas que no existan se crean solas.`

func (d *Dispatcher) startBulkAdd(chatID int64) {
	d.sessions.Set(chatID, NewSession(FlowBulkAdd, StepLines))
	d.reply(chatID, bulkPrompt, nil)
}

func (d *Dispatcher) bulkStep(chatID int64, s *Session, text string) {
	report, err := d.inventory.BulkAdd(text)
	if errors.Is(err, domain.ErrInvalidInput) {
		d.reply(chatID, "La lista está vacía. Envía al menos una fila sku,nombre,cantidad:", nil)
		return
	}
	if err != nil {
		d.fail(chatID, err, "carga masiva")
		return
	}

	d.sessions.Clear(chatID)
	d.reply(chatID, report.Summary(), MainMenu())
}
