package entity

import "time"

// Admin representa a un operador con acceso al bot, identificado por su chat ID.
// Los superadmins vienen de configuración (no persistidos) y además pueden
// gestionar esta lista.
type Admin struct {
	ID      int64
	ChatID  int64
	Name    *string
	AddedAt time.Time
}
