package repository

import "github.com/jhoicas/bodega-bot/internal/domain/entity"

// AdminRepository define el puerto de persistencia para la lista de admins.
type AdminRepository interface {
	// Create registra un admin. Devuelve domain.ErrDuplicate si el chat ID ya está.
	Create(admin *entity.Admin) error
	// Ensure registra el admin si no existe; no falla por duplicado.
	Ensure(chatID int64, name *string) error
	Exists(chatID int64) (bool, error)
	List() ([]*entity.Admin, error)
	// Delete borra por chat ID. Devuelve false si no existía.
	Delete(chatID int64) (bool, error)
}
