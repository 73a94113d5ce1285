package repository

import "github.com/jhoicas/bodega-bot/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	// Create persiste una bodega nueva. Devuelve domain.ErrDuplicate si el nombre ya existe.
	Create(warehouse *entity.Warehouse) error
	GetByID(id int64) (*entity.Warehouse, error)
	GetByName(name string) (*entity.Warehouse, error)
	List() ([]*entity.Warehouse, error)
	// Delete borra la bodega; los artículos que la citan por nombre no se tocan.
	Delete(id int64) (bool, error)
}
