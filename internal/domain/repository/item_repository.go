package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// Claves de ordenamiento para listados por bodega.
const (
	SortByName = "name"
	SortByQty  = "qty"
	SortBySKU  = "sku"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos Get* devuelven (nil, nil) cuando no hay fila.
// Toda mutación actualiza updated_at.
type ItemRepository interface {
	// Create persiste un artículo nuevo. Devuelve domain.ErrDuplicate si el SKU
	// ya existe (comparación case-insensitive) sin mutar estado.
	Create(item *entity.Item) error
	GetByID(id int64) (*entity.Item, error)
	// GetBySKU busca por SKU sin distinguir mayúsculas.
	GetBySKU(sku string) (*entity.Item, error)
	List(limit, offset int) ([]*entity.Item, error)
	Count() (int, error)
	// Search busca por subcadena (case-insensitive) en sku O name.
	Search(query string, limit int) ([]*entity.Item, error)
	// ListLowStock devuelve artículos con min_qty > 0 y qty <= min_qty, orden qty ASC.
	ListLowStock(limit int) ([]*entity.Item, error)
	// AdjustQty suma delta a la cantidad (puede quedar negativa; sin piso).
	AdjustQty(id int64, delta decimal.Decimal) error
	// SetQty sobrescribe la cantidad con un valor absoluto.
	SetQty(id int64, qty decimal.Decimal) error
	// UpdateFields aplica un conjunto parcial de cambios en una sola sentencia.
	// Devuelve domain.ErrDuplicate si el nuevo SKU colisiona con otro artículo.
	UpdateFields(id int64, changes []entity.FieldChange) error
	// Delete borra el artículo; sus movimientos caen en cascada.
	// Devuelve false si no existía.
	Delete(id int64) (bool, error)
	// ListByWarehouse filtra por nombre de bodega (nil = todas) con orden
	// name|qty|sku y paginación.
	ListByWarehouse(warehouse *string, sort string, limit, offset int) ([]*entity.Item, error)
	CountByWarehouse(warehouse *string) (int, error)
	// ExportAll devuelve todos los artículos ordenados por nombre (para reportes).
	ExportAll() ([]*entity.Item, error)
}
