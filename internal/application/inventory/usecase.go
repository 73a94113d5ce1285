package inventory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// DefaultUnit es la unidad de medida cuando el usuario no indica una.
const DefaultUnit = "pcs"

// Límites de resultados para búsquedas y listados no paginados.
const (
	searchLimit   = 50
	lowStockLimit = 100
	historyLimit  = 50
)

// UseCase reúne las operaciones de inventario que consumen los diálogos:
// altas, consultas por clave, ajustes con auditoría, ediciones parciales,
// borrado en cascada, paginación y reportes.
type UseCase struct {
	items      repository.ItemRepository
	warehouses repository.WarehouseRepository
	movements  repository.MovementRepository
	tx         TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	items repository.ItemRepository,
	warehouses repository.WarehouseRepository,
	movements repository.MovementRepository,
	tx TxRunner,
) *UseCase {
	return &UseCase{items: items, warehouses: warehouses, movements: movements, tx: tx}
}

// AddItemInput entrada para crear un artículo.
type AddItemInput struct {
	SKU       string
	Name      string
	Qty       decimal.Decimal
	Unit      string
	Location  *string
	Warehouse *string
	MinQty    decimal.Decimal
}

// AddItem crea un artículo. SKU duplicado (case-insensitive) devuelve
// domain.ErrDuplicate sin mutar estado, incluso si la colisión aparece por
// una inserción concurrente posterior a la validación del diálogo.
func (uc *UseCase) AddItem(in AddItemInput) (*entity.Item, error) {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Unit == "" {
		in.Unit = DefaultUnit
	}
	item := &entity.Item{
		SKU:       in.SKU,
		Name:      in.Name,
		Qty:       in.Qty,
		Unit:      in.Unit,
		Location:  in.Location,
		Warehouse: in.Warehouse,
		MinQty:    in.MinQty,
		UpdatedAt: time.Now(),
	}
	if err := uc.items.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByKey resuelve un artículo por clave: si la clave es un entero no negativo
// intenta primero por ID; si no hay coincidencia cae a búsqueda por SKU
// (case-insensitive). Devuelve domain.ErrNotFound si ninguna aplica.
func (uc *UseCase) GetByKey(key string) (*entity.Item, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrNotFound
	}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id >= 0 {
		item, err := uc.items.GetByID(id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			return item, nil
		}
	}
	item, err := uc.items.GetBySKU(key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ItemByID busca un artículo por su ID. Devuelve domain.ErrNotFound si no existe.
func (uc *UseCase) ItemByID(id int64) (*entity.Item, error) {
	item, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// FindBySKU busca por SKU sin distinguir mayúsculas. A diferencia de
// GetByKey, la ausencia no es error: devuelve nil, nil.
func (uc *UseCase) FindBySKU(sku string) (*entity.Item, error) {
	return uc.items.GetBySKU(strings.TrimSpace(sku))
}

// AdjustQty suma delta a la cantidad del artículo y registra el movimiento en
// la misma transacción. La cantidad resultante puede quedar negativa.
func (uc *UseCase) AdjustQty(ctx context.Context, itemID int64, delta decimal.Decimal, note *string, adminChatID int64) (*entity.Item, error) {
	err := uc.tx.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		if err := itemRepo.AdjustQty(itemID, delta); err != nil {
			return err
		}
		return movRepo.Create(&entity.Movement{
			ItemID:      itemID,
			Delta:       delta,
			Note:        note,
			AdminChatID: adminChatID,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.ItemByID(itemID)
}

// SetQty fija la cantidad en un valor absoluto y registra un movimiento cuyo
// delta es newQty - prevQty, donde prevQty es la cantidad leída al resolver la
// clave (no se relee: el delta refleja lo que vio el operador).
func (uc *UseCase) SetQty(ctx context.Context, itemID int64, newQty, prevQty decimal.Decimal, note *string, adminChatID int64) (*entity.Item, error) {
	delta := newQty.Sub(prevQty)
	err := uc.tx.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		if err := itemRepo.SetQty(itemID, newQty); err != nil {
			return err
		}
		return movRepo.Create(&entity.Movement{
			ItemID:      itemID,
			Delta:       delta,
			Note:        note,
			AdminChatID: adminChatID,
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return uc.ItemByID(itemID)
}

// UpdateFields aplica cambios parciales y devuelve el artículo actualizado.
func (uc *UseCase) UpdateFields(itemID int64, changes []entity.FieldChange) (*entity.Item, error) {
	if err := uc.items.UpdateFields(itemID, changes); err != nil {
		return nil, err
	}
	item, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// Delete borra el artículo y, en cascada, sus movimientos.
func (uc *UseCase) Delete(itemID int64) error {
	ok, err := uc.items.Delete(itemID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Page es una página de artículos ya recortada: Number queda dentro de
// [1, Total] aunque el solicitante pida fuera de rango.
type Page struct {
	Items  []*entity.Item
	Number int
	Total  int
}

// ListPage devuelve la página pedida del listado general (orden por nombre).
func (uc *UseCase) ListPage(page, size int) (*Page, error) {
	total, err := uc.items.Count()
	if err != nil {
		return nil, err
	}
	number, totalPages := clampPage(page, total, size)
	items, err := uc.items.List(size, (number-1)*size)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Number: number, Total: totalPages}, nil
}

// ListPageByWarehouse devuelve la página pedida filtrada por bodega
// (nil = todas) con el orden indicado (name|qty|sku).
func (uc *UseCase) ListPageByWarehouse(warehouse *string, sort string, page, size int) (*Page, error) {
	total, err := uc.items.CountByWarehouse(warehouse)
	if err != nil {
		return nil, err
	}
	number, totalPages := clampPage(page, total, size)
	items, err := uc.items.ListByWarehouse(warehouse, sort, size, (number-1)*size)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Number: number, Total: totalPages}, nil
}

// clampPage recorta page a [1, ceil(total/size)]; una colección vacía tiene una página.
func clampPage(page, total, size int) (number, totalPages int) {
	totalPages = (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// Search busca por subcadena en SKU o nombre.
func (uc *UseCase) Search(query string) ([]*entity.Item, error) {
	return uc.items.Search(query, searchLimit)
}

// LowStock devuelve artículos en o bajo su umbral configurado.
func (uc *UseCase) LowStock() ([]*entity.Item, error) {
	return uc.items.ListLowStock(lowStockLimit)
}

// History devuelve los movimientos recientes con datos del artículo.
func (uc *UseCase) History() ([]*entity.MovementWithItem, error) {
	return uc.movements.ListRecent(historyLimit)
}

// MovementCount cuenta los movimientos registrados de un artículo.
func (uc *UseCase) MovementCount(itemID int64) (int, error) {
	return uc.movements.CountByItem(itemID)
}

// ExportAll devuelve todos los artículos para reportes.
func (uc *UseCase) ExportAll() ([]*entity.Item, error) {
	return uc.items.ExportAll()
}

// Warehouses lista las bodegas registradas.
func (uc *UseCase) Warehouses() ([]*entity.Warehouse, error) {
	return uc.warehouses.List()
}

// WarehouseByID obtiene una bodega por ID o domain.ErrNotFound.
func (uc *UseCase) WarehouseByID(id int64) (*entity.Warehouse, error) {
	w, err := uc.warehouses.GetByID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

// AddWarehouse registra una bodega nueva; nombre duplicado -> domain.ErrDuplicate.
func (uc *UseCase) AddWarehouse(name string) (*entity.Warehouse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	w := &entity.Warehouse{Name: name, CreatedAt: time.Now()}
	if err := uc.warehouses.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}

// RemoveWarehouse borra la bodega por nombre exacto. Los artículos que la
// citan conservan el nombre (referencia blanda): solo desaparecen la fila y
// su botón en los filtros. Nombre desconocido -> domain.ErrNotFound.
func (uc *UseCase) RemoveWarehouse(name string) error {
	w, err := uc.warehouses.GetByName(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	ok, err := uc.warehouses.Delete(w.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
