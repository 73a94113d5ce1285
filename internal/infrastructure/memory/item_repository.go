package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// ItemRepo implementa repository.ItemRepository sobre el Store.
type ItemRepo struct {
	s *Store
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) Create(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.findBySKULocked(item.SKU) != nil {
		return domain.ErrDuplicate
	}
	item.ID = r.s.nextItem
	r.s.nextItem++
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepo) GetByID(id int64) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(it), nil
}

func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it := r.findBySKULocked(sku)
	if it == nil {
		return nil, nil
	}
	return cloneItem(it), nil
}

func (r *ItemRepo) findBySKULocked(sku string) *entity.Item {
	for _, it := range r.s.items {
		if strings.EqualFold(it.SKU, sku) {
			return it
		}
	}
	return nil
}

func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return slice(r.sortedLocked(repository.SortByName), limit, offset), nil
}

func (r *ItemRepo) Count() (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return len(r.s.items), nil
}

func (r *ItemRepo) Search(query string, limit int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q := strings.ToLower(query)
	var out []*entity.Item
	for _, it := range r.sortedLocked(repository.SortByName) {
		if strings.Contains(strings.ToLower(it.SKU), q) || strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return slice(out, limit, 0), nil
}

func (r *ItemRepo) ListLowStock(limit int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Item
	for _, it := range r.s.items {
		if it.LowStock() {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Qty.LessThan(out[j].Qty) })
	return slice(out, limit, 0), nil
}

func (r *ItemRepo) AdjustQty(id int64, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Qty = it.Qty.Add(delta)
	it.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepo) SetQty(id int64, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Qty = qty
	it.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepo) UpdateFields(id int64, changes []entity.FieldChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	for _, ch := range changes {
		switch ch.Field {
		case entity.FieldName:
			it.Name = ch.Text
		case entity.FieldSKU:
			if other := r.findBySKULocked(ch.Text); other != nil && other.ID != id {
				return domain.ErrDuplicate
			}
			it.SKU = ch.Text
		case entity.FieldUnit:
			it.Unit = ch.Text
		case entity.FieldLocation:
			it.Location = optional(ch)
		case entity.FieldWarehouse:
			it.Warehouse = optional(ch)
		case entity.FieldMinQty:
			it.MinQty = ch.MinQty
		}
	}
	it.UpdatedAt = time.Now()
	return nil
}

func optional(ch entity.FieldChange) *string {
	if ch.Clear {
		return nil
	}
	v := ch.Text
	return &v
}

func (r *ItemRepo) Delete(id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[id]; !ok {
		return false, nil
	}
	delete(r.s.items, id)

	// Cascada: los movimientos del artículo se van con él.
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.ItemID != id {
			kept = append(kept, m)
		}
	}
	r.s.movements = kept
	return true, nil
}

func (r *ItemRepo) ListByWarehouse(warehouse *string, sortKey string, limit, offset int) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Item
	for _, it := range r.sortedLocked(sortKey) {
		if matchWarehouse(it, warehouse) {
			out = append(out, it)
		}
	}
	return slice(out, limit, offset), nil
}

func (r *ItemRepo) CountByWarehouse(warehouse *string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, it := range r.s.items {
		if matchWarehouse(it, warehouse) {
			n++
		}
	}
	return n, nil
}

func (r *ItemRepo) ExportAll() ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.sortedLocked(repository.SortByName), nil
}

func matchWarehouse(it *entity.Item, warehouse *string) bool {
	if warehouse == nil {
		return true
	}
	return it.Warehouse != nil && *it.Warehouse == *warehouse
}

// sortedLocked devuelve copias de todos los artículos con el orden pedido.
func (r *ItemRepo) sortedLocked(sortKey string) []*entity.Item {
	out := make([]*entity.Item, 0, len(r.s.items))
	for _, it := range r.s.items {
		out = append(out, cloneItem(it))
	}
	sort.Slice(out, func(i, j int) bool {
		switch sortKey {
		case repository.SortByQty:
			return out[i].Qty.LessThan(out[j].Qty)
		case repository.SortBySKU:
			return strings.ToLower(out[i].SKU) < strings.ToLower(out[j].SKU)
		default:
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		}
	})
	return out
}

func slice(items []*entity.Item, limit, offset int) []*entity.Item {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
