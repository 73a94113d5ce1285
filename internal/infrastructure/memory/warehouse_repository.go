package memory

import (
	"sort"
	"strings"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// WarehouseRepo implementa repository.WarehouseRepository sobre el Store.
type WarehouseRepo struct {
	s *Store
}

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, w := range r.s.warehouses {
		if w.Name == warehouse.Name {
			return domain.ErrDuplicate
		}
	}
	warehouse.ID = r.s.nextWh
	r.s.nextWh++
	c := *warehouse
	r.s.warehouses[warehouse.ID] = &c
	return nil
}

func (r *WarehouseRepo) GetByID(id int64) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	c := *w
	return &c, nil
}

func (r *WarehouseRepo) GetByName(name string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, w := range r.s.warehouses {
		if w.Name == name {
			c := *w
			return &c, nil
		}
	}
	return nil, nil
}

func (r *WarehouseRepo) List() ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		c := *w
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *WarehouseRepo) Delete(id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.warehouses[id]; !ok {
		return false, nil
	}
	delete(r.s.warehouses, id)
	return true, nil
}
