// Package memory implementa los repositorios del dominio sobre mapas en
// memoria. Sirve para tests y para correr el bot sin base de datos; replica
// el contrato de los repositorios de postgres, incluida la unicidad
// case-insensitive del SKU y el borrado en cascada de movimientos.
package memory

import (
	"sync"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// Store es el estado compartido por todos los repositorios en memoria.
// Un solo mutex protege todo: la contención no importa a esta escala.
type Store struct {
	mu sync.Mutex

	items       map[int64]*entity.Item
	warehouses  map[int64]*entity.Warehouse
	admins      map[int64]*entity.Admin
	movements   []*entity.Movement
	nextItem    int64
	nextWh      int64
}

func NewStore() *Store {
	return &Store{
		items:      make(map[int64]*entity.Item),
		warehouses: make(map[int64]*entity.Warehouse),
		admins:     make(map[int64]*entity.Admin),
		nextItem:   1,
		nextWh:     1,
	}
}

// Items, Warehouses, Movements y Admins devuelven vistas repositorio sobre el
// mismo estado.
func (s *Store) Items() *ItemRepo           { return &ItemRepo{s: s} }
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }
func (s *Store) Movements() *MovementRepo   { return &MovementRepo{s: s} }
func (s *Store) Admins() *AdminRepo         { return &AdminRepo{s: s} }

func cloneItem(it *entity.Item) *entity.Item {
	c := *it
	if it.Location != nil {
		v := *it.Location
		c.Location = &v
	}
	if it.Warehouse != nil {
		v := *it.Warehouse
		c.Warehouse = &v
	}
	return &c
}
