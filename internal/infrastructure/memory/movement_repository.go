package memory

import (
	"github.com/google/uuid"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// MovementRepo implementa repository.MovementRepository sobre el Store.
type MovementRepo struct {
	s *Store
}

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(movement *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	c := *movement
	if movement.Note != nil {
		v := *movement.Note
		c.Note = &v
	}
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *MovementRepo) ListRecent(limit int) ([]*entity.MovementWithItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.MovementWithItem
	for i := len(r.s.movements) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		m := r.s.movements[i]
		it, ok := r.s.items[m.ItemID]
		if !ok {
			continue
		}
		out = append(out, &entity.MovementWithItem{
			Movement: *m,
			ItemSKU:  it.SKU,
			ItemName: it.Name,
		})
	}
	return out, nil
}

func (r *MovementRepo) CountByItem(itemID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}
