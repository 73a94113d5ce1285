package memory

import (
	"context"

	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// TxRunner implementa inventory.TxRunner sin transacción real: las mutaciones
// sobre el Store ya son atómicas bajo su mutex y no hay rollback que ofrecer.
type TxRunner struct {
	s *Store
}

var _ inventory.TxRunner = (*TxRunner)(nil)

func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (t *TxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.MovementRepository) error) error {
	return fn(t.s.Items(), t.s.Movements())
}
