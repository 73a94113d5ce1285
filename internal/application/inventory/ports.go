package inventory

import (
	"context"

	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cambio de cantidad y movimiento
// de auditoría se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}
