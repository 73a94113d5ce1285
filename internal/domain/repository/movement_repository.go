package repository

import "github.com/jhoicas/bodega-bot/internal/domain/entity"

// MovementRepository define el puerto de persistencia para el registro de movimientos.
// Solo-inserción: los movimientos nunca se mutan ni se borran por sí solos.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// ListRecent devuelve los últimos movimientos con SKU y nombre del artículo,
	// del más reciente al más antiguo.
	ListRecent(limit int) ([]*entity.MovementWithItem, error)
	// CountByItem cuenta los movimientos registrados de un artículo.
	CountByItem(itemID int64) (int, error)
}
