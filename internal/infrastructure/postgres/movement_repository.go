package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, item_id, delta, note, admin_chat_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemID, movement.Delta, movement.Note,
		movement.AdminChatID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListRecent devuelve los últimos movimientos con SKU y nombre del artículo.
func (r *MovementRepo) ListRecent(limit int) ([]*entity.MovementWithItem, error) {
	query := `
		SELECT m.id, m.item_id, m.delta, m.note, m.admin_chat_id, m.created_at, i.sku, i.name
		FROM movements m
		JOIN items i ON i.id = m.item_id
		ORDER BY m.created_at DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementWithItem
	for rows.Next() {
		var m entity.MovementWithItem
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Delta, &m.Note,
			&m.AdminChatID, &m.CreatedAt, &m.ItemSKU, &m.ItemName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByItem cuenta los movimientos de un artículo.
func (r *MovementRepo) CountByItem(itemID int64) (int, error) {
	var c int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE item_id = $1`, itemID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return c, nil
}
