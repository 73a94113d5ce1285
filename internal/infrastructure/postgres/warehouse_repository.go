package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL (usable con pool o tx).
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una bodega nueva. Nombre duplicado -> domain.ErrDuplicate.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	query := `INSERT INTO warehouses (name, created_at) VALUES ($1, $2) RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		warehouse.Name, warehouse.CreatedAt,
	).Scan(&warehouse.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(id int64) (*entity.Warehouse, error) {
	return r.scanOne(r.q.QueryRow(context.Background(),
		`SELECT id, name, created_at FROM warehouses WHERE id = $1`, id))
}

// GetByName obtiene una bodega por nombre exacto.
func (r *WarehouseRepo) GetByName(name string) (*entity.Warehouse, error) {
	return r.scanOne(r.q.QueryRow(context.Background(),
		`SELECT id, name, created_at FROM warehouses WHERE name = $1`, name))
}

// List lista todas las bodegas ordenadas por nombre.
func (r *WarehouseRepo) List() ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, created_at FROM warehouses ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// Delete borra la bodega por ID. Los artículos que la citan conservan el nombre
// (referencia blanda, sin FK).
func (r *WarehouseRepo) Delete(id int64) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete warehouse: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *WarehouseRepo) scanOne(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}
