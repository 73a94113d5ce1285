package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = "id, sku, name, qty, unit, location, warehouse, min_qty, updated_at"

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo. El índice único sobre lower(sku) garantiza
// la unicidad case-insensitive; la colisión se mapea a domain.ErrDuplicate.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (sku, name, qty, unit, location, warehouse, min_qty, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		item.SKU, item.Name, item.Qty, item.Unit, item.Location,
		item.Warehouse, item.MinQty, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id int64) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item")
}

// GetBySKU obtiene un artículo por SKU sin distinguir mayúsculas.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE lower(sku) = lower($1)`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku), "get item by sku")
}

// List lista artículos ordenados por nombre con paginación.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return r.scanRows(rows)
}

// Count cuenta todos los artículos.
func (r *ItemRepo) Count() (int, error) {
	var c int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM items`).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return c, nil
}

// Search busca por subcadena (case-insensitive) en sku O name, orden por nombre.
func (r *ItemRepo) Search(query string, limit int) ([]*entity.Item, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	sql := `SELECT ` + itemColumns + `
		FROM items
		WHERE sku ILIKE $1 OR name ILIKE $1
		ORDER BY name ASC
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), sql, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return r.scanRows(rows)
}

// ListLowStock devuelve artículos en o bajo su umbral, del más crítico al menos.
func (r *ItemRepo) ListLowStock(limit int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE min_qty > 0 AND qty <= min_qty
		ORDER BY qty ASC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return r.scanRows(rows)
}

// AdjustQty suma delta a la cantidad. Sin piso: puede quedar negativa.
func (r *ItemRepo) AdjustQty(id int64, delta decimal.Decimal) error {
	query := `UPDATE items SET qty = qty + $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, delta, time.Now())
	if err != nil {
		return fmt.Errorf("adjust qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQty sobrescribe la cantidad con un valor absoluto.
func (r *ItemRepo) SetQty(id int64, qty decimal.Decimal) error {
	query := `UPDATE items SET qty = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, qty, time.Now())
	if err != nil {
		return fmt.Errorf("set qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateFields aplica un conjunto parcial de cambios en una sola sentencia
// (cambio + updated_at atómicos). Colisión de SKU -> domain.ErrDuplicate.
func (r *ItemRepo) UpdateFields(id int64, changes []entity.FieldChange) error {
	if len(changes) == 0 {
		return nil
	}
	parts := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+2)
	args = append(args, id)
	for _, ch := range changes {
		var value any
		switch ch.Field {
		case entity.FieldMinQty:
			value = ch.MinQty
		case entity.FieldLocation, entity.FieldWarehouse:
			if ch.Clear {
				value = nil
			} else {
				value = ch.Text
			}
		default:
			value = ch.Text
		}
		args = append(args, value)
		parts = append(parts, fmt.Sprintf("%s = $%d", ch.Field, len(args)))
	}
	args = append(args, time.Now())
	parts = append(parts, fmt.Sprintf("updated_at = $%d", len(args)))

	query := "UPDATE items SET " + strings.Join(parts, ", ") + " WHERE id = $1"
	_, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item fields: %w", err)
	}
	return nil
}

// Delete borra el artículo; la FK con ON DELETE CASCADE arrastra sus movimientos.
func (r *ItemRepo) Delete(id int64) (bool, error) {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ListByWarehouse filtra por nombre de bodega (nil = todas) con orden y paginación.
func (r *ItemRepo) ListByWarehouse(warehouse *string, sort string, limit, offset int) ([]*entity.Item, error) {
	order := "name ASC"
	switch sort {
	case repository.SortByQty:
		order = "qty ASC"
	case repository.SortBySKU:
		order = "sku ASC"
	}
	var (
		rows pgx.Rows
		err  error
	)
	if warehouse == nil {
		query := `SELECT ` + itemColumns + ` FROM items ORDER BY ` + order + ` LIMIT $1 OFFSET $2`
		rows, err = r.q.Query(context.Background(), query, limit, offset)
	} else {
		query := `SELECT ` + itemColumns + ` FROM items WHERE warehouse = $1 ORDER BY ` + order + ` LIMIT $2 OFFSET $3`
		rows, err = r.q.Query(context.Background(), query, *warehouse, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list items by warehouse: %w", err)
	}
	return r.scanRows(rows)
}

// CountByWarehouse cuenta artículos de una bodega (nil = todas).
func (r *ItemRepo) CountByWarehouse(warehouse *string) (int, error) {
	if warehouse == nil {
		return r.Count()
	}
	var c int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM items WHERE warehouse = $1`, *warehouse).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("count items by warehouse: %w", err)
	}
	return c, nil
}

// ExportAll devuelve todos los artículos ordenados por nombre.
func (r *ItemRepo) ExportAll() ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("export items: %w", err)
	}
	return r.scanRows(rows)
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.Qty, &it.Unit,
		&it.Location, &it.Warehouse, &it.MinQty, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &it, nil
}

func (r *ItemRepo) scanRows(rows pgx.Rows) ([]*entity.Item, error) {
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.SKU, &it.Name, &it.Qty, &it.Unit,
			&it.Location, &it.Warehouse, &it.MinQty, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// isUniqueViolation detecta el código 23505 de PostgreSQL (unique_violation),
// que todos los repos de este paquete traducen a domain.ErrDuplicate.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}
