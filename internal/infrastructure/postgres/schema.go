package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentencias idempotentes del esquema. items.warehouse es una referencia
// blanda por nombre, sin FK: borrar una bodega no propaga a los artículos.
// movements sí cae en cascada con su artículo.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id       BIGSERIAL PRIMARY KEY,
		chat_id  BIGINT UNIQUE NOT NULL,
		name     TEXT,
		added_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id         BIGSERIAL PRIMARY KEY,
		sku        TEXT NOT NULL,
		name       TEXT NOT NULL,
		qty        NUMERIC NOT NULL DEFAULT 0,
		unit       TEXT NOT NULL DEFAULT 'pcs',
		location   TEXT,
		warehouse  TEXT,
		min_qty    NUMERIC NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS items_sku_lower_idx ON items (lower(sku))`,
	`CREATE TABLE IF NOT EXISTS warehouses (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id            TEXT PRIMARY KEY,
		item_id       BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		delta         NUMERIC NOT NULL,
		note          TEXT,
		admin_chat_id BIGINT,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
}

// Bootstrap crea las tablas si no existen. Se ejecuta una vez en el arranque.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
