package postgres

import (
	"context"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		barcode TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		gross_packing_quantity INTEGER NOT NULL DEFAULT 0 CHECK (gross_packing_quantity >= 0),
		min_stock INTEGER NOT NULL DEFAULT 0 CHECK (min_stock >= 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name, id)`,
	// Sin FK a products: el historial sobrevive al borrado del producto.
	`CREATE TABLE IF NOT EXISTS movements (
		seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		barcode TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('IN', 'OUT', 'PACKING', 'OUTGOING')),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		ts TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_ts ON movements (ts DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product_ts ON movements (product_id, ts DESC)`,
	`CREATE TABLE IF NOT EXISTS pending_items (
		seq BIGSERIAL,
		product_id TEXT PRIMARY KEY,
		barcode TEXT NOT NULL,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		added_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS routines (
		id TEXT PRIMARY KEY,
		task TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('CLOCK_IN', 'CLOCK_OUT')),
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		ts TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance (date, ts DESC)`,
}

// EnsureSchema crea tablas e índices si no existen. Idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return wrapErr("postgres schema", err)
		}
	}
	return nil
}
