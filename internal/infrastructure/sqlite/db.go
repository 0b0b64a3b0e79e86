package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/logistica-api/internal/domain"
)

// Querier lo que necesitan los repos: *sqlx.DB o *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
}

// timeLayout ancho fijo en UTC: el orden de texto coincide con el orden cronológico.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Open abre (o crea) el archivo y aplica el esquema. Una sola conexión: SQLite serializa escrituras.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr("sqlite ping", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		barcode TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		gross_packing_quantity INTEGER NOT NULL DEFAULT 0 CHECK (gross_packing_quantity >= 0),
		min_stock INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name, id)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		barcode TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('IN', 'OUT', 'PACKING', 'OUTGOING')),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		ts TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_ts ON movements (ts DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product_ts ON movements (product_id, ts DESC)`,
	`CREATE TABLE IF NOT EXISTS pending_items (
		product_id TEXT PRIMARY KEY,
		barcode TEXT NOT NULL,
		name TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		added_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		seq INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS routines (
		id TEXT PRIMARY KEY,
		task TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee TEXT NOT NULL,
		type TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		ts TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance (date, ts DESC)`,
}

// EnsureSchema crea tablas e índices si no existen.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return wrapErr("sqlite schema", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// wrapErr traduce fallas del archivo (bloqueado, sin espacio, sin acceso) a ErrStorageUnavailable.
func wrapErr(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrFull, sqlite3.ErrReadonly:
			return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
