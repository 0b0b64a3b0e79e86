package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store backend de archivo SQLite: repos sobre la conexión y unidades transaccionales.
type Store struct {
	db *sqlx.DB
}

// NewStore envuelve una conexión ya abierta con Open.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Products() repository.ProductRepository      { return NewProductRepository(s.db) }
func (s *Store) Movements() repository.MovementRepository    { return NewMovementRepository(s.db) }
func (s *Store) Pending() repository.PendingListRepository   { return NewPendingRepository(s.db) }
func (s *Store) Routines() repository.RoutineRepository      { return NewRoutineRepository(s.db) }
func (s *Store) Attendance() repository.AttendanceRepository { return NewAttendanceRepository(s.db) }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Con una sola conexión, fn no debe usar repos de fuera de la tx.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	pendingRepo repository.PendingListRepository,
) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewProductRepository(tx), NewMovementRepository(tx), NewPendingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// Transactional un error dentro de Run revierte todo.
func (s *Store) Transactional() bool { return true }

// Ping verifica que el archivo siga accesible.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return wrapErr("sqlite ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sqlite close: %w", err)
	}
	return nil
}
