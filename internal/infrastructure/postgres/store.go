package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// Ensure Store implements inventory.TxRunner.
var _ inventory.TxRunner = (*Store)(nil)

// Store backend hospedado: repos sobre el pool y transacciones para el motor de stock.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store con el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Products() repository.ProductRepository      { return NewProductRepository(s.pool) }
func (s *Store) Movements() repository.MovementRepository    { return NewMovementRepository(s.pool) }
func (s *Store) Pending() repository.PendingListRepository   { return NewPendingRepository(s.pool) }
func (s *Store) Routines() repository.RoutineRepository      { return NewRoutineRepository(s.pool) }
func (s *Store) Attendance() repository.AttendanceRepository { return NewAttendanceRepository(s.pool) }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	pendingRepo repository.PendingListRepository,
) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewMovementRepository(tx), NewPendingRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// Transactional un error dentro de Run revierte todo.
func (s *Store) Transactional() bool { return true }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return wrapErr("ping DB", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
