// Package backend abre el almacenamiento configurado (postgres, sqlite o memoria) y expone
// los repositorios y el TxRunner con una sola forma para el resto de la aplicación.
package backend

import (
	"context"
	"fmt"

	"github.com/jhoicas/logistica-api/internal/application/inventory"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/jhoicas/logistica-api/internal/infrastructure/memory"
	"github.com/jhoicas/logistica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/logistica-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/logistica-api/pkg/config"
	"github.com/jhoicas/logistica-api/pkg/logger"
)

// Backend repositorios de un almacenamiento ya abierto.
type Backend struct {
	Name       string
	Products   repository.ProductRepository
	Movements  repository.MovementRepository
	Pending    repository.PendingListRepository
	Routines   repository.RoutineRepository
	Attendance repository.AttendanceRepository
	Tx         inventory.TxRunner

	ping  func(ctx context.Context) error
	close func() error
}

// Ping verifica que el almacenamiento responda.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close libera conexiones.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

type store interface {
	inventory.TxRunner
	Products() repository.ProductRepository
	Movements() repository.MovementRepository
	Pending() repository.PendingListRepository
	Routines() repository.RoutineRepository
	Attendance() repository.AttendanceRepository
}

func fromStore(name string, s store) *Backend {
	return &Backend{
		Name:       name,
		Products:   s.Products(),
		Movements:  s.Movements(),
		Pending:    s.Pending(),
		Routines:   s.Routines(),
		Attendance: s.Attendance(),
		Tx:         s,
	}
}

// Open abre el backend elegido en cfg.Storage.Backend. No hay respaldo automático entre backends:
// si el elegido falla, falla el arranque.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		s := postgres.NewStore(pool)
		b := fromStore(config.BackendPostgres, s)
		b.ping, b.close = s.Ping, s.Close
		log.Info().Str("backend", b.Name).Msg("conectado a PostgreSQL")
		return b, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		s := sqlite.NewStore(db)
		b := fromStore(config.BackendSQLite, s)
		b.ping, b.close = s.Ping, s.Close
		log.Info().Str("backend", b.Name).Str("path", cfg.SQLite.Path).Msg("archivo SQLite abierto")
		return b, nil

	case config.BackendMemory:
		log.Warn().Str("backend", config.BackendMemory).Msg("almacenamiento volátil: los datos se pierden al reiniciar")
		return fromStore(config.BackendMemory, memory.NewStore()), nil
	}
	return nil, fmt.Errorf("backend de almacenamiento desconocido: %q", cfg.Storage.Backend)
}
