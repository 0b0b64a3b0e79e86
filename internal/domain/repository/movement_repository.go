package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos. Solo agrega y consulta: no hay update ni delete.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// Query devuelve los movimientos del más reciente al más antiguo.
	Query(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
}
