package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// RoutineRepository puerto de la lista de tareas diarias.
type RoutineRepository interface {
	Create(ctx context.Context, routine *entity.Routine) error
	GetByID(ctx context.Context, id string) (*entity.Routine, error)
	Update(ctx context.Context, routine *entity.Routine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Routine, error)
	ResetAll(ctx context.Context) error
}
