package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// RoutineUseCase lista de verificación diaria del equipo de bodega.
type RoutineUseCase struct {
	repo repository.RoutineRepository
	now  func() time.Time
}

// NewRoutineUseCase construye el caso de uso.
func NewRoutineUseCase(repo repository.RoutineRepository) *RoutineUseCase {
	return &RoutineUseCase{repo: repo, now: time.Now}
}

// Create agrega una tarea sin completar.
func (uc *RoutineUseCase) Create(ctx context.Context, in dto.CreateRoutineRequest) (*entity.Routine, error) {
	task := strings.TrimSpace(in.Task)
	if task == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	r := &entity.Routine{ID: uuid.New().String(), Task: task, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update cambia el texto o la marca de completado.
func (uc *RoutineUseCase) Update(ctx context.Context, id string, in dto.UpdateRoutineRequest) (*entity.Routine, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if in.Task != nil {
		task := strings.TrimSpace(*in.Task)
		if task == "" {
			return nil, domain.ErrInvalidInput
		}
		r.Task = task
	}
	if in.Completed != nil {
		r.Completed = *in.Completed
	}
	r.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *RoutineUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *RoutineUseCase) List(ctx context.Context) ([]*entity.Routine, error) {
	return uc.repo.List(ctx)
}

// Reset desmarca todas las tareas para empezar un nuevo día.
func (uc *RoutineUseCase) Reset(ctx context.Context) error {
	return uc.repo.ResetAll(ctx)
}
