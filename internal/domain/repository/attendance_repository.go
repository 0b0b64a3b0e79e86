package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// AttendanceRepository puerto de registros de entrada/salida.
type AttendanceRepository interface {
	Create(ctx context.Context, record *entity.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*entity.AttendanceRecord, error)
	Update(ctx context.Context, record *entity.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
	// List del más reciente al más antiguo; date vacío = todos.
	List(ctx context.Context, date string) ([]*entity.AttendanceRecord, error)
}
