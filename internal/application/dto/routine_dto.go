package dto

import (
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// CreateRoutineRequest alta de tarea.
type CreateRoutineRequest struct {
	Task string `json:"task" validate:"required,notblank,max=200"`
}

// UpdateRoutineRequest cambio de texto o marca de completado.
type UpdateRoutineRequest struct {
	Task      *string `json:"task" validate:"omitempty,notblank,max=200"`
	Completed *bool   `json:"completed"`
}

// RoutineResponse salida de una tarea.
type RoutineResponse struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAttendanceRequest marca de entrada/salida; fecha y hora las asigna el servidor.
type CreateAttendanceRequest struct {
	Employee string `json:"employee" validate:"required,notblank,max=100"`
	Type     string `json:"type" validate:"required,oneof=CLOCK_IN CLOCK_OUT"`
}

// UpdateAttendanceRequest corrección administrativa de un registro.
type UpdateAttendanceRequest struct {
	Employee *string `json:"employee" validate:"omitempty,notblank,max=100"`
	Type     *string `json:"type" validate:"omitempty,oneof=CLOCK_IN CLOCK_OUT"`
	Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time" validate:"omitempty,datetime=15:04:05"`
}

// AttendanceResponse salida de un registro.
type AttendanceResponse struct {
	ID        string    `json:"id"`
	Employee  string    `json:"employee"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRoutineResponse mapea una tarea.
func NewRoutineResponse(r *entity.Routine) *RoutineResponse {
	if r == nil {
		return nil
	}
	return &RoutineResponse{ID: r.ID, Task: r.Task, Completed: r.Completed, UpdatedAt: r.UpdatedAt}
}

// NewRoutineList mapea la lista de tareas.
func NewRoutineList(list []*entity.Routine) []RoutineResponse {
	out := make([]RoutineResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *NewRoutineResponse(r))
	}
	return out
}

// NewAttendanceResponse mapea un registro de asistencia.
func NewAttendanceResponse(a *entity.AttendanceRecord) *AttendanceResponse {
	if a == nil {
		return nil
	}
	return &AttendanceResponse{
		ID:        a.ID,
		Employee:  a.Employee,
		Type:      a.Type,
		Date:      a.Date,
		Time:      a.Time,
		Timestamp: a.Timestamp,
	}
}

// NewAttendanceList mapea la lista de registros.
func NewAttendanceList(list []*entity.AttendanceRecord) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *NewAttendanceResponse(a))
	}
	return out
}
