package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var (
	_ repository.RoutineRepository    = (*RoutineRepo)(nil)
	_ repository.AttendanceRepository = (*AttendanceRepo)(nil)
)

// RoutineRepo tareas diarias en memoria.
type RoutineRepo struct {
	s *Store
}

func (r *RoutineRepo) Create(_ context.Context, routine *entity.Routine) error {
	cp := *routine
	r.s.mu.Lock()
	r.s.routines[cp.ID] = &cp
	r.s.mu.Unlock()
	return nil
}

func (r *RoutineRepo) GetByID(_ context.Context, id string) (*entity.Routine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rt, ok := r.s.routines[id]
	if !ok {
		return nil, nil
	}
	cp := *rt
	return &cp, nil
}

func (r *RoutineRepo) Update(_ context.Context, routine *entity.Routine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.routines[routine.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *routine
	r.s.routines[cp.ID] = &cp
	return nil
}

func (r *RoutineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.routines[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.routines, id)
	return nil
}

// List en orden de creación.
func (r *RoutineRepo) List(_ context.Context) ([]*entity.Routine, error) {
	r.s.mu.RLock()
	out := make([]*entity.Routine, 0, len(r.s.routines))
	for _, rt := range r.s.routines {
		cp := *rt
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *RoutineRepo) ResetAll(_ context.Context) error {
	now := time.Now()
	r.s.mu.Lock()
	for _, rt := range r.s.routines {
		if rt.Completed {
			rt.Completed = false
			rt.UpdatedAt = now
		}
	}
	r.s.mu.Unlock()
	return nil
}

// AttendanceRepo registros de asistencia en memoria.
type AttendanceRepo struct {
	s *Store
}

func (r *AttendanceRepo) Create(_ context.Context, record *entity.AttendanceRecord) error {
	cp := *record
	r.s.mu.Lock()
	r.s.attendance[cp.ID] = &cp
	r.s.mu.Unlock()
	return nil
}

func (r *AttendanceRepo) GetByID(_ context.Context, id string) (*entity.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.attendance[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *AttendanceRepo) Update(_ context.Context, record *entity.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attendance[record.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *record
	r.s.attendance[cp.ID] = &cp
	return nil
}

func (r *AttendanceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attendance[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.attendance, id)
	return nil
}

func (r *AttendanceRepo) List(_ context.Context, date string) ([]*entity.AttendanceRecord, error) {
	r.s.mu.RLock()
	out := make([]*entity.AttendanceRecord, 0, len(r.s.attendance))
	for _, rec := range r.s.attendance {
		if date != "" && rec.Date != date {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
