package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var (
	_ repository.RoutineRepository    = (*RoutineRepo)(nil)
	_ repository.AttendanceRepository = (*AttendanceRepo)(nil)
)

// RoutineRepo tareas diarias sobre PostgreSQL.
type RoutineRepo struct {
	q Querier
}

func NewRoutineRepository(q Querier) *RoutineRepo {
	return &RoutineRepo{q: q}
}

func scanRoutine(row pgx.Row) (*entity.Routine, error) {
	var rt entity.Routine
	if err := row.Scan(&rt.ID, &rt.Task, &rt.Completed, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RoutineRepo) Create(ctx context.Context, rt *entity.Routine) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO routines (id, task, completed, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		rt.ID, rt.Task, rt.Completed, rt.CreatedAt, rt.UpdatedAt)
	if err != nil {
		return wrapErr("insert routine", err)
	}
	return nil
}

func (r *RoutineRepo) GetByID(ctx context.Context, id string) (*entity.Routine, error) {
	rt, err := scanRoutine(r.q.QueryRow(ctx,
		`SELECT id, task, completed, created_at, updated_at FROM routines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get routine", err)
	}
	return rt, nil
}

func (r *RoutineRepo) Update(ctx context.Context, rt *entity.Routine) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE routines SET task = $1, completed = $2, updated_at = $3 WHERE id = $4`,
		rt.Task, rt.Completed, rt.UpdatedAt, rt.ID)
	if err != nil {
		return wrapErr("update routine", err)
	}
	return requireAffected(tag)
}

func (r *RoutineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM routines WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete routine", err)
	}
	return requireAffected(tag)
}

func (r *RoutineRepo) List(ctx context.Context) ([]*entity.Routine, error) {
	rows, err := r.q.Query(ctx, `SELECT id, task, completed, created_at, updated_at FROM routines ORDER BY created_at, id`)
	if err != nil {
		return nil, wrapErr("list routines", err)
	}
	defer rows.Close()
	list := make([]*entity.Routine, 0)
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, wrapErr("scan routine", err)
		}
		list = append(list, rt)
	}
	return list, rows.Err()
}

func (r *RoutineRepo) ResetAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `UPDATE routines SET completed = FALSE, updated_at = NOW() WHERE completed`); err != nil {
		return wrapErr("reset routines", err)
	}
	return nil
}

// AttendanceRepo registros de asistencia sobre PostgreSQL.
type AttendanceRepo struct {
	q Querier
}

func NewAttendanceRepository(q Querier) *AttendanceRepo {
	return &AttendanceRepo{q: q}
}

func scanAttendance(row pgx.Row) (*entity.AttendanceRecord, error) {
	var a entity.AttendanceRecord
	if err := row.Scan(&a.ID, &a.Employee, &a.Type, &a.Date, &a.Time, &a.Timestamp); err != nil {
		return nil, err
	}
	a.Timestamp = a.Timestamp.UTC()
	return &a, nil
}

func (r *AttendanceRepo) Create(ctx context.Context, a *entity.AttendanceRecord) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO attendance (id, employee, type, date, time, ts) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Employee, a.Type, a.Date, a.Time, a.Timestamp)
	if err != nil {
		return wrapErr("insert attendance", err)
	}
	return nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (*entity.AttendanceRecord, error) {
	a, err := scanAttendance(r.q.QueryRow(ctx,
		`SELECT id, employee, type, date, time, ts FROM attendance WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get attendance", err)
	}
	return a, nil
}

func (r *AttendanceRepo) Update(ctx context.Context, a *entity.AttendanceRecord) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE attendance SET employee = $1, type = $2, date = $3, time = $4, ts = $5 WHERE id = $6`,
		a.Employee, a.Type, a.Date, a.Time, a.Timestamp, a.ID)
	if err != nil {
		return wrapErr("update attendance", err)
	}
	return requireAffected(tag)
}

func (r *AttendanceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete attendance", err)
	}
	return requireAffected(tag)
}

// List date vacío = todos.
func (r *AttendanceRepo) List(ctx context.Context, date string) ([]*entity.AttendanceRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, employee, type, date, time, ts FROM attendance
		WHERE ($1 = '' OR date = $1)
		ORDER BY ts DESC, id DESC`, date)
	if err != nil {
		return nil, wrapErr("list attendance", err)
	}
	defer rows.Close()
	list := make([]*entity.AttendanceRecord, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, wrapErr("scan attendance", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
