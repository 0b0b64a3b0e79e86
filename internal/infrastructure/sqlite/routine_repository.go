package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var (
	_ repository.RoutineRepository    = (*RoutineRepo)(nil)
	_ repository.AttendanceRepository = (*AttendanceRepo)(nil)
)

type routineRow struct {
	ID        string `db:"id"`
	Task      string `db:"task"`
	Completed bool   `db:"completed"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r routineRow) toEntity() *entity.Routine {
	return &entity.Routine{
		ID:        r.ID,
		Task:      r.Task,
		Completed: r.Completed,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

// RoutineRepo tareas diarias sobre SQLite.
type RoutineRepo struct {
	q Querier
}

func NewRoutineRepository(q Querier) *RoutineRepo {
	return &RoutineRepo{q: q}
}

func (r *RoutineRepo) Create(ctx context.Context, rt *entity.Routine) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO routines (id, task, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		rt.ID, rt.Task, rt.Completed, formatTime(rt.CreatedAt), formatTime(rt.UpdatedAt))
	if err != nil {
		return wrapErr("insert routine", err)
	}
	return nil
}

func (r *RoutineRepo) GetByID(ctx context.Context, id string) (*entity.Routine, error) {
	var row routineRow
	err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT id, task, completed, created_at, updated_at FROM routines WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get routine", err)
	}
	return row.toEntity(), nil
}

func (r *RoutineRepo) Update(ctx context.Context, rt *entity.Routine) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE routines SET task = ?, completed = ?, updated_at = ? WHERE id = ?`,
		rt.Task, rt.Completed, formatTime(rt.UpdatedAt), rt.ID)
	if err != nil {
		return wrapErr("update routine", err)
	}
	return requireAffected(res)
}

func (r *RoutineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete routine", err)
	}
	return requireAffected(res)
}

func (r *RoutineRepo) List(ctx context.Context) ([]*entity.Routine, error) {
	var rows []routineRow
	if err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT id, task, completed, created_at, updated_at FROM routines ORDER BY created_at, id`); err != nil {
		return nil, wrapErr("list routines", err)
	}
	out := make([]*entity.Routine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *RoutineRepo) ResetAll(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE routines SET completed = 0, updated_at = ? WHERE completed = 1`, formatTime(time.Now()))
	if err != nil {
		return wrapErr("reset routines", err)
	}
	return nil
}

type attendanceRow struct {
	ID        string `db:"id"`
	Employee  string `db:"employee"`
	Type      string `db:"type"`
	Date      string `db:"date"`
	Time      string `db:"time"`
	Timestamp string `db:"ts"`
}

func (r attendanceRow) toEntity() *entity.AttendanceRecord {
	return &entity.AttendanceRecord{
		ID:        r.ID,
		Employee:  r.Employee,
		Type:      r.Type,
		Date:      r.Date,
		Time:      r.Time,
		Timestamp: parseTime(r.Timestamp),
	}
}

// AttendanceRepo registros de asistencia sobre SQLite.
type AttendanceRepo struct {
	q Querier
}

func NewAttendanceRepository(q Querier) *AttendanceRepo {
	return &AttendanceRepo{q: q}
}

func (r *AttendanceRepo) Create(ctx context.Context, a *entity.AttendanceRecord) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO attendance (id, employee, type, date, time, ts) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Employee, a.Type, a.Date, a.Time, formatTime(a.Timestamp))
	if err != nil {
		return wrapErr("insert attendance", err)
	}
	return nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (*entity.AttendanceRecord, error) {
	var row attendanceRow
	err := sqlx.GetContext(ctx, r.q, &row,
		`SELECT id, employee, type, date, time, ts FROM attendance WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get attendance", err)
	}
	return row.toEntity(), nil
}

func (r *AttendanceRepo) Update(ctx context.Context, a *entity.AttendanceRecord) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE attendance SET employee = ?, type = ?, date = ?, time = ?, ts = ? WHERE id = ?`,
		a.Employee, a.Type, a.Date, a.Time, formatTime(a.Timestamp), a.ID)
	if err != nil {
		return wrapErr("update attendance", err)
	}
	return requireAffected(res)
}

func (r *AttendanceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM attendance WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete attendance", err)
	}
	return requireAffected(res)
}

func (r *AttendanceRepo) List(ctx context.Context, date string) ([]*entity.AttendanceRecord, error) {
	query := `SELECT id, employee, type, date, time, ts FROM attendance`
	var args []any
	if date != "" {
		query += ` WHERE date = ?`
		args = append(args, date)
	}
	query += ` ORDER BY ts DESC, id DESC`
	var rows []attendanceRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, wrapErr("list attendance", err)
	}
	out := make([]*entity.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
