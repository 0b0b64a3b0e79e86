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

// AttendanceUseCase marcas de entrada y salida. Fecha y hora las pone el servidor.
type AttendanceUseCase struct {
	repo repository.AttendanceRepository
	loc  *time.Location
	now  func() time.Time
}

// NewAttendanceUseCase loc define la fecha local de cada marca.
func NewAttendanceUseCase(repo repository.AttendanceRepository, loc *time.Location) *AttendanceUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceUseCase{repo: repo, loc: loc, now: time.Now}
}

func validAttendanceType(t string) bool {
	return t == entity.AttendanceClockIn || t == entity.AttendanceClockOut
}

// Create registra una marca (CLOCK_IN o CLOCK_OUT) con la hora actual.
func (uc *AttendanceUseCase) Create(ctx context.Context, in dto.CreateAttendanceRequest) (*entity.AttendanceRecord, error) {
	employee := strings.TrimSpace(in.Employee)
	if employee == "" || !validAttendanceType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now().UTC()
	local := now.In(uc.loc)
	rec := &entity.AttendanceRecord{
		ID:        uuid.New().String(),
		Employee:  employee,
		Type:      in.Type,
		Date:      local.Format("2006-01-02"),
		Time:      local.Format("15:04:05"),
		Timestamp: now,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update corrección administrativa; si cambia fecha u hora se recalcula Timestamp.
func (uc *AttendanceUseCase) Update(ctx context.Context, id string, in dto.UpdateAttendanceRequest) (*entity.AttendanceRecord, error) {
	rec, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if in.Employee != nil {
		employee := strings.TrimSpace(*in.Employee)
		if employee == "" {
			return nil, domain.ErrInvalidInput
		}
		rec.Employee = employee
	}
	if in.Type != nil {
		if !validAttendanceType(*in.Type) {
			return nil, domain.ErrInvalidInput
		}
		rec.Type = *in.Type
	}
	if in.Date != nil || in.Time != nil {
		date, clock := rec.Date, rec.Time
		if in.Date != nil {
			date = *in.Date
		}
		if in.Time != nil {
			clock = *in.Time
		}
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, uc.loc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		rec.Date, rec.Time, rec.Timestamp = date, clock, ts.UTC()
	}
	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (uc *AttendanceUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List date vacío = todos; más reciente primero.
func (uc *AttendanceUseCase) List(ctx context.Context, date string) ([]*entity.AttendanceRecord, error) {
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	return uc.repo.List(ctx, date)
}
