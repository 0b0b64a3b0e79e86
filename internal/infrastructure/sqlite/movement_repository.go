package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, product_name, barcode, type, quantity, date, time, ts`

type movementRow struct {
	ID          string `db:"id"`
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Barcode     string `db:"barcode"`
	Type        string `db:"type"`
	Quantity    int    `db:"quantity"`
	Date        string `db:"date"`
	Time        string `db:"time"`
	Timestamp   string `db:"ts"`
}

func (r movementRow) toEntity() *entity.Movement {
	return &entity.Movement{
		ID:          r.ID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Barcode:     r.Barcode,
		Type:        entity.MovementType(r.Type),
		Quantity:    r.Quantity,
		Date:        r.Date,
		Time:        r.Time,
		Timestamp:   parseTime(r.Timestamp),
	}
}

// MovementRepo libro de movimientos sobre SQLite. Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProductID, m.ProductName, m.Barcode, string(m.Type), m.Quantity, m.Date, m.Time, formatTime(m.Timestamp),
	)
	if err != nil {
		return wrapErr("insert movement", err)
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var row movementRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+movementColumns+` FROM movements WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get movement", err)
	}
	return row.toEntity(), nil
}

func (r *MovementRepo) Query(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != "" {
		where = append(where, "product_id = ?")
		args = append(args, f.ProductID)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.From != nil {
		where = append(where, "ts >= ?")
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		where = append(where, "ts < ?")
		args = append(args, formatTime(*f.To))
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ts DESC, rowid DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, wrapErr("query movements", err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
