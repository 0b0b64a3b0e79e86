package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.PendingListRepository = (*PendingRepo)(nil)

const pendingColumns = `product_id, barcode, name, stock, quantity, added_at, updated_at`

type pendingRow struct {
	ProductID string `db:"product_id"`
	Barcode   string `db:"barcode"`
	Name      string `db:"name"`
	Stock     int    `db:"stock"`
	Quantity  int    `db:"quantity"`
	AddedAt   string `db:"added_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r pendingRow) toEntity() *entity.PendingOutboundItem {
	return &entity.PendingOutboundItem{
		ProductID: r.ProductID,
		Barcode:   r.Barcode,
		Name:      r.Name,
		Stock:     r.Stock,
		Quantity:  r.Quantity,
		AddedAt:   parseTime(r.AddedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

// PendingRepo lista de envío sobre SQLite; product_id es la clave primaria.
type PendingRepo struct {
	q Querier
}

func NewPendingRepository(q Querier) *PendingRepo {
	return &PendingRepo{q: q}
}

func (r *PendingRepo) List(ctx context.Context) ([]*entity.PendingOutboundItem, error) {
	var rows []pendingRow
	if err := sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT `+pendingColumns+` FROM pending_items ORDER BY added_at DESC, seq DESC`); err != nil {
		return nil, wrapErr("list pending", err)
	}
	out := make([]*entity.PendingOutboundItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *PendingRepo) GetByProductID(ctx context.Context, productID string) (*entity.PendingOutboundItem, error) {
	var row pendingRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+pendingColumns+` FROM pending_items WHERE product_id = ?`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get pending", err)
	}
	return row.toEntity(), nil
}

// AddQuantity inserta o suma en una sola sentencia (ON CONFLICT), sin lectura previa.
func (r *PendingRepo) AddQuantity(ctx context.Context, item *entity.PendingOutboundItem, delta int) (*entity.PendingOutboundItem, error) {
	if delta < 0 || delta > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	var row pendingRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		INSERT INTO pending_items (product_id, barcode, name, stock, quantity, added_at, updated_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM pending_items))
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = pending_items.quantity + excluded.quantity,
			updated_at = excluded.updated_at
		WHERE pending_items.quantity + excluded.quantity <= ?
		RETURNING `+pendingColumns,
		item.ProductID, item.Barcode, item.Name, item.Stock, delta,
		formatTime(item.AddedAt), formatTime(item.UpdatedAt), entity.MaxOperationQuantity,
	)
	if err != nil {
		// sin fila: el WHERE del DO UPDATE descartó la suma
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuantityOutOfRange
		}
		return nil, wrapErr("add pending", err)
	}
	return row.toEntity(), nil
}

// AdjustQuantity UPDATE condicionado y, si quedó en 0, DELETE de esa misma fila.
func (r *PendingRepo) AdjustQuantity(ctx context.Context, productID string, delta int) (*entity.PendingOutboundItem, error) {
	var row pendingRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		UPDATE pending_items SET quantity = quantity + ?, updated_at = ?
		WHERE product_id = ? AND quantity + ? BETWEEN 0 AND ?
		RETURNING `+pendingColumns,
		delta, formatTime(time.Now()), productID, delta, entity.MaxOperationQuantity,
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("adjust pending quantity", err)
		}
		existing, err := r.GetByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		if delta > 0 {
			return nil, domain.ErrQuantityOutOfRange
		}
		return nil, domain.ErrInvalidInput
	}
	if row.Quantity > 0 {
		return row.toEntity(), nil
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM pending_items WHERE product_id = ? AND quantity = 0`, productID)
	if err != nil {
		return nil, wrapErr("delete pending", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// otro escaneo sumó entre el UPDATE y el DELETE
		return r.GetByProductID(ctx, productID)
	}
	return nil, nil
}

func (r *PendingRepo) SetQuantity(ctx context.Context, productID string, quantity int) (*entity.PendingOutboundItem, error) {
	var row pendingRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		UPDATE pending_items SET quantity = ?, updated_at = ?
		WHERE product_id = ?
		RETURNING `+pendingColumns,
		quantity, formatTime(time.Now()), productID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("set pending quantity", err)
	}
	return row.toEntity(), nil
}

func (r *PendingRepo) Delete(ctx context.Context, productID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM pending_items WHERE product_id = ?`, productID)
	if err != nil {
		return wrapErr("delete pending", err)
	}
	return requireAffected(res)
}

func (r *PendingRepo) Clear(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM pending_items`); err != nil {
		return wrapErr("clear pending", err)
	}
	return nil
}
