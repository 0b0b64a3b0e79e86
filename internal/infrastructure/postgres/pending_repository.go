package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.PendingListRepository = (*PendingRepo)(nil)

const pendingColumns = `product_id, barcode, name, stock, quantity, added_at, updated_at`

// PendingRepo lista de envío sobre PostgreSQL; product_id es la clave primaria.
type PendingRepo struct {
	q Querier
}

func NewPendingRepository(q Querier) *PendingRepo {
	return &PendingRepo{q: q}
}

func scanPending(row pgx.Row) (*entity.PendingOutboundItem, error) {
	var it entity.PendingOutboundItem
	if err := row.Scan(&it.ProductID, &it.Barcode, &it.Name, &it.Stock, &it.Quantity, &it.AddedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.AddedAt = it.AddedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return &it, nil
}

func (r *PendingRepo) List(ctx context.Context) ([]*entity.PendingOutboundItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+pendingColumns+` FROM pending_items ORDER BY added_at DESC, seq DESC`)
	if err != nil {
		return nil, wrapErr("list pending", err)
	}
	defer rows.Close()
	list := make([]*entity.PendingOutboundItem, 0)
	for rows.Next() {
		it, err := scanPending(rows)
		if err != nil {
			return nil, wrapErr("scan pending", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list pending", err)
	}
	return list, nil
}

func (r *PendingRepo) GetByProductID(ctx context.Context, productID string) (*entity.PendingOutboundItem, error) {
	it, err := scanPending(r.q.QueryRow(ctx, `SELECT `+pendingColumns+` FROM pending_items WHERE product_id = $1`, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get pending", err)
	}
	return it, nil
}

// AddQuantity fusiona por product_id con ON CONFLICT: dos escaneos simultáneos suman, no se pisan.
func (r *PendingRepo) AddQuantity(ctx context.Context, item *entity.PendingOutboundItem, delta int) (*entity.PendingOutboundItem, error) {
	if delta < 0 || delta > entity.MaxOperationQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	it, err := scanPending(r.q.QueryRow(ctx, `
		INSERT INTO pending_items (product_id, barcode, name, stock, quantity, added_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = pending_items.quantity + EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at
		WHERE pending_items.quantity::bigint + EXCLUDED.quantity <= $8
		RETURNING `+pendingColumns,
		item.ProductID, item.Barcode, item.Name, item.Stock, delta, item.AddedAt, item.UpdatedAt, entity.MaxOperationQuantity,
	))
	if err != nil {
		// sin fila: el WHERE del DO UPDATE descartó la suma
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrQuantityOutOfRange
		}
		return nil, wrapErr("add pending", err)
	}
	return it, nil
}

// AdjustQuantity UPDATE condicionado y, si quedó en 0, DELETE de esa misma fila. Dentro de una
// transacción el lock de fila del UPDATE impide que otro escaneo se cuele antes del DELETE.
func (r *PendingRepo) AdjustQuantity(ctx context.Context, productID string, delta int) (*entity.PendingOutboundItem, error) {
	it, err := scanPending(r.q.QueryRow(ctx, `
		UPDATE pending_items SET quantity = quantity + $2::bigint, updated_at = NOW()
		WHERE product_id = $1 AND quantity::bigint + $2::bigint BETWEEN 0 AND $3
		RETURNING `+pendingColumns, productID, delta, entity.MaxOperationQuantity))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
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
	if it.Quantity > 0 {
		return it, nil
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM pending_items WHERE product_id = $1 AND quantity = 0`, productID)
	if err != nil {
		return nil, wrapErr("delete pending", err)
	}
	if tag.RowsAffected() == 0 {
		return r.GetByProductID(ctx, productID)
	}
	return nil, nil
}

func (r *PendingRepo) SetQuantity(ctx context.Context, productID string, quantity int) (*entity.PendingOutboundItem, error) {
	it, err := scanPending(r.q.QueryRow(ctx, `
		UPDATE pending_items SET quantity = $2, updated_at = NOW()
		WHERE product_id = $1
		RETURNING `+pendingColumns, productID, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("set pending quantity", err)
	}
	return it, nil
}

func (r *PendingRepo) Delete(ctx context.Context, productID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pending_items WHERE product_id = $1`, productID)
	if err != nil {
		return wrapErr("delete pending", err)
	}
	return requireAffected(tag)
}

func (r *PendingRepo) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pending_items`); err != nil {
		return wrapErr("clear pending", err)
	}
	return nil
}
