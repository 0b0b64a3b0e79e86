package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, barcode, name, stock, gross_packing_quantity, min_stock, created_at, updated_at`

type productRow struct {
	ID                   string `db:"id"`
	Barcode              string `db:"barcode"`
	Name                 string `db:"name"`
	Stock                int    `db:"stock"`
	GrossPackingQuantity int    `db:"gross_packing_quantity"`
	MinStock             int    `db:"min_stock"`
	CreatedAt            string `db:"created_at"`
	UpdatedAt            string `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:                   r.ID,
		Barcode:              r.Barcode,
		Name:                 r.Name,
		Stock:                r.Stock,
		GrossPackingQuantity: r.GrossPackingQuantity,
		MinStock:             r.MinStock,
		CreatedAt:            parseTime(r.CreatedAt),
		UpdatedAt:            parseTime(r.UpdatedAt),
	}
}

// ProductRepo productos sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository pasar db o tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Barcode, p.Name, p.Stock, p.GrossPackingQuantity, p.MinStock,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBarcode
		}
		return wrapErr("insert product", err)
	}
	return nil
}

func (r *ProductRepo) get(ctx context.Context, where string, arg any) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE `+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return row.toEntity(), nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.get(ctx, "barcode = ?", barcode)
}

// Update no toca stock ni gross_packing_quantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products SET barcode = ?, name = ?, min_stock = ?, updated_at = ?
		WHERE id = ?`,
		p.Barcode, p.Name, p.MinStock, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBarcode
		}
		return wrapErr("update product", err)
	}
	return requireAffected(res)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	return requireAffected(res)
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+productColumns+` FROM products ORDER BY name, id`); err != nil {
		return nil, wrapErr("list products", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ApplyQuantityDelta un solo UPDATE condicionado: el chequeo y la escritura son atómicos.
func (r *ProductRepo) ApplyQuantityDelta(ctx context.Context, id string, field entity.QuantityField, delta int) (*entity.Product, error) {
	column := "stock"
	insufficient := domain.ErrInsufficientStock
	if field == entity.QuantityGrossPacking {
		column = "gross_packing_quantity"
		insufficient = domain.ErrInsufficientGrossPacking
	}

	var row productRow
	query := fmt.Sprintf(`
		UPDATE products SET %[1]s = %[1]s + ?, updated_at = ?
		WHERE id = ? AND %[1]s + ? BETWEEN 0 AND ?
		RETURNING `+productColumns, column)
	err := sqlx.GetContext(ctx, r.q, &row, query, delta, formatTime(time.Now()), id, delta, entity.MaxStoredQuantity)
	if err == nil {
		return row.toEntity(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapErr("apply quantity delta", err)
	}
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if delta > 0 {
		return nil, domain.ErrQuantityOutOfRange
	}
	return nil, insufficient
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("rows affected", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
