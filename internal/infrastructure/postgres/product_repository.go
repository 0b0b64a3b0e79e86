package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, barcode, name, stock, gross_packing_quantity, min_stock, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Barcode, &p.Name, &p.Stock, &p.GrossPackingQuantity, &p.MinStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Create persiste un nuevo producto con sus cantidades iniciales.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Barcode, p.Name, p.Stock, p.GrossPackingQuantity, p.MinStock, p.CreatedAt, p.UpdatedAt,
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
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.get(ctx, "barcode = $1", barcode)
}

// Update actualiza barcode, nombre y umbral. Las cantidades solo cambian con ApplyQuantityDelta.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET barcode = $1, name = $2, min_stock = $3, updated_at = $4
		WHERE id = $5`,
		p.Barcode, p.Name, p.MinStock, p.UpdatedAt, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBarcode
		}
		return wrapErr("update product", err)
	}
	return requireAffected(tag)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	return requireAffected(tag)
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list products", err)
	}
	return list, nil
}

// ApplyQuantityDelta incremento atómico condicionado: stock = stock + delta solo si no queda negativo.
func (r *ProductRepo) ApplyQuantityDelta(ctx context.Context, id string, field entity.QuantityField, delta int) (*entity.Product, error) {
	column := "stock"
	insufficient := domain.ErrInsufficientStock
	if field == entity.QuantityGrossPacking {
		column = "gross_packing_quantity"
		insufficient = domain.ErrInsufficientGrossPacking
	}
	query := fmt.Sprintf(`
		UPDATE products SET %[1]s = %[1]s + $2::bigint, updated_at = NOW()
		WHERE id = $1 AND %[1]s::bigint + $2::bigint BETWEEN 0 AND $3
		RETURNING `+productColumns, column)

	p, err := scanProduct(r.q.QueryRow(ctx, query, id, delta, entity.MaxStoredQuantity))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
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
