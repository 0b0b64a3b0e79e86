package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByBarcode devuelve nil, nil si no existe.
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// Update persiste barcode, nombre y umbral mínimo. No toca cantidades.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// List ordena por nombre y luego por id.
	List(ctx context.Context) ([]*entity.Product, error)
	// ApplyQuantityDelta suma delta al campo de forma atómica y rechaza si el resultado sería negativo
	// (ErrInsufficientStock / ErrInsufficientGrossPacking) o si superaría entity.MaxStoredQuantity
	// (ErrQuantityOutOfRange). Devuelve el producto actualizado.
	ApplyQuantityDelta(ctx context.Context, id string, field entity.QuantityField, delta int) (*entity.Product, error)
}
