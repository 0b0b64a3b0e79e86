package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// PendingListRepository puerto de la lista de envío pendiente (clave: ProductID).
type PendingListRepository interface {
	// List devuelve primero lo agregado más recientemente.
	List(ctx context.Context) ([]*entity.PendingOutboundItem, error)
	GetByProductID(ctx context.Context, productID string) (*entity.PendingOutboundItem, error)
	// AddQuantity inserta el item con Quantity = delta o, si ya existe, suma delta a su cantidad.
	// Cada fila se envía como una sola salida: ErrQuantityOutOfRange si supera entity.MaxOperationQuantity.
	AddQuantity(ctx context.Context, item *entity.PendingOutboundItem, delta int) (*entity.PendingOutboundItem, error)
	// AdjustQuantity suma delta (con signo) a la fila existente de forma atómica. Si el resultado es 0
	// borra la fila y devuelve nil, nil. ErrNotFound si no hay fila, ErrInvalidInput si quedaría negativa.
	AdjustQuantity(ctx context.Context, productID string, delta int) (*entity.PendingOutboundItem, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (*entity.PendingOutboundItem, error)
	Delete(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
}
