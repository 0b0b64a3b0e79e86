package inventory

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// TxRunner ejecuta una función como una unidad, pasando repositorios atados a esa unidad.
// Transactional indica si un error de fn revierte lo ya escrito (postgres, sqlite) o no (memoria).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		pendingRepo repository.PendingListRepository,
	) error) error
	Transactional() bool
}

// EventPublisher recibe los cambios ya confirmados para refrescar clientes conectados.
type EventPublisher interface {
	Publish(event StockEvent)
}
