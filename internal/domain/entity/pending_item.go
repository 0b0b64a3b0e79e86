package entity

import "time"

// PendingOutboundItem fila de la lista de envío del día. Una sola fila por producto.
type PendingOutboundItem struct {
	ProductID string
	Barcode   string
	Name      string
	Stock     int // stock al momento de agregarlo
	Quantity  int
	AddedAt   time.Time
	UpdatedAt time.Time
}
