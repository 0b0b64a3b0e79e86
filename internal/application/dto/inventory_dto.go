package dto

import (
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// StockOperationRequest body de POST /api/stock/{inbound,outbound,packing,outgoing}.
// Se identifica el producto por product_id o por barcode.
type StockOperationRequest struct {
	ProductID string `json:"product_id"`
	Barcode   string `json:"barcode" validate:"max=64"`
	Name      string `json:"name" validate:"max=200"` // solo entradas: nombre al crear/actualizar por barcode
	Quantity  int    `json:"quantity" validate:"gte=1,lte=1000000"`
}

// RegisterMovementRequest body de POST /api/movements.
type RegisterMovementRequest struct {
	Type string `json:"type" validate:"required,oneof=IN OUT PACKING OUTGOING"`
	StockOperationRequest
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Barcode     string    `json:"barcode"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Timestamp   time.Time `json:"timestamp"`
}

// MutationResponse resultado de una operación de stock: producto actualizado y movimiento emitido.
type MutationResponse struct {
	Product  *ProductResponse  `json:"product"`
	Movement *MovementResponse `json:"movement"`
}

// NewMovementResponse mapea la entidad a su salida JSON.
func NewMovementResponse(m *entity.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Barcode:     m.Barcode,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Date:        m.Date,
		Time:        m.Time,
		Timestamp:   m.Timestamp,
	}
}

// NewMovementList mapea una lista de movimientos.
func NewMovementList(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *NewMovementResponse(m))
	}
	return out
}

// AddPendingRequest body de POST /api/pending/add (escaneo a la lista de envío).
type AddPendingRequest struct {
	Barcode string `json:"barcode" validate:"required,notblank,max=64"`
	Delta   int    `json:"delta" validate:"gte=0,lte=1000000"` // 0 = 1
}

// AdjustPendingRequest body de POST /api/pending/adjust-quantity.
// Delta relativo o Quantity absoluto; si ambos vienen, gana Quantity.
type AdjustPendingRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     *int   `json:"delta" validate:"omitempty,gte=-1000000,lte=1000000"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=0,lte=1000000"`
}

// PendingItemResponse fila de la lista de envío.
type PendingItemResponse struct {
	ProductID string    `json:"product_id"`
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// NewPendingItemResponse mapea un item pendiente.
func NewPendingItemResponse(i *entity.PendingOutboundItem) *PendingItemResponse {
	if i == nil {
		return nil
	}
	return &PendingItemResponse{
		ProductID: i.ProductID,
		Barcode:   i.Barcode,
		Name:      i.Name,
		Stock:     i.Stock,
		Quantity:  i.Quantity,
		AddedAt:   i.AddedAt,
	}
}

// NewPendingList mapea la lista pendiente.
func NewPendingList(list []*entity.PendingOutboundItem) []PendingItemResponse {
	out := make([]PendingItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, *NewPendingItemResponse(i))
	}
	return out
}

// ShipmentResponse resultado de procesar la lista de envío.
type ShipmentResponse struct {
	Processed []MutationResponse    `json:"processed"`
	Remaining []PendingItemResponse `json:"remaining"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// ShipmentFailureResponse error del envío junto con lo que alcanzó a procesarse.
type ShipmentFailureResponse struct {
	ErrorResponse
	Result ShipmentResponse `json:"result"`
}
