package entity

import (
	"math"
	"time"
)

// Límites de cantidades. MaxOperationQuantity acota cada operación individual;
// MaxStoredQuantity acota lo acumulado (columnas INTEGER).
const (
	MaxOperationQuantity = 1_000_000
	MaxStoredQuantity    = math.MaxInt32
)

// QuantityField identifica cuál de las dos cantidades del producto modifica un movimiento.
type QuantityField string

const (
	QuantityStock        QuantityField = "stock"
	QuantityGrossPacking QuantityField = "gross_packing_quantity"
)

// Product representa un producto identificado por su código de barras.
// Stock y GrossPackingQuantity solo cambian a través del motor de movimientos.
type Product struct {
	ID                   string
	Barcode              string // único
	Name                 string
	Stock                int
	GrossPackingQuantity int // unidades ya empacadas en cajas gross
	MinStock             int // 0 = sin umbral; solo para marcar stock bajo
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsLowStock indica si el producto está en o por debajo de su umbral mínimo.
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock <= p.MinStock
}

// Quantity devuelve el valor actual del campo indicado.
func (p *Product) Quantity(field QuantityField) int {
	if field == QuantityGrossPacking {
		return p.GrossPackingQuantity
	}
	return p.Stock
}
