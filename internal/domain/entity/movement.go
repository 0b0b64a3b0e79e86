package entity

import "time"

// MovementType tipo de movimiento del libro de existencias.
type MovementType string

const (
	MovementTypeIN       MovementType = "IN"       // entrada a stock
	MovementTypeOUT      MovementType = "OUT"      // salida de stock
	MovementTypePACKING  MovementType = "PACKING"  // empaque gross
	MovementTypeOUTGOING MovementType = "OUTGOING" // despacho de cajas gross
)

// Valid indica si el tipo es uno de los cuatro permitidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypePACKING, MovementTypeOUTGOING:
		return true
	}
	return false
}

// Field devuelve la cantidad del producto que afecta el tipo.
func (t MovementType) Field() QuantityField {
	if t == MovementTypePACKING || t == MovementTypeOUTGOING {
		return QuantityGrossPacking
	}
	return QuantityStock
}

// Sign devuelve +1 para tipos que suman y -1 para los que restan.
func (t MovementType) Sign() int {
	if t == MovementTypeOUT || t == MovementTypeOUTGOING {
		return -1
	}
	return 1
}

// Movement es una entrada inmutable del libro: nunca se edita ni se borra.
// Guarda nombre y código de barras del producto para sobrevivir a su borrado o renombre.
type Movement struct {
	ID          string
	ProductID   string
	ProductName string
	Barcode     string
	Type        MovementType
	Quantity    int    // siempre positivo; la dirección la da Type
	Date        string // YYYY-MM-DD en la zona horaria configurada
	Time        string // HH:MM:SS
	Timestamp   time.Time
}

// MovementFilter filtros opcionales para consultar el libro.
type MovementFilter struct {
	ProductID string
	Type      MovementType
	From      *time.Time // inclusivo
	To        *time.Time // exclusivo
	Limit     int
}
