package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrDuplicateBarcode         = errors.New("el código de barras ya está registrado")
	ErrUnknownBarcode           = errors.New("código de barras desconocido")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrInsufficientGrossPacking = errors.New("cantidad de empaque gross insuficiente")
	ErrLedgerWriteInconsistency = errors.New("stock aplicado sin movimiento registrado")
	ErrStorageUnavailable       = errors.New("almacenamiento no disponible")

	// ErrQuantityOutOfRange cantidad o acumulado fuera de los límites; es una entrada inválida.
	ErrQuantityOutOfRange = fmt.Errorf("%w: cantidad fuera de rango", ErrInvalidInput)
)

// LedgerInconsistencyError indica que el cambio de cantidad del producto quedó aplicado
// pero el movimiento no pudo guardarse. Es el único caso con cambio de estado parcial:
// se reporta al operador y nunca se reintenta automáticamente.
type LedgerInconsistencyError struct {
	ProductID    string
	MovementType string
	Quantity     int
	Err          error
}

func (e *LedgerInconsistencyError) Error() string {
	return fmt.Sprintf("%s (producto %s, %s x%d): %v",
		ErrLedgerWriteInconsistency.Error(), e.ProductID, e.MovementType, e.Quantity, e.Err)
}

// Unwrap permite errors.Is tanto contra ErrLedgerWriteInconsistency como contra la causa.
func (e *LedgerInconsistencyError) Unwrap() []error {
	return []error{ErrLedgerWriteInconsistency, e.Err}
}
