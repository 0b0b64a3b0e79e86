package dto

// MovementTotalResponse conteo y suma de cantidades de un tipo de movimiento.
type MovementTotalResponse struct {
	Count    int `json:"count"`
	Quantity int `json:"quantity"`
}

// DailySummaryResponse resumen diario de movimientos y productos con stock bajo.
type DailySummaryResponse struct {
	Date      string                           `json:"date"`
	Totals    map[string]MovementTotalResponse `json:"totals"`
	Movements []MovementResponse               `json:"movements"`
	LowStock  []ProductResponse                `json:"low_stock"`
}
