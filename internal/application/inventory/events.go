package inventory

// Acciones publicadas tras cada cambio confirmado.
const (
	ActionMovementRecorded = "movement_recorded"
	ActionPendingUpdated   = "pending_updated"
	ActionShipmentDone     = "shipment_processed"
)

// StockEvent aviso de cambio para clientes en vivo (websocket). No lleva garantías de consistencia.
type StockEvent struct {
	Type      string `json:"type"` // siempre "stock_update"
	Action    string `json:"action"`
	ProductID string `json:"product_id,omitempty"`
	Movement  string `json:"movement_type,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Stock     *int   `json:"stock,omitempty"`
	Gross     *int   `json:"gross_packing_quantity,omitempty"`
}

func newEvent(action string) StockEvent {
	return StockEvent{Type: "stock_update", Action: action}
}
