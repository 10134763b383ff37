package entity

import "time"

// Razones de los asientos del libro de stock.
const (
	ReasonReceipt     = "receipt"      // entrada por recepción de mercancía
	ReasonTransferOut = "transfer-out" // salida por traslado
	ReasonTransferIn  = "transfer-in"  // entrada por traslado
	ReasonAdjustment  = "adjustment"   // ajuste manual aprobado
	ReasonSale        = "sale"         // venta en punto de venta
)

// StockLedgerEntry es un asiento inmutable del libro de stock: un delta con signo
// por (producto, ubicación), con la razón y el documento que lo originó.
// Los asientos nunca se actualizan ni se borran.
type StockLedgerEntry struct {
	ID           string
	ProductID    string
	LocationType string
	LocationID   string
	Delta        int64
	Reason       string
	DocumentID   string // documento o transacción origen; vacío si no aplica
	CreatedAt    time.Time
}

// Key devuelve la LocationKey del asiento.
func (e *StockLedgerEntry) Key() LocationKey {
	return LocationKey{Type: e.LocationType, ID: e.LocationID}
}
