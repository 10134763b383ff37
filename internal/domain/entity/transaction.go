package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago soportados en el punto de venta.
const (
	PaymentExact    = "exact"    // pago exacto: amountPaid = total, sin vueltas
	PaymentCash     = "cash"     // efectivo: requiere amountPaid >= total
	PaymentTransfer = "transfer" // transferencia/débito: se liquida por el total
)

// Estados de la transacción de venta.
const (
	TransactionCompleted = "completed"
	TransactionCancelled = "cancelled"
)

// Tipos de descuento (por ítem y por transacción).
const (
	DiscountNone       = ""
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Transaction es una venta de punto de venta: cabecera, líneas y totales
// calculados. Se crea una sola vez, atómicamente, junto con sus líneas y los
// asientos del libro de stock que descuenta.
type Transaction struct {
	ID           string
	Code         string // consecutivo legible TRXNNN
	CustomerName string
	Subtotal     decimal.Decimal // suma de subtotales netos por línea
	DiscountType string          // percentage | fixed | vacío
	Discount     decimal.Decimal // valor del descuento a nivel transacción
	Total        decimal.Decimal
	PaymentType  string
	AmountPaid   decimal.Decimal
	Change       decimal.Decimal
	Status       string
	CashierID    string
	CreatedAt    time.Time

	Items []TransactionItem
}

// TransactionItem es una línea de venta con su precio capturado y descuento propio.
type TransactionItem struct {
	ID            string
	TransactionID string
	ProductID     string
	LocationType  string
	LocationID    string
	Quantity      int64
	UnitPrice     decimal.Decimal
	DiscountType  string          // percentage | fixed | vacío
	Discount      decimal.Decimal // valor del descuento por línea
	Subtotal      decimal.Decimal // neto de la línea después de descuento
}
