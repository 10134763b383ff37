package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleItemRequest línea de venta. UnitPrice en cero toma el precio del producto.
type CreateSaleItemRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountType string          `json:"discount_type"` // percentage | fixed | vacío
	Discount     decimal.Decimal `json:"discount"`
}

// CreateSaleRequest entrada del checkout. La venta descuenta stock de la tienda
// indicada; amount_paid solo es obligatorio con payment_type=cash.
type CreateSaleRequest struct {
	StoreID      string                  `json:"store_id"`
	CustomerName string                  `json:"customer_name"`
	PaymentType  string                  `json:"payment_type"` // exact | cash | transfer
	AmountPaid   decimal.Decimal         `json:"amount_paid"`
	DiscountType string                  `json:"discount_type"` // percentage | fixed | vacío
	Discount     decimal.Decimal         `json:"discount"`
	Items        []CreateSaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse representación externa de una venta con sus totales calculados.
type SaleResponse struct {
	ID           string             `json:"id"`
	Code         string             `json:"code"`
	CustomerName string             `json:"customer_name,omitempty"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Discount     decimal.Decimal    `json:"discount"`
	Total        decimal.Decimal    `json:"total"`
	PaymentType  string             `json:"payment_type"`
	AmountPaid   decimal.Decimal    `json:"amount_paid"`
	Change       decimal.Decimal    `json:"change"`
	Status       string             `json:"status"`
	CashierID    string             `json:"cashier_id"`
	CreatedAt    time.Time          `json:"created_at"`
	Items        []SaleItemResponse `json:"items"`
}
