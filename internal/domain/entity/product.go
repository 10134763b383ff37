package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU vendible (multi-ubicación).
// El stock se maneja por ubicación en LocationStock; aquí solo identidad y precios.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Price     decimal.Decimal // precio de venta (IVA incluido, ver política en DESIGN.md)
	Cost      decimal.Decimal // costo de compra
	Unit      string          // unidad de medida (pcs, kg, ...)
	CreatedAt time.Time
	UpdatedAt time.Time
}
