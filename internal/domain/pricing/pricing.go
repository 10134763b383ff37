// Package pricing implementa el cálculo de precios del punto de venta:
// descuentos por línea y por transacción, total, pago y vueltas.
// Política de impuestos: los precios son finales (impuesto incluido); no se
// calcula ni almacena un monto de impuesto separado.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ValidDiscount verifica un par (tipo, valor) de descuento: el tipo debe ser
// percentage, fixed o vacío, el valor nunca negativo, y un valor mayor que
// cero exige tipo. Un tipo desconocido se rechaza en vez de ignorarse.
func ValidDiscount(discountType string, discount decimal.Decimal) bool {
	if discount.IsNegative() {
		return false
	}
	switch discountType {
	case entity.DiscountNone:
		return discount.IsZero()
	case entity.DiscountPercentage, entity.DiscountFixed:
		return true
	}
	return false
}

// ApplyDiscount descuenta discount (porcentaje sobre base o monto fijo) de base.
// El resultado nunca baja de cero y el descuento nunca excede la base.
func ApplyDiscount(base decimal.Decimal, discountType string, discount decimal.Decimal) decimal.Decimal {
	if discount.LessThanOrEqual(decimal.Zero) {
		return base
	}
	var amount decimal.Decimal
	switch discountType {
	case entity.DiscountPercentage:
		amount = base.Mul(discount).Div(hundred)
	case entity.DiscountFixed:
		amount = discount
	default:
		return base
	}
	result := base.Sub(amount)
	if result.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return result
}

// LineSubtotal calcula el neto de una línea: unitPrice * quantity menos su descuento.
func LineSubtotal(unitPrice decimal.Decimal, quantity int64, discountType string, discount decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(quantity))
	return ApplyDiscount(gross, discountType, discount)
}

// Total aplica el descuento de nivel transacción al subtotal acumulado.
func Total(subtotal decimal.Decimal, discountType string, discount decimal.Decimal) decimal.Decimal {
	return ApplyDiscount(subtotal, discountType, discount)
}
