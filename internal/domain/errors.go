package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPayment = errors.New("pago insuficiente")
	ErrNumberConflict      = errors.New("conflicto de consecutivo")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// qué producto, en qué ubicación, cuánto se pidió y cuánto hay.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ProductID    string
	LocationType string
	LocationID   string
	Requested    int64
	Available    int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en %s %s (solicitado %d, disponible %d)",
		e.ProductID, e.LocationType, e.LocationID, e.Requested, e.Available)
}

// Unwrap permite el match con el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
