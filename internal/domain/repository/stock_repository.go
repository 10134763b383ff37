package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// StockRepository define el puerto para la vista materializada LocationStock.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la fila de stock; cantidad 0 si la llave no existe aún.
	Get(productID string, key entity.LocationKey) (*entity.LocationStock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID string, key entity.LocationKey) (*entity.LocationStock, error)
	Upsert(stock *entity.LocationStock) error
}
