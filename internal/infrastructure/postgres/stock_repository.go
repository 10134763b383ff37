package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// Opera sobre location_stock, la vista materializada del libro.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una ubicación. Llave inexistente = cantidad 0.
func (r *StockRepo) Get(productID string, key entity.LocationKey) (*entity.LocationStock, error) {
	query := `
		SELECT product_id, location_type, location_id, quantity, updated_at
		FROM location_stock WHERE product_id = $1 AND location_type = $2 AND location_id = $3`
	var s entity.LocationStock
	err := r.q.QueryRow(context.Background(), query, productID, key.Type, key.ID).Scan(
		&s.ProductID, &s.LocationType, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LocationStock{ProductID: productID, LocationType: key.Type, LocationID: key.ID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// La fila bloqueada serializa a los escritores concurrentes de la misma llave.
// Si la llave aún no existe se siembra primero una fila en cero: un SELECT FOR
// UPDATE sin fila no bloquea nada y dos primeras escrituras concurrentes
// leerían ambas cero. Con la siembra, el segundo escritor queda esperando el
// commit del primero y siempre lee la cantidad ya aplicada.
func (r *StockRepo) GetForUpdate(productID string, key entity.LocationKey) (*entity.LocationStock, error) {
	seed := `
		INSERT INTO location_stock (product_id, location_type, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (product_id, location_type, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), seed, productID, key.Type, key.ID); err != nil {
		return nil, fmt.Errorf("seed stock row: %w", err)
	}
	query := `
		SELECT product_id, location_type, location_id, quantity, updated_at
		FROM location_stock WHERE product_id = $1 AND location_type = $2 AND location_id = $3
		FOR UPDATE`
	var s entity.LocationStock
	err := r.q.QueryRow(context.Background(), query, productID, key.Type, key.ID).Scan(
		&s.ProductID, &s.LocationType, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad materializada (por producto y ubicación).
// Los escritores llegan aquí con la fila ya bloqueada por GetForUpdate; el
// CHECK (quantity >= 0) de la tabla es el respaldo del invariante de no-negatividad.
func (r *StockRepo) Upsert(stock *entity.LocationStock) error {
	query := `
		INSERT INTO location_stock (product_id, location_type, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, location_type, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.LocationType, stock.LocationID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
