package entity

import "time"

// LocationStock es la vista materializada del stock actual de un producto en una
// ubicación. Invariante: Quantity == suma de los deltas del libro para esa llave
// y nunca es negativa para ningún lector.
type LocationStock struct {
	ProductID    string
	LocationType string
	LocationID   string
	Quantity     int64
	UpdatedAt    time.Time
}

// Key devuelve la LocationKey de la fila.
func (s *LocationStock) Key() LocationKey {
	return LocationKey{Type: s.LocationType, ID: s.LocationID}
}
