package entity

import "time"

// Tipos de ubicación de stock.
const (
	LocationTypeWarehouse = "warehouse" // bodega
	LocationTypeStore     = "store"     // tienda / punto de venta
)

// ValidLocationType verifica que el tipo sea warehouse o store.
func ValidLocationType(t string) bool {
	return t == LocationTypeWarehouse || t == LocationTypeStore
}

// LocationKey identifica un balde de stock: (tipo de ubicación, id).
type LocationKey struct {
	Type string
	ID   string
}

// Location representa una bodega o tienda donde se almacena y vende inventario.
type Location struct {
	ID        string
	Type      string // warehouse | store
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key devuelve la LocationKey de esta ubicación.
func (l *Location) Key() LocationKey {
	return LocationKey{Type: l.Type, ID: l.ID}
}
