package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (bodegas y tiendas).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	// GetByKey valida tipo e id juntos: una bodega no responde como tienda.
	GetByKey(key entity.LocationKey) (*entity.Location, error)
	List(locationType string, limit, offset int) ([]*entity.Location, error)
}
