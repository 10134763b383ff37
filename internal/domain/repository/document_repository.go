package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para documentos del flujo
// (cabecera + líneas).
type DocumentRepository interface {
	// Create inserta cabecera y líneas. Retorna domain.ErrNumberConflict si el
	// consecutivo ya existe (constraint único sobre number).
	Create(doc *entity.Document) error
	// GetByID carga cabecera y líneas; nil si no existe.
	GetByID(id string) (*entity.Document, error)
	// UpdateStatus es la compuerta de concurrencia: actualiza el estado solo si
	// el actual coincide con fromStatus y retorna cuántas filas cambiaron (0 o 1).
	UpdateStatus(id, fromStatus, toStatus, approverID string) (int64, error)
	List(kind, status string, limit, offset int) ([]*entity.Document, error)
}
