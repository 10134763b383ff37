package repository

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para ventas.
type TransactionRepository interface {
	// Create inserta cabecera y líneas. Retorna domain.ErrNumberConflict si el
	// código TRX ya existe.
	Create(trx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error)
}
