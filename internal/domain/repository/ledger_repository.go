package repository

import (
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// LedgerRepository define el puerto del libro de stock (append-only).
// Los asientos solo se insertan; nunca hay Update ni Delete.
type LedgerRepository interface {
	Append(entry *entity.StockLedgerEntry) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error)
	ListByDocument(documentID string) ([]*entity.StockLedgerEntry, error)
	// SumByKey suma los deltas del libro para una llave (verificación de consistencia).
	SumByKey(productID string, key entity.LocationKey) (int64, error)
}
