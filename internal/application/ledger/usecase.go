package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// Ledger es el libro de stock: la única vía de escritura sobre
// stock_ledger_entries y la vista materializada location_stock.
// Cada ajuste bloquea la fila materializada (SELECT FOR UPDATE), verifica que
// la cantidad no quede negativa, actualiza la vista y agrega el asiento, todo
// en la misma transacción.
type Ledger struct {
	txRunner   TxRunner
	stockRepo  repository.StockRepository
	ledgerRepo repository.LedgerRepository
}

// New construye el libro de stock. stockRepo y ledgerRepo van atados al pool
// (solo lecturas); las escrituras siempre pasan por txRunner o por ApplyInTx.
func New(txRunner TxRunner, stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository) *Ledger {
	return &Ledger{txRunner: txRunner, stockRepo: stockRepo, ledgerRepo: ledgerRepo}
}

// ApplyInTx aplica un delta usando repositorios atados a la transacción del
// caller (aprobaciones y ventas multi-línea: o entran todas las líneas o
// ninguna). Retorna la cantidad resultante.
func (l *Ledger) ApplyInTx(
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockRepository,
	productID string,
	key entity.LocationKey,
	delta int64,
	reason, documentID string,
	now time.Time,
) (int64, error) {
	if delta == 0 {
		return 0, domain.ErrInvalidInput
	}
	// Bloquea la fila materializada para serializar escritores de la misma llave
	stock, err := stockRepo.GetForUpdate(productID, key)
	if err != nil {
		return 0, err
	}
	newQty := stock.Quantity + delta
	if newQty < 0 {
		return 0, &domain.InsufficientStockError{
			ProductID:    productID,
			LocationType: key.Type,
			LocationID:   key.ID,
			Requested:    -delta,
			Available:    stock.Quantity,
		}
	}
	stock.Quantity = newQty
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return 0, err
	}
	entry := &entity.StockLedgerEntry{
		ID:           uuid.New().String(),
		ProductID:    productID,
		LocationType: key.Type,
		LocationID:   key.ID,
		Delta:        delta,
		Reason:       reason,
		DocumentID:   documentID,
		CreatedAt:    now,
	}
	if err := ledgerRepo.Append(entry); err != nil {
		return 0, err
	}
	return newQty, nil
}

// Adjust aplica un delta en su propia transacción (ajustes de una sola línea).
func (l *Ledger) Adjust(ctx context.Context, productID string, key entity.LocationKey, delta int64, reason, documentID string) (int64, error) {
	var newQty int64
	now := time.Now()
	err := l.txRunner.Run(ctx, func(ledgerRepo repository.LedgerRepository, stockRepo repository.StockRepository) error {
		qty, err := l.ApplyInTx(ledgerRepo, stockRepo, productID, key, delta, reason, documentID, now)
		if err != nil {
			return err
		}
		newQty = qty
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// GetQuantity lee la cantidad actual desde la vista materializada.
// Llaves desconocidas responden 0; por invariante nunca es negativa.
func (l *Ledger) GetQuantity(ctx context.Context, productID string, key entity.LocationKey) (int64, error) {
	stock, err := l.stockRepo.Get(productID, key)
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

// EntriesByProduct lista asientos de un producto en un rango de fechas.
func (l *Ledger) EntriesByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	return l.ledgerRepo.ListByProduct(productID, from, to, limit, offset)
}

// EntriesByDocument lista los asientos generados por un documento o venta.
func (l *Ledger) EntriesByDocument(ctx context.Context, documentID string) ([]*entity.StockLedgerEntry, error) {
	return l.ledgerRepo.ListByDocument(documentID)
}
