package sales

import (
	"context"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del checkout atados a esa tx: venta, consecutivo y libro de
// stock comparten transacción para que la venta sea todo-o-nada.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		trxRepo repository.TransactionRepository,
		seqRepo repository.SequenceRepository,
		ledgerRepo repository.LedgerRepository,
		stockRepo repository.StockRepository,
	) error) error
}
