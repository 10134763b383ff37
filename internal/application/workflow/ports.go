package workflow

import (
	"context"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del flujo documental atados a esa tx. El update condicional de
// estado y los asientos del libro comparten transacción: o se aplica todo el
// documento o nada.
type TxRunner interface {
	RunWorkflow(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		seqRepo repository.SequenceRepository,
		ledgerRepo repository.LedgerRepository,
		stockRepo repository.StockRepository,
	) error) error
}
