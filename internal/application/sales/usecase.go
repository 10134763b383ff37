package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/ledger"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/docnumber"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/pricing"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// Reintentos ante colisión del constraint único sobre transactions.code.
const maxCodeRetries = 3

// Engine es el motor de checkout: calcula precios y descuentos, valida stock y
// pago, y persiste la venta con su descuento de stock en una sola transacción.
// No pasa por el flujo draft/approved: la venta descuenta el libro directamente.
type Engine struct {
	txRunner     TxRunner
	stockLedger  *ledger.Ledger
	trxRepo      repository.TransactionRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewEngine construye el motor de ventas.
func NewEngine(
	txRunner TxRunner,
	stockLedger *ledger.Ledger,
	trxRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *Engine {
	return &Engine{
		txRunner:     txRunner,
		stockLedger:  stockLedger,
		trxRepo:      trxRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CreateSale ejecuta el checkout completo:
//  1. valida entrada, tienda y productos (fuera de la tx, solo lectura)
//  2. calcula netos por línea, subtotal, descuento de transacción y total
//  3. resuelve el pago según el método (exact/cash/transfer)
//  4. pre-verifica disponibilidad de stock por línea
//  5. en una transacción: consecutivo TRX, cabecera + líneas y descuento del
//     libro por cada línea; si alguna línea pierde la carrera tras la
//     pre-verificación, la venta completa se revierte.
func (e *Engine) CreateSale(ctx context.Context, cashierID string, in dto.CreateSaleRequest) (*entity.Transaction, error) {
	if cashierID == "" || in.StoreID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentType {
	case entity.PaymentExact, entity.PaymentCash, entity.PaymentTransfer:
	default:
		return nil, domain.ErrInvalidInput
	}
	if !pricing.ValidDiscount(in.DiscountType, in.Discount) {
		return nil, domain.ErrInvalidInput
	}

	storeKey := entity.LocationKey{Type: entity.LocationTypeStore, ID: in.StoreID}
	store, err := e.locationRepo.GetByKey(storeKey)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	trx := &entity.Transaction{
		ID:           uuid.New().String(),
		CustomerName: in.CustomerName,
		DiscountType: in.DiscountType,
		Discount:     in.Discount,
		PaymentType:  in.PaymentType,
		Status:       entity.TransactionCompleted,
		CashierID:    cashierID,
		CreatedAt:    now,
	}

	subtotal := decimal.Zero
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || !pricing.ValidDiscount(item.DiscountType, item.Discount) {
			return nil, domain.ErrInvalidInput
		}
		product, err := e.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		if unitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		lineNet := pricing.LineSubtotal(unitPrice, item.Quantity, item.DiscountType, item.Discount)
		subtotal = subtotal.Add(lineNet)
		trx.Items = append(trx.Items, entity.TransactionItem{
			ID:            uuid.New().String(),
			TransactionID: trx.ID,
			ProductID:     item.ProductID,
			LocationType:  storeKey.Type,
			LocationID:    storeKey.ID,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			DiscountType:  item.DiscountType,
			Discount:      item.Discount,
			Subtotal:      lineNet,
		})
	}
	trx.Subtotal = subtotal
	trx.Total = pricing.Total(subtotal, in.DiscountType, in.Discount)

	// Resolución del pago según método
	switch in.PaymentType {
	case entity.PaymentCash:
		if in.AmountPaid.LessThan(trx.Total) {
			return nil, domain.ErrInsufficientPayment
		}
		trx.AmountPaid = in.AmountPaid
		trx.Change = in.AmountPaid.Sub(trx.Total)
	default:
		// exact y transfer se liquidan por el total, sin vueltas
		trx.AmountPaid = trx.Total
		trx.Change = decimal.Zero
	}

	// Pre-verificación de disponibilidad; la verificación autoritativa ocurre
	// bajo el bloqueo de fila dentro de la transacción
	for _, item := range trx.Items {
		available, err := e.stockLedger.GetQuantity(ctx, item.ProductID, storeKey)
		if err != nil {
			return nil, err
		}
		if available < item.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID:    item.ProductID,
				LocationType: storeKey.Type,
				LocationID:   storeKey.ID,
				Requested:    item.Quantity,
				Available:    available,
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		err := e.txRunner.RunSale(ctx, func(
			trxRepo repository.TransactionRepository,
			seqRepo repository.SequenceRepository,
			ledgerRepo repository.LedgerRepository,
			stockRepo repository.StockRepository,
		) error {
			n, err := seqRepo.Next("TRX", docnumber.GlobalPeriod)
			if err != nil {
				return err
			}
			trx.Code = docnumber.FormatTransactionCode(n)
			if err := trxRepo.Create(trx); err != nil {
				return err
			}
			for _, item := range trx.Items {
				if _, err := e.stockLedger.ApplyInTx(ledgerRepo, stockRepo, item.ProductID, storeKey, -item.Quantity, entity.ReasonSale, trx.ID, now); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			return trx, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrNumberConflict) {
			return nil, err
		}
	}
	return nil, lastErr
}

// GetTransaction carga una venta con sus líneas.
func (e *Engine) GetTransaction(ctx context.Context, id string) (*entity.Transaction, error) {
	trx, err := e.trxRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if trx == nil {
		return nil, domain.ErrNotFound
	}
	return trx, nil
}

// ListTransactions lista ventas en un rango de fechas.
func (e *Engine) ListTransactions(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	return e.trxRepo.List(from, to, limit, offset)
}
