package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/ledger"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/docnumber"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// Reintentos ante colisión del constraint único sobre documents.number.
// El contador transaccional hace que en la práctica no ocurra; el constraint
// es el respaldo.
const maxNumberRetries = 3

// UseCase maneja el ciclo de vida documental: creación en draft, aprobación
// (draft -> approved, con efecto en el libro exactamente una vez) y rechazo
// (draft -> rejected, solo ajustes, sin efecto en el libro).
type UseCase struct {
	txRunner     TxRunner
	stockLedger  *ledger.Ledger
	docRepo      repository.DocumentRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso del flujo documental.
// docRepo, productRepo y locationRepo van atados al pool (lecturas/validación);
// las mutaciones pasan por txRunner.
func NewUseCase(
	txRunner TxRunner,
	stockLedger *ledger.Ledger,
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		stockLedger:  stockLedger,
		docRepo:      docRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// CreateDocument valida la entrada, asigna el consecutivo PREFIX-YYYYMM-NNNN
// desde el contador transaccional y persiste cabecera + líneas en draft,
// todo en una transacción.
func (uc *UseCase) CreateDocument(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*entity.Document, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateCreate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	doc := &entity.Document{
		ID:              uuid.New().String(),
		Kind:            in.Kind,
		Status:          entity.DocumentStatusDraft,
		SourceType:      in.SourceType,
		SourceID:        in.SourceID,
		DestinationType: in.DestinationType,
		DestinationID:   in.DestinationID,
		AdjustmentType:  in.AdjustmentType,
		Date:            date,
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
	}
	for _, item := range in.Items {
		doc.Items = append(doc.Items, entity.DocumentItem{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
		})
	}

	prefix := entity.NumberPrefix(doc.Kind)
	var lastErr error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		err := uc.txRunner.RunWorkflow(ctx, func(
			docRepo repository.DocumentRepository,
			seqRepo repository.SequenceRepository,
			_ repository.LedgerRepository,
			_ repository.StockRepository,
		) error {
			n, err := seqRepo.Next(prefix, docnumber.Period(now))
			if err != nil {
				return err
			}
			doc.Number = docnumber.Format(prefix, now, n)
			return docRepo.Create(doc)
		})
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrNumberConflict) {
			return nil, err
		}
		// Colisión transitoria de consecutivo: se reintenta con uno nuevo
	}
	return nil, lastErr
}

// validateCreate rechaza entradas malformadas antes de abrir cualquier transacción.
func (uc *UseCase) validateCreate(in dto.CreateDocumentRequest) error {
	if len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
	}

	switch in.Kind {
	case entity.DocumentKindGoodsReceipt:
		if in.AdjustmentType != "" || in.SourceID != "" {
			return domain.ErrInvalidInput
		}
		return uc.requireLocation(in.DestinationType, in.DestinationID, entity.LocationTypeWarehouse)
	case entity.DocumentKindDeliveryNote:
		if in.AdjustmentType != "" {
			return domain.ErrInvalidInput
		}
		if err := uc.requireLocation(in.SourceType, in.SourceID, entity.LocationTypeWarehouse); err != nil {
			return err
		}
		if !entity.ValidLocationType(in.DestinationType) {
			return domain.ErrInvalidInput
		}
		if in.SourceType == in.DestinationType && in.SourceID == in.DestinationID {
			return domain.ErrInvalidInput
		}
		return uc.requireLocation(in.DestinationType, in.DestinationID, in.DestinationType)
	case entity.DocumentKindAdjustment:
		if in.AdjustmentType != entity.AdjustmentIncrease && in.AdjustmentType != entity.AdjustmentDecrease {
			return domain.ErrInvalidInput
		}
		if in.SourceID != "" {
			return domain.ErrInvalidInput
		}
		return uc.requireLocation(in.DestinationType, in.DestinationID, entity.LocationTypeStore)
	}
	return domain.ErrInvalidInput
}

// requireLocation verifica que la ubicación exista y sea del tipo esperado.
func (uc *UseCase) requireLocation(locType, locID, wantType string) error {
	if locType != wantType || locID == "" {
		return domain.ErrInvalidInput
	}
	loc, err := uc.locationRepo.GetByKey(entity.LocationKey{Type: locType, ID: locID})
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}

// Approve intenta la transición draft -> approved y, si gana la compuerta
// condicional, aplica el efecto del documento en el libro dentro de la misma
// transacción. Si otro caller ya resolvió el documento, retorna el estado
// almacenado sin error y sin re-aplicar asientos (idempotencia).
func (uc *UseCase) Approve(ctx context.Context, documentID, approverID string) (*entity.Document, error) {
	if documentID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Document
	err := uc.txRunner.RunWorkflow(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.SequenceRepository,
		ledgerRepo repository.LedgerRepository,
		stockRepo repository.StockRepository,
	) error {
		rows, err := docRepo.UpdateStatus(documentID, entity.DocumentStatusDraft, entity.DocumentStatusApproved, approverID)
		if err != nil {
			return err
		}
		doc, err := docRepo.GetByID(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		result = doc
		if rows == 0 {
			// Otro caller ya lo aprobó o rechazó: estado actual, sin efectos nuevos
			return nil
		}
		if err := uc.postEffects(ledgerRepo, stockRepo, doc); err != nil {
			// Rollback: el estado vuelve a draft y ningún asiento parcial sobrevive
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// postEffects aplica los asientos del libro según el tipo de documento.
// Se ejecuta exactamente una vez por documento: solo cuando la compuerta
// condicional draft -> approved cambió la fila.
func (uc *UseCase) postEffects(
	ledgerRepo repository.LedgerRepository,
	stockRepo repository.StockRepository,
	doc *entity.Document,
) error {
	now := time.Now()
	dest := entity.LocationKey{Type: doc.DestinationType, ID: doc.DestinationID}
	switch doc.Kind {
	case entity.DocumentKindGoodsReceipt:
		for _, item := range doc.Items {
			if _, err := uc.stockLedger.ApplyInTx(ledgerRepo, stockRepo, item.ProductID, dest, item.Quantity, entity.ReasonReceipt, doc.ID, now); err != nil {
				return err
			}
		}
	case entity.DocumentKindDeliveryNote:
		src := entity.LocationKey{Type: doc.SourceType, ID: doc.SourceID}
		for _, item := range doc.Items {
			if _, err := uc.stockLedger.ApplyInTx(ledgerRepo, stockRepo, item.ProductID, src, -item.Quantity, entity.ReasonTransferOut, doc.ID, now); err != nil {
				return err
			}
			if _, err := uc.stockLedger.ApplyInTx(ledgerRepo, stockRepo, item.ProductID, dest, item.Quantity, entity.ReasonTransferIn, doc.ID, now); err != nil {
				return err
			}
		}
	case entity.DocumentKindAdjustment:
		for _, item := range doc.Items {
			delta := item.Quantity
			if doc.AdjustmentType == entity.AdjustmentDecrease {
				delta = -delta
			}
			if _, err := uc.stockLedger.ApplyInTx(ledgerRepo, stockRepo, item.ProductID, dest, delta, entity.ReasonAdjustment, doc.ID, now); err != nil {
				return err
			}
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// Reject rechaza una solicitud de ajuste (draft -> rejected) sin efecto en el
// libro. Rechazar un documento que ya no está en draft es un no-op que retorna
// el estado actual, igual que en Approve.
func (uc *UseCase) Reject(ctx context.Context, documentID, approverID string) (*entity.Document, error) {
	if documentID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.Document
	err := uc.txRunner.RunWorkflow(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.SequenceRepository,
		_ repository.LedgerRepository,
		_ repository.StockRepository,
	) error {
		doc, err := docRepo.GetByID(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Kind != entity.DocumentKindAdjustment {
			return domain.ErrInvalidInput
		}
		if _, err := docRepo.UpdateStatus(documentID, entity.DocumentStatusDraft, entity.DocumentStatusRejected, approverID); err != nil {
			return err
		}
		result, err = docRepo.GetByID(documentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetDocument carga un documento con sus líneas.
func (uc *UseCase) GetDocument(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// ListDocuments lista documentos filtrando por tipo y estado (vacío = todos).
func (uc *UseCase) ListDocuments(ctx context.Context, kind, status string, limit, offset int) ([]*entity.Document, error) {
	return uc.docRepo.List(kind, status, limit, offset)
}
