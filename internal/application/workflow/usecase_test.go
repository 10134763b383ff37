package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/apptest"
	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/ledger"
	"github.com/jhoicas/PuntoVenta-api/internal/application/workflow"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID     = "user-1"
	testApproverID = "approver-1"
)

var (
	bodegaKey = entity.LocationKey{Type: entity.LocationTypeWarehouse, ID: "bodega-1"}
	tiendaKey = entity.LocationKey{Type: entity.LocationTypeStore, ID: "tienda-1"}
)

type testEnv struct {
	store *apptest.Store
	uc    *workflow.UseCase
}

// newEnv arma el caso de uso completo sobre fakes en memoria, con un producto,
// una bodega y una tienda sembrados.
func newEnv() *testEnv {
	store := apptest.NewStore()
	store.AddProduct(&entity.Product{ID: "prod-1", SKU: "SKU-1", Name: "Producto 1"})
	store.AddLocation(&entity.Location{ID: "bodega-1", Type: entity.LocationTypeWarehouse, Name: "Bodega Central"})
	store.AddLocation(&entity.Location{ID: "tienda-1", Type: entity.LocationTypeStore, Name: "Tienda Norte"})

	txRunner := &apptest.TxRunner{S: store}
	stockLedger := ledger.New(txRunner, &apptest.StockRepo{S: store}, &apptest.LedgerRepo{S: store})
	uc := workflow.NewUseCase(
		txRunner,
		stockLedger,
		&apptest.DocumentRepo{S: store},
		&apptest.ProductRepo{S: store},
		&apptest.LocationRepo{S: store},
	)
	return &testEnv{store: store, uc: uc}
}

// seedStock deja cantidad inicial en la vista materializada sin pasar por el libro.
func (e *testEnv) seedStock(productID string, key entity.LocationKey, qty int64) {
	repo := &apptest.StockRepo{S: e.store}
	_ = repo.Upsert(&entity.LocationStock{
		ProductID:    productID,
		LocationType: key.Type,
		LocationID:   key.ID,
		Quantity:     qty,
		UpdatedAt:    time.Now(),
	})
}

func receiptRequest(qty int64) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		Kind:            entity.DocumentKindGoodsReceipt,
		DestinationType: entity.LocationTypeWarehouse,
		DestinationID:   "bodega-1",
		Items:           []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: qty}},
	}
}

func deliveryRequest(qty int64) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		Kind:            entity.DocumentKindDeliveryNote,
		SourceType:      entity.LocationTypeWarehouse,
		SourceID:        "bodega-1",
		DestinationType: entity.LocationTypeStore,
		DestinationID:   "tienda-1",
		Items:           []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: qty}},
	}
}

func adjustmentRequest(adjType string, qty int64) dto.CreateDocumentRequest {
	return dto.CreateDocumentRequest{
		Kind:            entity.DocumentKindAdjustment,
		DestinationType: entity.LocationTypeStore,
		DestinationID:   "tienda-1",
		AdjustmentType:  adjType,
		Items:           []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: qty}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDocument_RecepcionEnDraftConConsecutivo(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	doc, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(100))
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusDraft, doc.Status, "todo documento nace en draft")
	assert.True(t, strings.HasPrefix(doc.Number, "PN-"), "la recepción usa prefijo PN, dio %s", doc.Number)
	assert.True(t, strings.HasSuffix(doc.Number, "-0001"), "primer consecutivo del mes, dio %s", doc.Number)

	// Crear no toca el stock: el efecto ocurre solo al aprobar
	assert.Equal(t, int64(0), env.store.StockQty("prod-1", bodegaKey))
	assert.Empty(t, env.store.Entries, "crear en draft no genera asientos")
}

func TestCreateDocument_ConsecutivosSinHuecosPorTipo(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	d1, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(10))
	require.NoError(t, err)
	d2, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(20))
	require.NoError(t, err)
	d3, err := env.uc.CreateDocument(ctx, testUserID, deliveryRequest(5))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(d1.Number, "-0001"))
	assert.True(t, strings.HasSuffix(d2.Number, "-0002"), "mismo prefijo avanza el mismo contador")
	assert.True(t, strings.HasPrefix(d3.Number, "SJ-"))
	assert.True(t, strings.HasSuffix(d3.Number, "-0001"), "cada prefijo tiene su propio contador")
	assert.NotEqual(t, d1.Number, d2.Number)
}

func TestCreateDocument_NumeracionConcurrenteSinRepetidos(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	// N creaciones simultáneas del mismo tipo: N consecutivos distintos
	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(1))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers[doc.Number] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, n, "cada documento debe recibir un consecutivo distinto")
}

func TestCreateDocument_Validaciones(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateDocumentRequest
		want error
	}{
		{"sin items", dto.CreateDocumentRequest{Kind: entity.DocumentKindGoodsReceipt, DestinationType: entity.LocationTypeWarehouse, DestinationID: "bodega-1"}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateDocumentRequest{Kind: entity.DocumentKindGoodsReceipt, DestinationType: entity.LocationTypeWarehouse, DestinationID: "bodega-1", Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: 0}}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateDocumentRequest{Kind: entity.DocumentKindGoodsReceipt, DestinationType: entity.LocationTypeWarehouse, DestinationID: "bodega-1", Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-x", Quantity: 1}}}, domain.ErrNotFound},
		{"recepción hacia tienda", dto.CreateDocumentRequest{Kind: entity.DocumentKindGoodsReceipt, DestinationType: entity.LocationTypeStore, DestinationID: "tienda-1", Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: 1}}}, domain.ErrInvalidInput},
		{"traslado con origen y destino iguales", dto.CreateDocumentRequest{Kind: entity.DocumentKindDeliveryNote, SourceType: entity.LocationTypeWarehouse, SourceID: "bodega-1", DestinationType: entity.LocationTypeWarehouse, DestinationID: "bodega-1", Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: 1}}}, domain.ErrInvalidInput},
		{"ajuste sin dirección", dto.CreateDocumentRequest{Kind: entity.DocumentKindAdjustment, DestinationType: entity.LocationTypeStore, DestinationID: "tienda-1", Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: 1}}}, domain.ErrInvalidInput},
		{"ajuste hacia bodega", dto.CreateDocumentRequest{Kind: entity.DocumentKindAdjustment, DestinationType: entity.LocationTypeWarehouse, DestinationID: "bodega-1", AdjustmentType: entity.AdjustmentIncrease, Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: 1}}}, domain.ErrInvalidInput},
		{"tipo desconocido", dto.CreateDocumentRequest{Kind: "factura", Items: []dto.CreateDocumentItemRequest{{ProductID: "prod-1", Quantity: 1}}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.uc.CreateDocument(ctx, testUserID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación: efectos en el libro exactamente una vez
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_RecepcionSumaStock(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	doc, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(100))
	require.NoError(t, err)

	approved, err := env.uc.Approve(ctx, doc.ID, testApproverID)
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusApproved, approved.Status)
	assert.Equal(t, testApproverID, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, int64(100), env.store.StockQty("prod-1", bodegaKey))

	ledgerRepo := &apptest.LedgerRepo{S: env.store}
	entries, err := ledgerRepo.ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonReceipt, entries[0].Reason)
	assert.Equal(t, int64(100), entries[0].Delta)
}

func TestApprove_TrasladoConservaElTotal(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	env.seedStock("prod-1", bodegaKey, 100)

	doc, err := env.uc.CreateDocument(ctx, testUserID, deliveryRequest(30))
	require.NoError(t, err)

	_, err = env.uc.Approve(ctx, doc.ID, testApproverID)
	require.NoError(t, err)

	assert.Equal(t, int64(70), env.store.StockQty("prod-1", bodegaKey))
	assert.Equal(t, int64(30), env.store.StockQty("prod-1", tiendaKey))

	// El traslado genera un par de asientos espejo por línea
	ledgerRepo := &apptest.LedgerRepo{S: env.store}
	entries, err := ledgerRepo.ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	var suma int64
	for _, e := range entries {
		suma += e.Delta
	}
	assert.Equal(t, int64(0), suma, "la salida y la entrada del traslado deben cancelarse")
}

func TestApprove_AjusteDecrease(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	env.seedStock("prod-1", tiendaKey, 50)

	doc, err := env.uc.CreateDocument(ctx, testUserID, adjustmentRequest(entity.AdjustmentDecrease, 8))
	require.NoError(t, err)

	_, err = env.uc.Approve(ctx, doc.ID, testApproverID)
	require.NoError(t, err)

	assert.Equal(t, int64(42), env.store.StockQty("prod-1", tiendaKey))

	ledgerRepo := &apptest.LedgerRepo{S: env.store}
	entries, err := ledgerRepo.ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-8), entries[0].Delta, "decrease aplica la magnitud con signo negativo")
	assert.Equal(t, entity.ReasonAdjustment, entries[0].Reason)
}

func TestApprove_DobleAprobacionEsIdempotente(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	doc, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(100))
	require.NoError(t, err)

	_, err = env.uc.Approve(ctx, doc.ID, testApproverID)
	require.NoError(t, err)

	// El segundo Approve no es error: devuelve el estado ya resuelto
	again, err := env.uc.Approve(ctx, doc.ID, "otro-aprobador")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusApproved, again.Status)
	assert.Equal(t, testApproverID, again.ApprovedBy, "el primer aprobador queda registrado")

	// Y sobre todo: no duplica el efecto en el libro
	assert.Equal(t, int64(100), env.store.StockQty("prod-1", bodegaKey))
	ledgerRepo := &apptest.LedgerRepo{S: env.store}
	entries, err := ledgerRepo.ListByDocument(doc.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "los asientos se aplican exactamente una vez")
}

func TestApprove_StockInsuficienteRevierteTodo(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	env.seedStock("prod-1", bodegaKey, 10)

	doc, err := env.uc.CreateDocument(ctx, testUserID, deliveryRequest(30))
	require.NoError(t, err)

	_, err = env.uc.Approve(ctx, doc.ID, testApproverID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	// Rollback completo: el documento sigue en draft y el stock intacto
	stored, err := env.uc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusDraft, stored.Status, "la transición fallida no debe persistir")
	assert.Empty(t, stored.ApprovedBy)
	assert.Equal(t, int64(10), env.store.StockQty("prod-1", bodegaKey))
	assert.Equal(t, int64(0), env.store.StockQty("prod-1", tiendaKey))

	ledgerRepo := &apptest.LedgerRepo{S: env.store}
	entries, err := ledgerRepo.ListByDocument(doc.ID)
	require.NoError(t, err)
	assert.Empty(t, entries, "ningún asiento parcial sobrevive al rollback")
}

func TestApprove_DocumentoInexistente(t *testing.T) {
	env := newEnv()
	_, err := env.uc.Approve(context.Background(), "no-existe", testApproverID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazo: solo ajustes, sin efecto en el libro
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_AjusteSinEfectoEnStock(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	env.seedStock("prod-1", tiendaKey, 50)

	doc, err := env.uc.CreateDocument(ctx, testUserID, adjustmentRequest(entity.AdjustmentDecrease, 8))
	require.NoError(t, err)

	rejected, err := env.uc.Reject(ctx, doc.ID, testApproverID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusRejected, rejected.Status)
	assert.Equal(t, testApproverID, rejected.ApprovedBy, "el rechazo registra quién resolvió la solicitud")
	assert.Equal(t, int64(50), env.store.StockQty("prod-1", tiendaKey), "rechazar no toca el stock")
	assert.Empty(t, env.store.Entries)
}

func TestReject_EsIdempotente(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	doc, err := env.uc.CreateDocument(ctx, testUserID, adjustmentRequest(entity.AdjustmentIncrease, 3))
	require.NoError(t, err)

	_, err = env.uc.Reject(ctx, doc.ID, testApproverID)
	require.NoError(t, err)

	again, err := env.uc.Reject(ctx, doc.ID, "otro-aprobador")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusRejected, again.Status)
}

func TestReject_SoloAplicaAAjustes(t *testing.T) {
	env := newEnv()
	ctx := context.Background()

	doc, err := env.uc.CreateDocument(ctx, testUserID, receiptRequest(10))
	require.NoError(t, err)

	_, err = env.uc.Reject(ctx, doc.ID, testApproverID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "las recepciones y traslados no se rechazan")
}

func TestReject_TrasAprobarDevuelveEstadoActual(t *testing.T) {
	env := newEnv()
	ctx := context.Background()
	env.seedStock("prod-1", tiendaKey, 50)

	doc, err := env.uc.CreateDocument(ctx, testUserID, adjustmentRequest(entity.AdjustmentDecrease, 5))
	require.NoError(t, err)

	_, err = env.uc.Approve(ctx, doc.ID, testApproverID)
	require.NoError(t, err)

	// Rechazar un documento ya aprobado es un no-op con el estado almacenado
	result, err := env.uc.Reject(ctx, doc.ID, "otro-aprobador")
	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusApproved, result.Status)
	assert.Equal(t, int64(45), env.store.StockQty("prod-1", tiendaKey), "el efecto de la aprobación se mantiene")
}
