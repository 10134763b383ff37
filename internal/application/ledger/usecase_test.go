package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/apptest"
	"github.com/jhoicas/PuntoVenta-api/internal/application/ledger"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

func newLedger(store *apptest.Store) *ledger.Ledger {
	return ledger.New(
		&apptest.TxRunner{S: store},
		&apptest.StockRepo{S: store},
		&apptest.LedgerRepo{S: store},
	)
}

var bodega = entity.LocationKey{Type: entity.LocationTypeWarehouse, ID: "bodega-1"}

func TestAdjust_EntradaYSalida(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)
	ctx := context.Background()

	qty, err := lib.Adjust(ctx, "prod-1", bodega, 100, entity.ReasonReceipt, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), qty)

	qty, err = lib.Adjust(ctx, "prod-1", bodega, -30, entity.ReasonSale, "trx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), qty)

	// La vista materializada refleja la suma de los asientos
	current, err := lib.GetQuantity(ctx, "prod-1", bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(70), current)
}

func TestAdjust_NuncaNegativo(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)
	ctx := context.Background()

	_, err := lib.Adjust(ctx, "prod-1", bodega, 10, entity.ReasonReceipt, "doc-1")
	require.NoError(t, err)

	// Sacar más de lo disponible debe fallar sin tocar el estado
	_, err = lib.Adjust(ctx, "prod-1", bodega, -11, entity.ReasonSale, "trx-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "debe envolver ErrInsufficientStock")

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "el error debe ser tipado con el detalle")
	assert.Equal(t, int64(11), stockErr.Requested)
	assert.Equal(t, int64(10), stockErr.Available)

	qty, err := lib.GetQuantity(ctx, "prod-1", bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(10), qty, "un ajuste rechazado no altera la cantidad")
}

func TestAdjust_DeltaCeroInvalido(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)

	_, err := lib.Adjust(context.Background(), "prod-1", bodega, 0, entity.ReasonAdjustment, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetQuantity_LlaveDesconocidaEsCero(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)

	qty, err := lib.GetQuantity(context.Background(), "prod-inexistente", bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

func TestLedger_SumaDeAsientosIgualAVista(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)
	ctx := context.Background()

	deltas := []int64{50, -20, 15, -5}
	for _, d := range deltas {
		reason := entity.ReasonReceipt
		if d < 0 {
			reason = entity.ReasonSale
		}
		_, err := lib.Adjust(ctx, "prod-1", bodega, d, reason, "")
		require.NoError(t, err)
	}

	ledgerRepo := &apptest.LedgerRepo{S: store}
	sum, err := ledgerRepo.SumByKey("prod-1", bodega)
	require.NoError(t, err)

	qty, err := lib.GetQuantity(ctx, "prod-1", bodega)
	require.NoError(t, err)
	assert.Equal(t, sum, qty, "la vista materializada debe igualar la suma del libro")
	assert.Equal(t, int64(40), qty)
}

func TestAdjust_PrimerasEscriturasConcurrentes(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)
	ctx := context.Background()

	// Varias primeras entradas simultáneas sobre una llave que aún no tiene
	// fila materializada: ninguna escritura puede perderse
	const escritores = 8
	var wg sync.WaitGroup
	for i := 0; i < escritores; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lib.Adjust(ctx, "prod-1", bodega, 100, entity.ReasonReceipt, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	qty, err := lib.GetQuantity(ctx, "prod-1", bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(escritores*100), qty, "cada entrada concurrente debe quedar aplicada")

	sum, err := (&apptest.LedgerRepo{S: store}).SumByKey("prod-1", bodega)
	require.NoError(t, err)
	assert.Equal(t, sum, qty, "la vista materializada debe igualar la suma del libro")
}

func TestAdjust_SalidasConcurrentesNuncaNegativo(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)
	ctx := context.Background()

	_, err := lib.Adjust(ctx, "prod-1", bodega, 10, entity.ReasonReceipt, "")
	require.NoError(t, err)

	// 20 salidas de 1 contra 10 disponibles: exactamente 10 ganan
	const intentos = 20
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		exitos int
	)
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lib.Adjust(ctx, "prod-1", bodega, -1, entity.ReasonSale, "")
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				return
			}
			mu.Lock()
			exitos++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, exitos, "solo salen las unidades disponibles")
	qty, err := lib.GetQuantity(ctx, "prod-1", bodega)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty, "la cantidad nunca baja de cero bajo concurrencia")
}

func TestEntriesByDocument_FiltraPorOrigen(t *testing.T) {
	store := apptest.NewStore()
	lib := newLedger(store)
	ctx := context.Background()

	_, err := lib.Adjust(ctx, "prod-1", bodega, 10, entity.ReasonReceipt, "doc-A")
	require.NoError(t, err)
	_, err = lib.Adjust(ctx, "prod-1", bodega, 5, entity.ReasonReceipt, "doc-B")
	require.NoError(t, err)

	entries, err := lib.EntriesByDocument(ctx, "doc-A")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10), entries[0].Delta)
	assert.Equal(t, "doc-A", entries[0].DocumentID)
}
