package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/apptest"
	"github.com/jhoicas/PuntoVenta-api/internal/application/catalog"
	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

func newUseCase() (*catalog.UseCase, *apptest.Store) {
	store := apptest.NewStore()
	uc := catalog.NewUseCase(
		&apptest.ProductRepo{S: store},
		&apptest.LocationRepo{S: store},
	)
	return uc, store
}

func TestCreateProduct_Valido(t *testing.T) {
	uc, store := newUseCase()

	product, err := uc.CreateProduct(context.Background(), dto.CreateProductRequest{
		SKU:   "SKU-1",
		Name:  "Producto 1",
		Price: decimal.NewFromInt(1000),
		Cost:  decimal.NewFromInt(600),
		Unit:  "pcs",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.NotNil(t, store.Products[product.ID])
}

func TestCreateProduct_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin SKU", dto.CreateProductRequest{Name: "Producto", Price: decimal.NewFromInt(100)}},
		{"sin nombre", dto.CreateProductRequest{SKU: "SKU-1", Price: decimal.NewFromInt(100)}},
		{"precio negativo", dto.CreateProductRequest{SKU: "SKU-1", Name: "Producto", Price: decimal.NewFromInt(-1)}},
		{"costo negativo", dto.CreateProductRequest{SKU: "SKU-1", Name: "Producto", Cost: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateLocation_Validaciones(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateLocationRequest
	}{
		{"sin nombre", dto.CreateLocationRequest{Type: entity.LocationTypeWarehouse}},
		{"tipo desconocido", dto.CreateLocationRequest{Type: "sucursal", Name: "Norte"}},
		{"sin tipo", dto.CreateLocationRequest{Name: "Norte"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateLocation(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateLocation_BodegaYTienda(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	bodega, err := uc.CreateLocation(ctx, dto.CreateLocationRequest{Type: entity.LocationTypeWarehouse, Name: "Bodega Central"})
	require.NoError(t, err)
	assert.Equal(t, entity.LocationTypeWarehouse, bodega.Type)

	tienda, err := uc.CreateLocation(ctx, dto.CreateLocationRequest{Type: entity.LocationTypeStore, Name: "Tienda Norte"})
	require.NoError(t, err)
	assert.Equal(t, entity.LocationTypeStore, tienda.Type)
}

func TestGetProduct_NoEncontrado(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.GetProduct(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLocations_TipoInvalido(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.ListLocations(context.Background(), "sucursal", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
