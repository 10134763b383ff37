package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// UseCase es el CRUD administrativo de catálogo: productos y ubicaciones.
// El motor de ventas y el flujo documental validan contra estas entidades.
type UseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(productRepo repository.ProductRepository, locationRepo repository.LocationRepository) *UseCase {
	return &UseCase{productRepo: productRepo, locationRepo: locationRepo}
}

// CreateProduct valida y persiste un producto nuevo.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      in.Name,
		Price:     in.Price,
		Cost:      in.Cost,
		Unit:      in.Unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct obtiene un producto por ID.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts lista productos paginados.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}

// CreateLocation valida y persiste una bodega o tienda.
func (uc *UseCase) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*entity.Location, error) {
	if in.Name == "" || !entity.ValidLocationType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

// GetLocation obtiene una ubicación por ID.
func (uc *UseCase) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return location, nil
}

// ListLocations lista ubicaciones, opcionalmente filtradas por tipo.
func (uc *UseCase) ListLocations(ctx context.Context, locationType string, limit, offset int) ([]*entity.Location, error) {
	if locationType != "" && !entity.ValidLocationType(locationType) {
		return nil, domain.ErrInvalidInput
	}
	return uc.locationRepo.List(locationType, limit, offset)
}
