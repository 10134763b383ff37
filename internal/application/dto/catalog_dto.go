package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto (CRUD administrativo).
type CreateProductRequest struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Unit  string          `json:"unit"`
}

// ProductResponse representación externa de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateLocationRequest alta de bodega o tienda.
type CreateLocationRequest struct {
	Type    string `json:"type"` // warehouse | store
	Name    string `json:"name"`
	Address string `json:"address"`
}

// LocationResponse representación externa de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StockResponse lectura de la vista materializada de stock.
type StockResponse struct {
	ProductID    string `json:"product_id"`
	LocationType string `json:"location_type"`
	LocationID   string `json:"location_id"`
	Quantity     int64  `json:"quantity"`
}

// LedgerEntryResponse asiento del libro de stock en respuestas.
type LedgerEntryResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	LocationType string    `json:"location_type"`
	LocationID   string    `json:"location_id"`
	Delta        int64     `json:"delta"`
	Reason       string    `json:"reason"`
	DocumentID   string    `json:"document_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
