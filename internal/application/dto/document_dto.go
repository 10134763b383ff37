package dto

import "time"

// CreateDocumentItemRequest línea de un documento nuevo. Quantity siempre positiva.
type CreateDocumentItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateDocumentRequest entrada para crear un documento en draft.
// Según kind:
//   - goods_receipt: destination_type/destination_id (bodega que recibe)
//   - delivery_note: source_type/source_id (bodega) y destination_type/destination_id (bodega o tienda)
//   - adjustment: destination_type/destination_id (tienda) y adjustment_type (increase|decrease)
type CreateDocumentRequest struct {
	Kind            string                      `json:"kind"`
	SourceType      string                      `json:"source_type"`
	SourceID        string                      `json:"source_id"`
	DestinationType string                      `json:"destination_type"`
	DestinationID   string                      `json:"destination_id"`
	AdjustmentType  string                      `json:"adjustment_type"`
	Date            *time.Time                  `json:"date"`
	Notes           string                      `json:"notes"`
	Items           []CreateDocumentItemRequest `json:"items"`
}

// DocumentItemResponse línea de documento en respuestas.
type DocumentItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// DocumentResponse representación externa de un documento.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	Kind            string                 `json:"kind"`
	Number          string                 `json:"number"`
	Status          string                 `json:"status"`
	SourceType      string                 `json:"source_type,omitempty"`
	SourceID        string                 `json:"source_id,omitempty"`
	DestinationType string                 `json:"destination_type"`
	DestinationID   string                 `json:"destination_id"`
	AdjustmentType  string                 `json:"adjustment_type,omitempty"`
	Date            time.Time              `json:"date"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       time.Time              `json:"created_at"`
	ApprovedBy      string                 `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	Items           []DocumentItemResponse `json:"items"`
}
