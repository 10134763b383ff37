package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/ledger"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// StockHandler expone las lecturas del libro de stock y la vista materializada (protegido).
type StockHandler struct {
	stockLedger *ledger.Ledger
}

// NewStockHandler construye el handler.
func NewStockHandler(stockLedger *ledger.Ledger) *StockHandler {
	return &StockHandler{stockLedger: stockLedger}
}

// GetQuantity godoc
// @Summary      Stock actual de un producto en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  true  "ID del producto"
// @Param        location_type  query  string  true  "warehouse | store"
// @Param        location_id    query  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) GetQuantity(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	locationType := c.Query("location_type")
	locationID := c.Query("location_id")
	if productID == "" || locationID == "" || !entity.ValidLocationType(locationType) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, location_type y location_id son obligatorios"})
	}
	qty, err := h.stockLedger.GetQuantity(c.Context(), productID, entity.LocationKey{Type: locationType, ID: locationID})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.StockResponse{
		ProductID:    productID,
		LocationType: locationType,
		LocationID:   locationID,
		Quantity:     qty,
	})
}

// ListLedger godoc
// @Summary      Asientos del libro de stock por producto o documento
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "asientos del producto (con from/to opcionales)"
// @Param        document_id  query  string  false  "asientos generados por un documento o venta"
// @Success      200  {array}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/ledger [get]
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	if documentID := c.Query("document_id"); documentID != "" {
		entries, err := h.stockLedger.EntriesByDocument(c.Context(), documentID)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(toLedgerResponses(entries))
	}
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id o document_id es obligatorio"})
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		to = &t
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	entries, err := h.stockLedger.EntriesByProduct(c.Context(), productID, from, to, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toLedgerResponses(entries))
}

func toLedgerResponses(entries []*entity.StockLedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:           e.ID,
			ProductID:    e.ProductID,
			LocationType: e.LocationType,
			LocationID:   e.LocationID,
			Delta:        e.Delta,
			Reason:       e.Reason,
			DocumentID:   e.DocumentID,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
