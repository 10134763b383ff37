package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/sales"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// SaleHandler maneja las peticiones HTTP del checkout (protegido).
type SaleHandler struct {
	engine *sales.Engine
}

// NewSaleHandler construye el handler.
func NewSaleHandler(engine *sales.Engine) *SaleHandler {
	return &SaleHandler{engine: engine}
}

// Create godoc
// @Summary      Registrar una venta (checkout)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "store_id, payment_type, items, descuentos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	cashierID := GetUserID(c)
	if cashierID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	trx, err := h.engine.CreateSale(c.Context(), cashierID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(trx))
}

// GetByID godoc
// @Summary      Obtener una venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	trx, err := h.engine.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toSaleResponse(trx))
}

// List godoc
// @Summary      Listar ventas (rango de fechas opcional)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
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
	list, err := h.engine.ListTransactions(c.Context(), from, to, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, trx := range list {
		out = append(out, toSaleResponse(trx))
	}
	return c.JSON(out)
}

func toSaleResponse(trx *entity.Transaction) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:           trx.ID,
		Code:         trx.Code,
		CustomerName: trx.CustomerName,
		Subtotal:     trx.Subtotal,
		Discount:     trx.Discount,
		Total:        trx.Total,
		PaymentType:  trx.PaymentType,
		AmountPaid:   trx.AmountPaid,
		Change:       trx.Change,
		Status:       trx.Status,
		CashierID:    trx.CashierID,
		CreatedAt:    trx.CreatedAt,
		Items:        make([]dto.SaleItemResponse, 0, len(trx.Items)),
	}
	for _, item := range trx.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal,
		})
	}
	return resp
}
