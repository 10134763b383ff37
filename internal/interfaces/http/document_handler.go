package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/workflow"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// DocumentHandler maneja las peticiones HTTP del flujo documental (protegido).
type DocumentHandler struct {
	uc *workflow.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *workflow.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear documento en draft (recepción, traslado o ajuste)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "kind, ubicaciones según tipo, items"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.CreateDocument(c.Context(), userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(doc))
}

// Approve godoc
// @Summary      Aprobar documento (draft -> approved, efecto en el libro exactamente una vez)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	approverID := GetUserID(c)
	if approverID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := h.uc.Approve(c.Context(), c.Params("id"), approverID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toDocumentResponse(doc))
}

// Reject godoc
// @Summary      Rechazar solicitud de ajuste (draft -> rejected, sin efecto en el libro)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	approverID := GetUserID(c)
	if approverID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := h.uc.Reject(c.Context(), c.Params("id"), approverID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toDocumentResponse(doc))
}

// GetByID godoc
// @Summary      Obtener documento con sus líneas
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetDocument(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toDocumentResponse(doc))
}

// List godoc
// @Summary      Listar documentos (filtros kind y status)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        kind    query  string  false  "goods_receipt | delivery_note | adjustment"
// @Param        status  query  string  false  "draft | approved | rejected"
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	docs, err := h.uc.ListDocuments(c.Context(), c.Query("kind"), c.Query("status"), limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc))
	}
	return c.JSON(out)
}

func toDocumentResponse(doc *entity.Document) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:              doc.ID,
		Kind:            doc.Kind,
		Number:          doc.Number,
		Status:          doc.Status,
		SourceType:      doc.SourceType,
		SourceID:        doc.SourceID,
		DestinationType: doc.DestinationType,
		DestinationID:   doc.DestinationID,
		AdjustmentType:  doc.AdjustmentType,
		Date:            doc.Date,
		Notes:           doc.Notes,
		CreatedBy:       doc.CreatedBy,
		CreatedAt:       doc.CreatedAt,
		ApprovedBy:      doc.ApprovedBy,
		ApprovedAt:      doc.ApprovedAt,
		Items:           make([]dto.DocumentItemResponse, 0, len(doc.Items)),
	}
	for _, item := range doc.Items {
		resp.Items = append(resp.Items, dto.DocumentItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return resp
}
