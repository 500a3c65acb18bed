package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/application/dto"
)

// QuoteHandler maneja las peticiones HTTP de cotizaciones (protegido).
type QuoteHandler struct {
	uc *billing.QuoteUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *billing.QuoteUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Create crea una cotización en estado DRAFT (sin tocar inventario).
// POST /api/quotes
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	quote, err := h.uc.CreateQuote(c.Context(), shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// GetByID obtiene el detalle de una cotización.
// GET /api/quotes/:id
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	quote, err := h.uc.GetQuote(c.Context(), shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(quote)
}

// List lista las cotizaciones de la tienda.
// GET /api/quotes?limit=&offset=
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pagination(c)
	quotes, err := h.uc.ListQuotes(c.Context(), shopID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(quotes)
}

// UpdateStatus cambia el estado de una cotización (DRAFT/SENT/ACCEPTED).
// PATCH /api/quotes/:id/status
func (h *QuoteHandler) UpdateStatus(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.UpdateQuoteStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	quote, err := h.uc.UpdateStatus(c.Context(), shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(quote)
}

// Convert convierte la cotización en una factura PENDING (una sola vez).
// POST /api/quotes/:id/convert
func (h *QuoteHandler) Convert(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	invoice, err := h.uc.ConvertToInvoice(c.Context(), shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}
