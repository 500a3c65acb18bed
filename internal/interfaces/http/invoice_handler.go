package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create crea una factura, liquida pago inicial/crédito y descuenta inventario.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.CreateInvoice(c.Context(), shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID obtiene el detalle completo de una factura (líneas + pagos).
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	invoice, err := h.uc.GetInvoice(c.Context(), shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// List lista las facturas de la tienda, más recientes primero.
// GET /api/invoices?limit=&offset=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pagination(c)
	invoices, err := h.uc.ListInvoices(c.Context(), shopID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoices)
}

// RecordPayment registra un pago contra una factura y re-liquida su saldo.
// POST /api/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.RecordPayment(c.Context(), shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// UpdateStatus cambia manualmente el estado de una factura.
// PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.UpdateStatus(c.Context(), shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(invoice)
}

// CreatePaymentLink genera un link de cobro Razorpay por el saldo pendiente.
// POST /api/invoices/:id/payment-link
func (h *InvoiceHandler) CreatePaymentLink(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	link, err := h.uc.CreatePaymentLink(c.Context(), shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(link)
}

// Email envía la factura en PDF al email del cliente.
// POST /api/invoices/:id/email
func (h *InvoiceHandler) Email(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	// Verifica pertenencia a la tienda antes de enviar.
	if _, err := h.uc.GetInvoice(c.Context(), shopID, id); err != nil {
		return domainError(c, err)
	}
	if err := h.uc.EmailInvoice(c.Context(), id); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"sent": true})
}

// pagination lee limit/offset del query string con defaults razonables.
func pagination(c *fiber.Ctx) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
