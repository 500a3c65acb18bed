package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/application/dto"
)

// RecurringHandler CRUD de perfiles de facturación recurrente (protegido).
type RecurringHandler struct {
	uc *billing.RecurringUseCase
}

// NewRecurringHandler construye el handler.
func NewRecurringHandler(uc *billing.RecurringUseCase) *RecurringHandler {
	return &RecurringHandler{uc: uc}
}

// Create crea un perfil recurrente con su cursor en StartDate.
// POST /api/recurring-invoices
func (h *RecurringHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecurringInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	profile, err := h.uc.Create(c.Context(), shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// GetByID obtiene un perfil recurrente.
// GET /api/recurring-invoices/:id
func (h *RecurringHandler) GetByID(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	profile, err := h.uc.Get(c.Context(), shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(profile)
}

// List lista los perfiles recurrentes de la tienda.
// GET /api/recurring-invoices
func (h *RecurringHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	profiles, err := h.uc.List(c.Context(), shopID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(profiles)
}

// Update actualiza un perfil recurrente. El cursor nunca retrocede.
// PUT /api/recurring-invoices/:id
func (h *RecurringHandler) Update(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.RecurringInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	profile, err := h.uc.Update(c.Context(), shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(profile)
}

// Delete elimina un perfil recurrente (las facturas ya emitidas quedan).
// DELETE /api/recurring-invoices/:id
func (h *RecurringHandler) Delete(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := h.uc.Delete(c.Context(), shopID, id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
