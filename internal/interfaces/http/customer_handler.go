package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/application/usecase"
)

// CustomerHandler CRUD de clientes (protegido).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create crea un cliente.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	customer, err := h.uc.Create(shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID obtiene un cliente con su saldo a favor.
// GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	customer, err := h.uc.GetByID(shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(customer)
}

// List lista los clientes de la tienda.
// GET /api/customers?limit=&offset=
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pagination(c)
	customers, err := h.uc.List(shopID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(customers)
}

// Update actualiza los datos de contacto de un cliente.
// PUT /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	customer, err := h.uc.Update(shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(customer)
}

// Delete elimina un cliente.
// DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := h.uc.Delete(shopID, id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
