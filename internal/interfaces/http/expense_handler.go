package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/application/usecase"
)

// ExpenseHandler CRUD de gastos (protegido).
type ExpenseHandler struct {
	uc *usecase.ExpenseUseCase
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *usecase.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// Create registra un gasto.
// POST /api/expenses
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expense, err := h.uc.Create(shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(expense)
}

// List lista los gastos de la tienda.
// GET /api/expenses
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	expenses, err := h.uc.List(shopID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(expenses)
}

// Update actualiza un gasto.
// PUT /api/expenses/:id
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.ExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	expense, err := h.uc.Update(shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(expense)
}

// Delete elimina un gasto.
// DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
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
