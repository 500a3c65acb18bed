package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/application/usecase"
)

// ProductHandler CRUD de productos y categorías (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create crea un producto. El GST lo hereda de su categoría.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetByID obtiene un producto.
// GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	product, err := h.uc.GetByID(shopID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(product)
}

// List lista los productos de la tienda.
// GET /api/products?limit=&offset=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pagination(c)
	products, err := h.uc.List(shopID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(products)
}

// Update actualiza un producto.
// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Update(shopID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(product)
}

// Delete elimina un producto.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
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

// CreateCategory crea una categoría con su porcentaje GST.
// POST /api/products/categories
func (h *ProductHandler) CreateCategory(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	category, err := h.uc.CreateCategory(shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories lista las categorías de la tienda.
// GET /api/products/categories
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	categories, err := h.uc.ListCategories(shopID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(categories)
}
