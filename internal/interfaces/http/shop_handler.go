package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/application/usecase"
)

// ShopHandler datos y configuración de la tienda (protegido).
type ShopHandler struct {
	uc *usecase.ShopUseCase
}

// NewShopHandler construye el handler.
func NewShopHandler(uc *usecase.ShopUseCase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

// Get obtiene la tienda del usuario autenticado.
// GET /api/shops/me
func (h *ShopHandler) Get(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	shop, err := h.uc.Get(shopID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(shop)
}

// UpdateSettings actualiza nombre, dirección, GSTIN y plantilla de factura.
// PUT /api/shops/me
func (h *ShopHandler) UpdateSettings(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ShopSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shop, err := h.uc.UpdateSettings(shopID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(shop)
}
