package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/pkg/jwt"
)

// Locals keys para UserID y ShopID en Fiber.
const (
	LocalUserID = "user_id"
	LocalShopID = "shop_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y ShopID a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, shopID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalShopID, shopID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetShopID devuelve el ShopID del contexto (después del middleware de auth).
func GetShopID(c *fiber.Ctx) string {
	v := c.Locals(LocalShopID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
