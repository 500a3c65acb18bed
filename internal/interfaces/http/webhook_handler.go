package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/application/dto"
)

// WebhookHandler recibe notificaciones de la pasarela de pagos (público,
// autenticado por firma HMAC, no por JWT).
type WebhookHandler struct {
	uc *billing.InvoiceUseCase
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(uc *billing.InvoiceUseCase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// Razorpay procesa el webhook payment_link.paid. Eventos desconocidos,
// facturas no encontradas y pagos duplicados responden 200 para que la
// pasarela no reintente.
// POST /api/webhooks/razorpay
func (h *WebhookHandler) Razorpay(c *fiber.Ctx) error {
	signature := c.Get("X-Razorpay-Signature")
	if signature == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "firma requerida"})
	}
	if err := h.uc.ReconcileGatewayWebhook(c.Context(), c.Body(), signature); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
