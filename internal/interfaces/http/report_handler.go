package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/application/reporting"
)

// ReportHandler reportes financieros de la tienda (protegido).
type ReportHandler struct {
	uc *reporting.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// dateRange lee start/end (YYYY-MM-DD) del query string. Sin parámetros
// el rango es el mes en curso. End se extiende al final del día.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := now
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

// PaymentSummary total cobrado por método de pago en el rango.
// GET /api/reports/payment-summary?start=&end=
func (h *ReportHandler) PaymentSummary(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	start, end, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	out, err := h.uc.PaymentSummary(c.Context(), shopID, start, end)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// RevenueByCustomer ingresos por cliente en el rango.
// GET /api/reports/revenue-by-customer?start=&end=
func (h *ReportHandler) RevenueByCustomer(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	start, end, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	out, err := h.uc.RevenueByCustomer(c.Context(), shopID, start, end)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// SalesByProduct unidades e ingresos por producto (facturas PAID).
// GET /api/reports/sales-by-product?start=&end=
func (h *ReportHandler) SalesByProduct(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	start, end, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	out, err := h.uc.SalesByProduct(c.Context(), shopID, start, end)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Dashboard resumen financiero global de la tienda (sin rango de fechas).
// GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.Dashboard(c.Context(), shopID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ProfitAndLoss estado de resultados del período.
// GET /api/reports/profit-and-loss?start=&end=
func (h *ReportHandler) ProfitAndLoss(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	start, end, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	out, err := h.uc.ProfitAndLoss(c.Context(), shopID, start, end)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
