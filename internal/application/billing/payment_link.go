package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
)

// CreatePaymentLink genera una URL de cobro en línea por el saldo pendiente
// de la factura. Requiere que la tienda tenga cobros en línea habilitados.
func (uc *InvoiceUseCase) CreatePaymentLink(ctx context.Context, shopID, invoiceID string) (*dto.PaymentLinkResponse, error) {
	shop, err := uc.shopRepo.GetByID(shopID)
	if err != nil || shop == nil {
		return nil, domain.ErrNotFound
	}
	if !shop.PaymentsEnabled {
		return nil, domain.ErrConflict
	}
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	switch inv.Status {
	case entity.InvoicePaid:
		return nil, domain.ErrAlreadyPaid
	case entity.InvoiceCancelled:
		return nil, domain.ErrConflict
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	amount := inv.BalanceDue
	if inv.Status == entity.InvoiceAwaitingPayment {
		amount = inv.GrandTotal()
	}
	url, err := uc.gateway.CreatePaymentLink(ctx, inv, customer, amount)
	if err != nil {
		return nil, fmt.Errorf("crear link de pago: %w", err)
	}
	uc.log.Info().Str("invoice", inv.InvoiceNumber).Msg("link de pago generado")
	return &dto.PaymentLinkResponse{URL: url}, nil
}

// gatewayWebhookEvent forma mínima del evento payment_link.paid de Razorpay.
// Los montos vienen en la subunidad de la moneda (paise).
type gatewayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID          string `json:"id"`
				ReferenceID string `json:"reference_id"`
			} `json:"entity"`
		} `json:"payment_link"`
		Payment struct {
			Entity struct {
				ID     string `json:"id"`
				Amount int64  `json:"amount"`
				Method string `json:"method"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ReconcileGatewayWebhook procesa la notificación de la pasarela: verifica la
// firma y registra el pago como una liquidación normal (kind ONLINE). Es
// tolerante a reintentos: un pago sobre factura ya pagada se confirma sin
// reaplicar. Un sobrepago desde la pasarela se devuelve, nunca se acredita.
func (uc *InvoiceUseCase) ReconcileGatewayWebhook(ctx context.Context, payload []byte, signature string) error {
	if !uc.gateway.VerifyWebhookSignature(payload, signature) {
		return domain.ErrUnauthorized
	}
	var event gatewayWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.ErrInvalidInput
	}
	if event.Event != "payment_link.paid" {
		uc.log.Debug().Str("event", event.Event).Msg("evento de pasarela ignorado")
		return nil
	}
	invoiceID := event.Payload.PaymentLink.Entity.ReferenceID
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		uc.log.Warn().Str("reference_id", invoiceID).Msg("webhook para factura desconocida")
		return nil
	}
	amount := decimal.NewFromInt(event.Payload.Payment.Entity.Amount).Div(decimal.NewFromInt(100))

	_, err = uc.recordPayment(ctx, inv.ShopID, inv.ID, amount, entity.PaymentKindOnline, entity.MethodRazorpay, dto.OverpaymentRefund)
	if errors.Is(err, domain.ErrAlreadyPaid) {
		// Reintento de la pasarela sobre un pago ya conciliado.
		uc.log.Info().Str("invoice", inv.InvoiceNumber).Str("payment", event.Payload.Payment.Entity.ID).Msg("webhook duplicado, factura ya pagada")
		return nil
	}
	if err != nil {
		return err
	}
	uc.log.Info().Str("invoice", inv.InvoiceNumber).Str("payment", event.Payload.Payment.Entity.ID).Msg("pago en línea conciliado")
	return nil
}
