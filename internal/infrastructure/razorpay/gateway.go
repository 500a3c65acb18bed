// Package razorpay implementa la pasarela de cobros en línea.
package razorpay

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"

	appbilling "github.com/invogen/billing-api/internal/application/billing"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/pkg/config"
)

var _ appbilling.PaymentGateway = (*Gateway)(nil)

// Gateway implementa billing.PaymentGateway sobre la API de Razorpay.
type Gateway struct {
	client        *razorpay.Client
	webhookSecret string
}

// NewGateway construye la pasarela.
func NewGateway(cfg config.RazorpayConfig) *Gateway {
	return &Gateway{
		client:        razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreatePaymentLink genera un payment link por el monto indicado. El monto
// viaja en paise (subunidad); reference_id enlaza el link con la factura para
// la conciliación del webhook.
func (g *Gateway) CreatePaymentLink(ctx context.Context, invoice *entity.Invoice, customer *entity.Customer, amount decimal.Decimal) (string, error) {
	paise := amount.Mul(decimal.NewFromInt(100)).IntPart()
	data := map[string]interface{}{
		"amount":       paise,
		"currency":     "INR",
		"reference_id": invoice.ID,
		"description":  fmt.Sprintf("Factura %s", invoice.InvoiceNumber),
		"customer": map[string]interface{}{
			"name":    customer.Name,
			"email":   customer.Email,
			"contact": customer.Phone,
		},
		"notify": map[string]interface{}{
			"sms":   customer.Phone != "",
			"email": customer.Email != "",
		},
	}
	link, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay: crear payment link: %w", err)
	}
	url, ok := link["short_url"].(string)
	if !ok || url == "" {
		return "", fmt.Errorf("razorpay: respuesta sin short_url")
	}
	return url, nil
}

// VerifyWebhookSignature valida la firma HMAC-SHA256 del webhook entrante.
func (g *Gateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	if g.webhookSecret == "" || signature == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(payload), signature, g.webhookSecret)
}
