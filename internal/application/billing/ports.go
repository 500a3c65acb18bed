package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

// BillingRepos agrupa los repositorios atados a una misma transacción.
type BillingRepos struct {
	Invoices  repository.InvoiceRepository
	Payments  repository.PaymentRepository
	Products  repository.ProductRepository
	Customers repository.CustomerRepository
	Credits   repository.CustomerCreditRepository
	Quotes    repository.QuoteRepository
}

// TxRunner ejecuta fn dentro de una transacción única que cubre facturas,
// pagos, crédito del cliente y stock. Si fn retorna error se hace rollback:
// no hay estados intermedios (pago registrado sin débito de crédito, etc.).
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(r BillingRepos) error) error
}

// Notifier puerto de notificaciones salientes. Los bytes del PDF llegan ya
// renderizados. Un fallo de envío nunca revierte estado financiero confirmado.
type Notifier interface {
	SendInvoiceEmail(ctx context.Context, toEmail string, invoice *entity.Invoice, pdf []byte) error
	SendReceiptEmail(ctx context.Context, toEmail string, invoice *entity.Invoice, pdf []byte) error
	SendPaymentReminder(ctx context.Context, toEmail string, invoice *entity.Invoice) error
}

// PaymentGateway puerto de la pasarela de cobros en línea.
type PaymentGateway interface {
	// CreatePaymentLink genera una URL de cobro por el monto indicado.
	CreatePaymentLink(ctx context.Context, invoice *entity.Invoice, customer *entity.Customer, amount decimal.Decimal) (string, error)
	// VerifyWebhookSignature valida la firma HMAC del webhook entrante.
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// InvoicePDFRenderer puerto de representación gráfica de la factura.
type InvoicePDFRenderer interface {
	RenderInvoice(shop *entity.Shop, customer *entity.Customer, invoice *entity.Invoice, items []*entity.InvoiceItem) ([]byte, error)
}
