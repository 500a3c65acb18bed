package repository

import (
	"time"

	"github.com/invogen/billing-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// La cabecera se persiste antes que las líneas (identidad durable primero).
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	// Update actualiza estado, montos acumulados y fecha de recordatorio.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (SELECT FOR UPDATE):
	// serializa liquidaciones concurrentes (webhook vs captura manual).
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	ListByShop(shopID string, limit, offset int) ([]*entity.Invoice, error)
	// FindForReminder devuelve facturas PENDING/PARTIALLY_PAID emitidas antes
	// de cutoff cuyo último recordatorio es nulo o anterior a cutoff.
	FindForReminder(cutoff time.Time) ([]*entity.Invoice, error)
}

// PaymentRepository define el puerto del libro de pagos (append-only: sin
// Update ni Delete). Invoice.AmountPaid se re-deriva de ListByInvoice.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	GetByID(id string) (*entity.Payment, error)
	ListByInvoice(invoiceID string) ([]*entity.Payment, error)
}
