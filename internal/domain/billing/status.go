package billing

import "github.com/invogen/billing-api/internal/domain/entity"

// Tabla de transiciones de factura: estado actual → estados destino válidos.
// PAID y CANCELLED son terminales respecto a la deducción automática de stock;
// un override manual puede regresarlas a PENDING/CANCELLED y el recálculo se
// hace desde el libro de pagos, sin tocar stock.
var invoiceTransitions = map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceAwaitingPayment: {entity.InvoicePending, entity.InvoicePartiallyPaid, entity.InvoicePaid, entity.InvoiceCancelled},
	entity.InvoicePending:         {entity.InvoicePartiallyPaid, entity.InvoicePaid, entity.InvoiceCancelled},
	entity.InvoicePartiallyPaid:   {entity.InvoicePending, entity.InvoicePaid, entity.InvoiceCancelled},
	entity.InvoicePaid:            {entity.InvoicePending, entity.InvoiceCancelled},
	entity.InvoiceCancelled:       {entity.InvoicePending},
}

// Tabla de transiciones de cotización: solo hacia adelante, CONVERTED terminal.
var quoteTransitions = map[entity.QuoteStatus][]entity.QuoteStatus{
	entity.QuoteDraft:     {entity.QuoteSent, entity.QuoteAccepted, entity.QuoteConverted},
	entity.QuoteSent:      {entity.QuoteAccepted, entity.QuoteConverted},
	entity.QuoteAccepted:  {entity.QuoteConverted},
	entity.QuoteConverted: {},
}

// CanTransitionInvoice indica si el cambio de estado de factura es legal.
func CanTransitionInvoice(from, to entity.InvoiceStatus) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionQuote indica si el cambio de estado de cotización es legal.
func CanTransitionQuote(from, to entity.QuoteStatus) bool {
	for _, s := range quoteTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidInvoiceStatus valida un estado de factura recibido como texto.
func ValidInvoiceStatus(s entity.InvoiceStatus) bool {
	switch s {
	case entity.InvoiceAwaitingPayment, entity.InvoicePending, entity.InvoicePartiallyPaid,
		entity.InvoicePaid, entity.InvoiceCancelled:
		return true
	}
	return false
}

// ValidQuoteStatus valida un estado de cotización recibido como texto.
func ValidQuoteStatus(s entity.QuoteStatus) bool {
	switch s {
	case entity.QuoteDraft, entity.QuoteSent, entity.QuoteAccepted, entity.QuoteConverted:
		return true
	}
	return false
}
