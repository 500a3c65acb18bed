package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus estado de una cotización.
type QuoteStatus string

// Estados de cotización. CONVERTED es terminal e irreversible.
const (
	QuoteDraft     QuoteStatus = "DRAFT"
	QuoteSent      QuoteStatus = "SENT"
	QuoteAccepted  QuoteStatus = "ACCEPTED"
	QuoteConverted QuoteStatus = "CONVERTED"
)

// Quote tiene la misma forma que Invoice pero sin pagos ni stock.
// ConvertedInvoiceID enlaza (en un solo sentido) la factura generada.
type Quote struct {
	ID                 string
	ShopID             string
	CustomerID         string
	QuoteNumber        string
	Status             QuoteStatus
	TotalAmount        decimal.Decimal
	TotalGST           decimal.Decimal
	IssueDate          time.Time
	ConvertedInvoiceID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// GrandTotal devuelve neto + GST.
func (q *Quote) GrandTotal() decimal.Decimal {
	return q.TotalAmount.Add(q.TotalGST)
}

// QuoteItem línea de cotización; al convertir se copia tal cual a InvoiceItem
// (los precios quedan congelados al momento de cotizar).
type QuoteItem struct {
	ID                 string
	QuoteID            string
	ProductID          string
	ProductName        string
	Quantity           int
	DiscountPercentage decimal.Decimal
	PricePerUnit       decimal.Decimal
	GSTAmount          decimal.Decimal
	TotalAmount        decimal.Decimal
}
