package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura.
type InvoiceStatus string

// Estados de factura.
const (
	InvoiceAwaitingPayment InvoiceStatus = "AWAITING_PAYMENT" // creada para cobro en línea, sin liquidar
	InvoicePending         InvoiceStatus = "PENDING"
	InvoicePartiallyPaid   InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid            InvoiceStatus = "PAID"
	InvoiceCancelled       InvoiceStatus = "CANCELLED"
)

// Invoice representa la cabecera de una factura.
// TotalAmount es el neto antes de GST; el gran total es TotalAmount + TotalGST.
// Invariante tras cualquier mutación: AmountPaid + BalanceDue == TotalAmount + TotalGST,
// con BalanceDue >= 0.
type Invoice struct {
	ID               string
	ShopID           string
	CustomerID       string
	InvoiceNumber    string // único por tienda
	Status           InvoiceStatus
	TotalAmount      decimal.Decimal
	TotalGST         decimal.Decimal
	AmountPaid       decimal.Decimal
	BalanceDue       decimal.Decimal
	IssueDate        time.Time
	StockDeducted    bool // la deducción de inventario ocurre a lo sumo una vez por factura
	LastReminderSent *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GrandTotal devuelve neto + GST.
func (i *Invoice) GrandTotal() decimal.Decimal {
	return i.TotalAmount.Add(i.TotalGST)
}

// InvoiceItem es una línea de factura. Inmutable una vez persistida la factura.
// PricePerUnit ya incluye el descuento; TotalAmount = PricePerUnit*Quantity + GSTAmount.
type InvoiceItem struct {
	ID                 string
	InvoiceID          string
	ProductID          string
	ProductName        string // denormalizado por join, para PDF y reportes
	Quantity           int
	DiscountPercentage decimal.Decimal
	PricePerUnit       decimal.Decimal
	GSTAmount          decimal.Decimal
	TotalAmount        decimal.Decimal
}
