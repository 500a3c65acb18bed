package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemRequest línea solicitada para factura, cotización o plantilla
// recurrente: producto, cantidad y descuento. El precio lo resuelve el sistema.
type DocumentItemRequest struct {
	ProductID          string          `json:"product_id"`
	Quantity           int             `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// CreateInvoiceRequest petición de creación de factura.
// Cliente: exactamente uno de CustomerID o NewCustomerName (+ contacto).
type CreateInvoiceRequest struct {
	CustomerID       string                `json:"customer_id"`
	NewCustomerName  string                `json:"new_customer_name"`
	NewCustomerPhone string                `json:"new_customer_phone"`
	NewCustomerEmail string                `json:"new_customer_email"`
	Items            []DocumentItemRequest `json:"items"`
	Status           string                `json:"status"` // PENDING | PARTIALLY_PAID | PAID | AWAITING_PAYMENT
	PaymentMethod    string                `json:"payment_method"`
	InitialAmount    decimal.Decimal       `json:"initial_amount_paid"`
	ApplyCredit      bool                  `json:"apply_credit"`
}

// Elecciones ante un sobrepago.
const (
	OverpaymentCredit = "CREDIT"
	OverpaymentRefund = "REFUND"
)

// RecordPaymentRequest petición de registro de pago contra una factura.
type RecordPaymentRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethod     string          `json:"payment_method"`
	OverpaymentChoice string          `json:"overpayment_choice"` // CREDIT | REFUND (default)
	SendReceipt       bool            `json:"send_receipt"`
}

// UpdateInvoiceStatusRequest override manual de estado.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// PaymentResponse una línea del libro de pagos.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          string          `json:"kind"`
	PaymentMethod string          `json:"payment_method"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// InvoiceItemResponse línea de factura.
type InvoiceItemResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	Quantity           int             `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	PricePerUnit       decimal.Decimal `json:"price_per_unit"`
	GSTAmount          decimal.Decimal `json:"gst_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

// InvoiceSummaryResponse fila de listado de facturas.
type InvoiceSummaryResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	IssueDate     time.Time       `json:"issue_date"`
}

// InvoiceDetailResponse factura completa con líneas y pagos.
type InvoiceDetailResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	Status        string                `json:"status"`
	TotalAmount   decimal.Decimal       `json:"total_amount"` // neto antes de GST
	TotalGST      decimal.Decimal       `json:"total_gst"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	BalanceDue    decimal.Decimal       `json:"balance_due"`
	IssueDate     time.Time             `json:"issue_date"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
}

// PaymentLinkResponse URL de cobro generada por la pasarela.
type PaymentLinkResponse struct {
	URL string `json:"url"`
}
