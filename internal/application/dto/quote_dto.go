package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuoteRequest petición de creación de cotización. Misma regla de
// cliente que CreateInvoiceRequest.
type CreateQuoteRequest struct {
	CustomerID       string                `json:"customer_id"`
	NewCustomerName  string                `json:"new_customer_name"`
	NewCustomerPhone string                `json:"new_customer_phone"`
	NewCustomerEmail string                `json:"new_customer_email"`
	Items            []DocumentItemRequest `json:"items"`
}

// UpdateQuoteStatusRequest cambio de estado de cotización.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status"`
}

// QuoteSummaryResponse fila de listado de cotizaciones.
type QuoteSummaryResponse struct {
	ID           string          `json:"id"`
	QuoteNumber  string          `json:"quote_number"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	IssueDate    time.Time       `json:"issue_date"`
}

// QuoteDetailResponse cotización completa con líneas.
type QuoteDetailResponse struct {
	ID                 string                `json:"id"`
	QuoteNumber        string                `json:"quote_number"`
	CustomerID         string                `json:"customer_id"`
	CustomerName       string                `json:"customer_name"`
	Status             string                `json:"status"`
	TotalAmount        decimal.Decimal       `json:"total_amount"`
	TotalGST           decimal.Decimal       `json:"total_gst"`
	GrandTotal         decimal.Decimal       `json:"grand_total"`
	IssueDate          time.Time             `json:"issue_date"`
	ConvertedInvoiceID *string               `json:"converted_invoice_id,omitempty"`
	Items              []InvoiceItemResponse `json:"items"`
}
