package dto

import "github.com/shopspring/decimal"

// PaymentSummaryResponse total cobrado por método de pago.
type PaymentSummaryResponse struct {
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
}

// RevenueByCustomerResponse ingresos por cliente.
type RevenueByCustomerResponse struct {
	CustomerName string          `json:"customer_name"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SalesByProductResponse unidades e ingresos por producto (facturas PAID).
type SalesByProductResponse struct {
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// DashboardStatsResponse resumen financiero global de la tienda.
type DashboardStatsResponse struct {
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalGSTPayable       decimal.Decimal `json:"total_gst_payable"`
	InvoicesPaid          int64           `json:"invoices_paid"`
	InvoicesDue           int64           `json:"invoices_due"`
	InvoicesPartiallyPaid int64           `json:"invoices_partially_paid"`
}

// ProfitAndLossResponse estado de resultados del período.
type ProfitAndLossResponse struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	CostOfGoodsSold decimal.Decimal `json:"cost_of_goods_sold"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
}
