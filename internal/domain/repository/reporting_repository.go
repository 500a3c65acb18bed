package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodSummary total cobrado por método de pago en el período.
type PaymentMethodSummary struct {
	Method string
	Total  decimal.Decimal
}

// CustomerRevenue ingresos netos (pagos) por cliente en el período.
type CustomerRevenue struct {
	CustomerName string
	Revenue      decimal.Decimal
}

// ProductSales unidades e ingresos por producto sobre facturas PAID.
type ProductSales struct {
	ProductName string
	UnitsSold   int64
	Revenue     decimal.Decimal
}

// InvoiceFinancials posición financiera de una factura (fila del dashboard).
type InvoiceFinancials struct {
	Status      string
	TotalAmount decimal.Decimal
	TotalGST    decimal.Decimal
	AmountPaid  decimal.Decimal
}

// ReportingRepository consultas de solo lectura para reportes financieros.
type ReportingRepository interface {
	PaymentSummaryByMethod(ctx context.Context, shopID string, start, end time.Time) ([]PaymentMethodSummary, error)
	RevenueByCustomer(ctx context.Context, shopID string, start, end time.Time) ([]CustomerRevenue, error)
	SalesByProduct(ctx context.Context, shopID string, start, end time.Time) ([]ProductSales, error)
	// SumRevenue suma todos los pagos del período (netos de devoluciones).
	SumRevenue(ctx context.Context, shopID string, start, end time.Time) (decimal.Decimal, error)
	// SumCOGS: costo de lo vendido (qty × costo) sobre facturas PAID del período.
	SumCOGS(ctx context.Context, shopID string, start, end time.Time) (decimal.Decimal, error)
	// ListInvoiceFinancials devuelve estado y montos de todas las facturas de
	// la tienda, sin líneas ni pagos (insumo del dashboard).
	ListInvoiceFinancials(ctx context.Context, shopID string) ([]InvoiceFinancials, error)
}
