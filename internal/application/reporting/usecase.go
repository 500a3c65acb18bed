// Package reporting expone los reportes financieros de la tienda. Son
// consultas de solo lectura sobre el libro de pagos y las facturas; nunca
// mutan estado.
package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

// UseCase casos de uso de reportes.
type UseCase struct {
	repo        repository.ReportingRepository
	expenseRepo repository.ExpenseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ReportingRepository, expenseRepo repository.ExpenseRepository) *UseCase {
	return &UseCase{repo: repo, expenseRepo: expenseRepo}
}

// PaymentSummary total cobrado por método de pago en el período.
func (uc *UseCase) PaymentSummary(ctx context.Context, shopID string, start, end time.Time) ([]*dto.PaymentSummaryResponse, error) {
	if err := validRange(start, end); err != nil {
		return nil, err
	}
	rows, err := uc.repo.PaymentSummaryByMethod(ctx, shopID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.PaymentSummaryResponse{PaymentMethod: r.Method, Total: r.Total})
	}
	return out, nil
}

// RevenueByCustomer ingresos netos por cliente en el período.
func (uc *UseCase) RevenueByCustomer(ctx context.Context, shopID string, start, end time.Time) ([]*dto.RevenueByCustomerResponse, error) {
	if err := validRange(start, end); err != nil {
		return nil, err
	}
	rows, err := uc.repo.RevenueByCustomer(ctx, shopID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RevenueByCustomerResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.RevenueByCustomerResponse{CustomerName: r.CustomerName, Revenue: r.Revenue})
	}
	return out, nil
}

// SalesByProduct unidades e ingresos por producto (facturas PAID) en el período.
func (uc *UseCase) SalesByProduct(ctx context.Context, shopID string, start, end time.Time) ([]*dto.SalesByProductResponse, error) {
	if err := validRange(start, end); err != nil {
		return nil, err
	}
	rows, err := uc.repo.SalesByProduct(ctx, shopID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SalesByProductResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.SalesByProductResponse{ProductName: r.ProductName, UnitsSold: r.UnitsSold, Revenue: r.Revenue})
	}
	return out, nil
}

// ProfitAndLoss estado de resultados: ingresos (pagos netos de devoluciones),
// costo de lo vendido sobre facturas PAID, gastos del período.
func (uc *UseCase) ProfitAndLoss(ctx context.Context, shopID string, start, end time.Time) (*dto.ProfitAndLossResponse, error) {
	if err := validRange(start, end); err != nil {
		return nil, err
	}
	revenue, err := uc.repo.SumRevenue(ctx, shopID, start, end)
	if err != nil {
		return nil, err
	}
	cogs, err := uc.repo.SumCOGS(ctx, shopID, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := uc.expenseRepo.SumByShopAndDateRange(shopID, start, end)
	if err != nil {
		return nil, err
	}
	gross := revenue.Sub(cogs)
	return &dto.ProfitAndLossResponse{
		TotalRevenue:    revenue,
		CostOfGoodsSold: cogs,
		GrossProfit:     gross,
		TotalExpenses:   expenses,
		NetProfit:       gross.Sub(expenses),
	}, nil
}

// Dashboard resumen global de la tienda: ingresos reconocidos en proporción a
// lo cobrado, GST por pagar de facturas PAID y conteos por estado. Sin rango
// de fechas: cubre toda la historia de la tienda.
func (uc *UseCase) Dashboard(ctx context.Context, shopID string) (*dto.DashboardStatsResponse, error) {
	rows, err := uc.repo.ListInvoiceFinancials(ctx, shopID)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsResponse{
		TotalRevenue:    decimal.Zero,
		TotalGSTPayable: decimal.Zero,
	}
	for _, r := range rows {
		switch entity.InvoiceStatus(r.Status) {
		case entity.InvoicePaid:
			stats.InvoicesPaid++
			stats.TotalRevenue = stats.TotalRevenue.Add(recognizedRevenue(r))
			stats.TotalGSTPayable = stats.TotalGSTPayable.Add(r.TotalGST)
		case entity.InvoicePending:
			stats.InvoicesDue++
		case entity.InvoicePartiallyPaid:
			stats.InvoicesPartiallyPaid++
			stats.TotalRevenue = stats.TotalRevenue.Add(recognizedRevenue(r))
		}
	}
	return stats, nil
}

// recognizedRevenue reparte el monto base de la factura en proporción a lo
// cobrado: totalAmount × (amountPaid / total con GST), ratio a 4 decimales.
func recognizedRevenue(r repository.InvoiceFinancials) decimal.Decimal {
	grand := r.TotalAmount.Add(r.TotalGST)
	if !grand.IsPositive() {
		return decimal.Zero
	}
	ratio := r.AmountPaid.Div(grand).Round(4)
	return r.TotalAmount.Mul(ratio)
}

func validRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return domain.ErrInvalidInput
	}
	return nil
}
