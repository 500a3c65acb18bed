package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/domain/repository"
)

var _ repository.ReportingRepository = (*ReportingRepo)(nil)

// ReportingRepo consultas de agregación para reportes financieros. Solo
// lectura; corre sobre el pool, nunca dentro de una tx de facturación.
type ReportingRepo struct {
	q Querier
}

// NewReportingRepository construye el adaptador.
func NewReportingRepository(q Querier) *ReportingRepo {
	return &ReportingRepo{q: q}
}

// PaymentSummaryByMethod total cobrado por método de pago en el período.
// Las devoluciones (monto negativo) restan del método correspondiente.
func (r *ReportingRepo) PaymentSummaryByMethod(ctx context.Context, shopID string, start, end time.Time) ([]repository.PaymentMethodSummary, error) {
	query := `
		SELECT p.method, SUM(p.amount) AS total
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.shop_id = $1 AND p.payment_date >= $2 AND p.payment_date <= $3
		GROUP BY p.method
		ORDER BY total DESC`
	rows, err := r.q.Query(ctx, query, shopID, start, end)
	if err != nil {
		return nil, fmt.Errorf("payment summary: %w", err)
	}
	defer rows.Close()

	var out []repository.PaymentMethodSummary
	for rows.Next() {
		var s repository.PaymentMethodSummary
		if err := rows.Scan(&s.Method, &s.Total); err != nil {
			return nil, fmt.Errorf("scan payment summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RevenueByCustomer ingresos netos (pagos) por cliente en el período.
func (r *ReportingRepo) RevenueByCustomer(ctx context.Context, shopID string, start, end time.Time) ([]repository.CustomerRevenue, error) {
	query := `
		SELECT c.name, SUM(p.amount) AS revenue
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		JOIN customers c ON c.id = i.customer_id
		WHERE i.shop_id = $1 AND p.payment_date >= $2 AND p.payment_date <= $3
		GROUP BY c.name
		ORDER BY revenue DESC`
	rows, err := r.q.Query(ctx, query, shopID, start, end)
	if err != nil {
		return nil, fmt.Errorf("revenue by customer: %w", err)
	}
	defer rows.Close()

	var out []repository.CustomerRevenue
	for rows.Next() {
		var c repository.CustomerRevenue
		if err := rows.Scan(&c.CustomerName, &c.Revenue); err != nil {
			return nil, fmt.Errorf("scan customer revenue: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SalesByProduct unidades e ingresos por producto sobre facturas PAID del período.
func (r *ReportingRepo) SalesByProduct(ctx context.Context, shopID string, start, end time.Time) ([]repository.ProductSales, error) {
	query := `
		SELECT ii.product_name, SUM(ii.quantity) AS units, SUM(ii.total_amount) AS revenue
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.shop_id = $1 AND i.status = 'PAID'
		  AND i.issue_date >= $2 AND i.issue_date <= $3
		GROUP BY ii.product_name
		ORDER BY revenue DESC`
	rows, err := r.q.Query(ctx, query, shopID, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales by product: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductSales
	for rows.Next() {
		var p repository.ProductSales
		if err := rows.Scan(&p.ProductName, &p.UnitsSold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumRevenue suma todos los pagos del período (las devoluciones son montos
// negativos, así que la suma ya es neta).
func (r *ReportingRepo) SumRevenue(ctx context.Context, shopID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.shop_id = $1 AND p.payment_date >= $2 AND p.payment_date <= $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, shopID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

// ListInvoiceFinancials estado y montos de todas las facturas de la tienda.
func (r *ReportingRepo) ListInvoiceFinancials(ctx context.Context, shopID string) ([]repository.InvoiceFinancials, error) {
	query := `
		SELECT status, total_amount, total_gst, amount_paid
		FROM invoices
		WHERE shop_id = $1`
	rows, err := r.q.Query(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("invoice financials: %w", err)
	}
	defer rows.Close()

	var out []repository.InvoiceFinancials
	for rows.Next() {
		var f repository.InvoiceFinancials
		if err := rows.Scan(&f.Status, &f.TotalAmount, &f.TotalGST, &f.AmountPaid); err != nil {
			return nil, fmt.Errorf("scan invoice financials: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// SumCOGS costo de lo vendido (cantidad × costo actual del producto) sobre
// facturas PAID del período.
func (r *ReportingRepo) SumCOGS(ctx context.Context, shopID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(ii.quantity * pr.cost_price), 0)
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		JOIN products pr ON pr.id = ii.product_id
		WHERE i.shop_id = $1 AND i.status = 'PAID'
		  AND i.issue_date >= $2 AND i.issue_date <= $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, shopID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum cogs: %w", err)
	}
	return total, nil
}
