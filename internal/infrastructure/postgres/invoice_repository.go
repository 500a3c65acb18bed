package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, shop_id, customer_id, invoice_number, status,
	total_amount, total_gst, amount_paid, balance_due, issue_date,
	stock_deducted, last_reminder_sent, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.ShopID, invoice.CustomerID, invoice.InvoiceNumber, invoice.Status,
		invoice.TotalAmount, invoice.TotalGST, invoice.AmountPaid, invoice.BalanceDue, invoice.IssueDate,
		invoice.StockDeducted, invoice.LastReminderSent, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, product_name, quantity, discount_percentage, price_per_unit, gst_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.ProductName, item.Quantity,
		item.DiscountPercentage, item.PricePerUnit, item.GSTAmount, item.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// Update actualiza la posición financiera y el estado de la factura.
// Las líneas son inmutables; solo muta la cabecera.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status             = $2,
		    amount_paid        = $3,
		    balance_due        = $4,
		    stock_deducted     = $5,
		    last_reminder_sent = $6,
		    updated_at         = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, invoice.AmountPaid, invoice.BalanceDue,
		invoice.StockDeducted, invoice.LastReminderSent, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene la factura bloqueando la fila (SELECT FOR UPDATE).
// Serializa liquidaciones concurrentes: webhook y registro manual sobre la
// misma factura no intercalan su recálculo de saldo.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *InvoiceRepo) scanOne(query string, args ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&inv.ID, &inv.ShopID, &inv.CustomerID, &inv.InvoiceNumber, &inv.Status,
		&inv.TotalAmount, &inv.TotalGST, &inv.AmountPaid, &inv.BalanceDue, &inv.IssueDate,
		&inv.StockDeducted, &inv.LastReminderSent, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItemsByInvoiceID devuelve las líneas de la factura.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, quantity, discount_percentage, price_per_unit, gst_amount, total_amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.DiscountPercentage, &it.PricePerUnit, &it.GSTAmount, &it.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByShop lista las facturas de la tienda, más recientes primero.
func (r *InvoiceRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices WHERE shop_id = $1
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	return r.scanMany(query, shopID, limit, offset)
}

// FindForReminder devuelve facturas PENDING/PARTIALLY_PAID emitidas antes de
// cutoff y sin recordatorio reciente (anterior al mismo cutoff o nunca).
func (r *InvoiceRepo) FindForReminder(cutoff time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE status IN ('PENDING', 'PARTIALLY_PAID')
		  AND issue_date <= $1
		  AND (last_reminder_sent IS NULL OR last_reminder_sent <= $1)
		ORDER BY issue_date`
	return r.scanMany(query, cutoff)
}

func (r *InvoiceRepo) scanMany(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.ShopID, &inv.CustomerID, &inv.InvoiceNumber, &inv.Status,
			&inv.TotalAmount, &inv.TotalGST, &inv.AmountPaid, &inv.BalanceDue, &inv.IssueDate,
			&inv.StockDeducted, &inv.LastReminderSent, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}
