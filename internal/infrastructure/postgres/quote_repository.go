package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, shop_id, customer_id, quote_number, status,
	total_amount, total_gst, issue_date, converted_invoice_id, created_at, updated_at`

// Create persiste la cabecera de la cotización.
func (r *QuoteRepo) Create(quote *entity.Quote) error {
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.ShopID, quote.CustomerID, quote.QuoteNumber, quote.Status,
		quote.TotalAmount, quote.TotalGST, quote.IssueDate, quote.ConvertedInvoiceID,
		quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("quote number already exists: %w", err)
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de cotización.
func (r *QuoteRepo) CreateItem(item *entity.QuoteItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO quote_items (id, quote_id, product_id, product_name, quantity, discount_percentage, price_per_unit, gst_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.QuoteID, item.ProductID, item.ProductName, item.Quantity,
		item.DiscountPercentage, item.PricePerUnit, item.GSTAmount, item.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("insert quote item: %w", err)
	}
	return nil
}

// Update actualiza estado y enlace de conversión de la cotización.
func (r *QuoteRepo) Update(quote *entity.Quote) error {
	query := `
		UPDATE quotes
		SET status = $2, converted_invoice_id = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		quote.ID, quote.Status, quote.ConvertedInvoiceID, quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(id string) (*entity.Quote, error) {
	return r.scanOne(`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila: dos conversiones concurrentes de la misma
// cotización no deben producir dos facturas.
func (r *QuoteRepo) GetByIDForUpdate(id string) (*entity.Quote, error) {
	return r.scanOne(`SELECT `+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, id)
}

func (r *QuoteRepo) scanOne(query string, args ...any) (*entity.Quote, error) {
	var q entity.Quote
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&q.ID, &q.ShopID, &q.CustomerID, &q.QuoteNumber, &q.Status,
		&q.TotalAmount, &q.TotalGST, &q.IssueDate, &q.ConvertedInvoiceID,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return &q, nil
}

// GetItemsByQuoteID devuelve las líneas de la cotización.
func (r *QuoteRepo) GetItemsByQuoteID(quoteID string) ([]*entity.QuoteItem, error) {
	query := `
		SELECT id, quote_id, product_id, product_name, quantity, discount_percentage, price_per_unit, gst_amount, total_amount
		FROM quote_items WHERE quote_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote items: %w", err)
	}
	defer rows.Close()

	var items []*entity.QuoteItem
	for rows.Next() {
		var it entity.QuoteItem
		if err := rows.Scan(
			&it.ID, &it.QuoteID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.DiscountPercentage, &it.PricePerUnit, &it.GSTAmount, &it.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("scan quote item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// ListByShop lista las cotizaciones de la tienda, más recientes primero.
func (r *QuoteRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes WHERE shop_id = $1
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, shopID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*entity.Quote
	for rows.Next() {
		var q entity.Quote
		if err := rows.Scan(
			&q.ID, &q.ShopID, &q.CustomerID, &q.QuoteNumber, &q.Status,
			&q.TotalAmount, &q.TotalGST, &q.IssueDate, &q.ConvertedInvoiceID,
			&q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}
