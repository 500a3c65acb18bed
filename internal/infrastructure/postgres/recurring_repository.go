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

var _ repository.RecurringInvoiceRepository = (*RecurringInvoiceRepo)(nil)

// RecurringInvoiceRepo implementación de RecurringInvoiceRepository.
// Los Get/List cargan las líneas de plantilla del perfil.
type RecurringInvoiceRepo struct {
	q Querier
}

// NewRecurringInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecurringInvoiceRepository(q Querier) *RecurringInvoiceRepo {
	return &RecurringInvoiceRepo{q: q}
}

const recurringColumns = `id, shop_id, customer_id, frequency, start_date, end_date,
	next_issue_date, auto_send_email, created_at, updated_at`

// Create persiste el perfil y sus líneas de plantilla.
func (r *RecurringInvoiceRepo) Create(profile *entity.RecurringInvoice) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	query := `
		INSERT INTO recurring_invoices (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		profile.ID, profile.ShopID, profile.CustomerID, profile.Frequency,
		profile.StartDate, profile.EndDate, profile.NextIssueDate,
		profile.AutoSendEmail, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recurring invoice: %w", err)
	}
	return r.insertItems(profile)
}

// Update reemplaza cabecera y líneas de plantilla.
func (r *RecurringInvoiceRepo) Update(profile *entity.RecurringInvoice) error {
	query := `
		UPDATE recurring_invoices
		SET customer_id = $2, frequency = $3, start_date = $4, end_date = $5,
		    next_issue_date = $6, auto_send_email = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		profile.ID, profile.CustomerID, profile.Frequency, profile.StartDate,
		profile.EndDate, profile.NextIssueDate, profile.AutoSendEmail, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update recurring invoice: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM recurring_invoice_items WHERE recurring_invoice_id = $1`, profile.ID); err != nil {
		return fmt.Errorf("clear recurring invoice items: %w", err)
	}
	return r.insertItems(profile)
}

func (r *RecurringInvoiceRepo) insertItems(profile *entity.RecurringInvoice) error {
	query := `
		INSERT INTO recurring_invoice_items (id, recurring_invoice_id, product_id, quantity, discount_percentage)
		VALUES ($1, $2, $3, $4, $5)`
	for i := range profile.Items {
		item := &profile.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.RecurringInvoiceID = profile.ID
		if _, err := r.q.Exec(context.Background(), query,
			item.ID, item.RecurringInvoiceID, item.ProductID, item.Quantity, item.DiscountPercentage,
		); err != nil {
			return fmt.Errorf("insert recurring invoice item: %w", err)
		}
	}
	return nil
}

// Delete elimina el perfil y sus líneas.
func (r *RecurringInvoiceRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM recurring_invoice_items WHERE recurring_invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete recurring invoice items: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM recurring_invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete recurring invoice: %w", err)
	}
	return nil
}

// GetByID obtiene el perfil con sus líneas.
func (r *RecurringInvoiceRepo) GetByID(id string) (*entity.RecurringInvoice, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_invoices WHERE id = $1`
	var p entity.RecurringInvoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.ShopID, &p.CustomerID, &p.Frequency, &p.StartDate, &p.EndDate,
		&p.NextIssueDate, &p.AutoSendEmail, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recurring invoice: %w", err)
	}
	if err := r.loadItems(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByShop lista los perfiles de la tienda con sus líneas.
func (r *RecurringInvoiceRepo) ListByShop(shopID string) ([]*entity.RecurringInvoice, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_invoices WHERE shop_id = $1 ORDER BY created_at`
	return r.scanManyWithItems(query, shopID)
}

// FindDue devuelve los perfiles con next_issue_date <= asOf, con sus líneas.
func (r *RecurringInvoiceRepo) FindDue(asOf time.Time) ([]*entity.RecurringInvoice, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_invoices WHERE next_issue_date <= $1 ORDER BY next_issue_date`
	return r.scanManyWithItems(query, asOf)
}

// AdvanceCursor persiste solo el nuevo next_issue_date del perfil.
func (r *RecurringInvoiceRepo) AdvanceCursor(id string, nextIssueDate time.Time) error {
	query := `UPDATE recurring_invoices SET next_issue_date = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, nextIssueDate)
	if err != nil {
		return fmt.Errorf("advance recurring cursor: %w", err)
	}
	return nil
}

func (r *RecurringInvoiceRepo) scanManyWithItems(query string, args ...any) ([]*entity.RecurringInvoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring invoices: %w", err)
	}
	defer rows.Close()

	var profiles []*entity.RecurringInvoice
	for rows.Next() {
		var p entity.RecurringInvoice
		if err := rows.Scan(
			&p.ID, &p.ShopID, &p.CustomerID, &p.Frequency, &p.StartDate, &p.EndDate,
			&p.NextIssueDate, &p.AutoSendEmail, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recurring invoice: %w", err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if err := r.loadItems(p); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (r *RecurringInvoiceRepo) loadItems(p *entity.RecurringInvoice) error {
	query := `
		SELECT id, recurring_invoice_id, product_id, quantity, discount_percentage
		FROM recurring_invoice_items WHERE recurring_invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, p.ID)
	if err != nil {
		return fmt.Errorf("list recurring invoice items: %w", err)
	}
	defer rows.Close()

	p.Items = p.Items[:0]
	for rows.Next() {
		var it entity.RecurringInvoiceItem
		if err := rows.Scan(&it.ID, &it.RecurringInvoiceID, &it.ProductID, &it.Quantity, &it.DiscountPercentage); err != nil {
			return fmt.Errorf("scan recurring invoice item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	return rows.Err()
}
