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

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación del libro de pagos. Append-only: la tabla no
// tiene UPDATE ni DELETE; las correcciones entran como líneas nuevas.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste una línea del libro de pagos.
func (r *PaymentRepo) Create(payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payments (id, invoice_id, amount, kind, method, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.InvoiceID, payment.Amount, payment.Kind, payment.Method, payment.PaymentDate,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene una línea de pago por ID.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, kind, method, payment_date
		FROM payments WHERE id = $1`
	var p entity.Payment
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.InvoiceID, &p.Amount, &p.Kind, &p.Method, &p.PaymentDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// ListByInvoice devuelve el libro completo de la factura en orden de registro.
func (r *PaymentRepo) ListByInvoice(invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, amount, kind, method, payment_date
		FROM payments WHERE invoice_id = $1 ORDER BY payment_date, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Kind, &p.Method, &p.PaymentDate); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
