package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invogen/billing-api/internal/application/billing"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción, ejecuta fn con los repos de facturación
// atados a la tx y hace Commit o Rollback. Los SELECT FOR UPDATE de los repos
// solo serializan dentro de una tx abierta aquí.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(repos billing.BillingRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := billing.BillingRepos{
		Invoices:  NewInvoiceRepository(tx),
		Payments:  NewPaymentRepository(tx),
		Products:  NewProductRepository(tx),
		Customers: NewCustomerRepository(tx),
		Credits:   NewCustomerCreditRepository(tx),
		Quotes:    NewQuoteRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
