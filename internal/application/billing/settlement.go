package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
)

// applyCustomerCredit consume saldo a favor del cliente contra la factura:
// bloquea la fila de crédito, toma min(saldo, pendiente) y lo registra como
// un pago sintético CREDIT_APPLIED. Devuelve el monto aplicado.
func applyCustomerCredit(r BillingRepos, inv *entity.Invoice, customerID string, outstanding decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	credit, err := r.Credits.GetByCustomerForUpdate(customerID)
	if err != nil {
		return decimal.Zero, err
	}
	if credit == nil || !credit.Balance.IsPositive() || !outstanding.IsPositive() {
		return decimal.Zero, nil
	}
	applied := decimal.Min(credit.Balance, outstanding)
	p := &entity.Payment{
		ID:          uuid.New().String(),
		InvoiceID:   inv.ID,
		Amount:      applied,
		Kind:        entity.PaymentKindCreditApplied,
		Method:      entity.MethodCreditApplied,
		PaymentDate: now,
	}
	if err := r.Payments.Create(p); err != nil {
		return decimal.Zero, err
	}
	credit.Balance = credit.Balance.Sub(applied)
	credit.UpdatedAt = now
	if err := r.Credits.Upsert(credit); err != nil {
		return decimal.Zero, err
	}
	return applied, nil
}

// grantCustomerCredit acredita un sobrepago al saldo del cliente.
func grantCustomerCredit(r BillingRepos, shopID, customerID string, amount decimal.Decimal, now time.Time) error {
	credit, err := r.Credits.GetByCustomerForUpdate(customerID)
	if err != nil {
		return err
	}
	if credit == nil {
		credit = &entity.CustomerCredit{
			ID:         uuid.New().String(),
			ShopID:     shopID,
			CustomerID: customerID,
			Balance:    decimal.Zero,
			CreatedAt:  now,
		}
	}
	credit.Balance = credit.Balance.Add(amount)
	credit.UpdatedAt = now
	return r.Credits.Upsert(credit)
}

// ledgerTotal suma el libro de pagos de la factura. Las líneas REFUND son
// negativas, así que la suma directa ya es la posición neta.
func ledgerTotal(payments []*entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// deductStockOnce descuenta las cantidades facturadas de los productos con
// inventario controlado. A lo sumo una vez por factura: reentrar a PAID tras
// una anulación manual no vuelve a descontar.
func deductStockOnce(r BillingRepos, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	if inv.StockDeducted {
		return nil
	}
	for _, item := range items {
		product, err := r.Products.GetByIDForUpdate(item.ProductID)
		if err != nil {
			return err
		}
		// Producto borrado después de facturar: la línea queda, el stock no.
		if product == nil || !product.StockTracked() {
			continue
		}
		// Revalidar sobre la fila bloqueada: la existencia pudo bajar entre
		// la validación inicial y esta transacción.
		next := *product.QuantityInStock - item.Quantity
		if next < 0 {
			return domain.ErrInsufficientStock
		}
		if err := r.Products.UpdateStock(product.ID, &next); err != nil {
			return err
		}
	}
	inv.StockDeducted = true
	return nil
}
