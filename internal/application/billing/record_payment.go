package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	domainbilling "github.com/invogen/billing-api/internal/domain/billing"
	"github.com/invogen/billing-api/internal/domain/entity"
)

// RecordPayment registra un pago manual (mostrador) contra la factura y
// reliquida. El saldo se re-deriva siempre del libro de pagos, no del
// snapshot, así que reintentos parciales no corrompen la posición.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, shopID, invoiceID string, in dto.RecordPaymentRequest) (*dto.InvoiceDetailResponse, error) {
	detail, err := uc.recordPayment(ctx, shopID, invoiceID, in.Amount, entity.PaymentKindCash, in.PaymentMethod, in.OverpaymentChoice)
	if err != nil {
		return nil, err
	}
	if in.SendReceipt {
		// El recibo es cortesía: el pago ya quedó confirmado.
		if err := uc.emailReceipt(ctx, invoiceID); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", invoiceID).Msg("no se pudo enviar el recibo")
		}
	}
	return detail, nil
}

func (uc *InvoiceUseCase) recordPayment(ctx context.Context, shopID, invoiceID string, amount decimal.Decimal, kind entity.PaymentKind, method, overChoice string) (*dto.InvoiceDetailResponse, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	switch overChoice {
	case "", dto.OverpaymentCredit, dto.OverpaymentRefund:
	default:
		return nil, domain.ErrInvalidInput
	}

	var (
		inv          *entity.Invoice
		items        []*entity.InvoiceItem
		payments     []*entity.Payment
		customerName string
	)
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		var err error
		inv, err = r.Invoices.GetByIDForUpdate(invoiceID)
		if err != nil || inv == nil {
			return domain.ErrNotFound
		}
		if inv.ShopID != shopID {
			return domain.ErrForbidden
		}
		switch inv.Status {
		case entity.InvoicePaid:
			return domain.ErrAlreadyPaid
		case entity.InvoiceCancelled:
			return domain.ErrConflict
		}
		grandTotal := inv.GrandTotal()
		now := time.Now()

		p := &entity.Payment{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Amount:      amount,
			Kind:        kind,
			Method:      method,
			PaymentDate: now,
		}
		if err := r.Payments.Create(p); err != nil {
			return err
		}

		ledger, err := r.Payments.ListByInvoice(inv.ID)
		if err != nil {
			return err
		}
		totalPaid := ledgerTotal(ledger)

		if totalPaid.GreaterThan(grandTotal) {
			excess := totalPaid.Sub(grandTotal)
			if overChoice == dto.OverpaymentCredit {
				if err := grantCustomerCredit(r, inv.ShopID, inv.CustomerID, excess, now); err != nil {
					return err
				}
			} else {
				// Devolución en efectivo: línea negativa que deja el libro
				// cuadrado con el gran total.
				refund := &entity.Payment{
					ID:          uuid.New().String(),
					InvoiceID:   inv.ID,
					Amount:      excess.Neg(),
					Kind:        entity.PaymentKindRefund,
					Method:      entity.MethodRefund,
					PaymentDate: now,
				}
				if err := r.Payments.Create(refund); err != nil {
					return err
				}
			}
			totalPaid = grandTotal
		}

		inv.AmountPaid = totalPaid
		inv.BalanceDue = grandTotal.Sub(totalPaid)
		if !inv.BalanceDue.IsPositive() {
			inv.Status = entity.InvoicePaid
			inv.BalanceDue = decimal.Zero
			items, err = r.Invoices.GetItemsByInvoiceID(inv.ID)
			if err != nil {
				return err
			}
			if err := deductStockOnce(r, inv, items); err != nil {
				return err
			}
		} else {
			inv.Status = entity.InvoicePartiallyPaid
		}
		inv.UpdatedAt = now
		if err := r.Invoices.Update(inv); err != nil {
			return err
		}
		payments, err = r.Payments.ListByInvoice(inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if items == nil {
		items, _ = uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	}
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return toInvoiceDetail(inv, customerName, items, payments), nil
}

// UpdateStatus es el override manual de estado. A PAID fuerza la liquidación
// completa y descuenta stock (si no se había descontado); a cualquier otro
// estado re-deriva la posición del libro de pagos sin tocarlo.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, shopID, invoiceID string, in dto.UpdateInvoiceStatusRequest) (*dto.InvoiceDetailResponse, error) {
	target := entity.InvoiceStatus(in.Status)
	if !domainbilling.ValidInvoiceStatus(target) {
		return nil, domain.ErrInvalidInput
	}

	var (
		inv      *entity.Invoice
		items    []*entity.InvoiceItem
		payments []*entity.Payment
	)
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		var err error
		inv, err = r.Invoices.GetByIDForUpdate(invoiceID)
		if err != nil || inv == nil {
			return domain.ErrNotFound
		}
		if inv.ShopID != shopID {
			return domain.ErrForbidden
		}
		if inv.Status == target {
			payments, err = r.Payments.ListByInvoice(inv.ID)
			return err
		}
		if !domainbilling.CanTransitionInvoice(inv.Status, target) {
			return domain.ErrInvalidStatusChange
		}
		now := time.Now()
		grandTotal := inv.GrandTotal()

		if target == entity.InvoicePaid {
			inv.AmountPaid = grandTotal
			inv.BalanceDue = decimal.Zero
			items, err = r.Invoices.GetItemsByInvoiceID(inv.ID)
			if err != nil {
				return err
			}
			if err := deductStockOnce(r, inv, items); err != nil {
				return err
			}
		} else {
			ledger, err := r.Payments.ListByInvoice(inv.ID)
			if err != nil {
				return err
			}
			paid := ledgerTotal(ledger)
			if paid.GreaterThan(grandTotal) {
				paid = grandTotal
			}
			inv.AmountPaid = paid
			inv.BalanceDue = grandTotal.Sub(paid)
		}
		inv.Status = target
		inv.UpdatedAt = now
		if err := r.Invoices.Update(inv); err != nil {
			return err
		}
		payments, err = r.Payments.ListByInvoice(inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if items == nil {
		items, _ = uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return toInvoiceDetail(inv, customerName, items, payments), nil
}

// emailReceipt envía el recibo de pago (PDF de la factura liquidada).
func (uc *InvoiceUseCase) emailReceipt(ctx context.Context, invoiceID string) error {
	inv, items, shop, customer, err := uc.loadInvoiceBundle(invoiceID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		return nil
	}
	pdfBytes, err := uc.pdf.RenderInvoice(shop, customer, inv, items)
	if err != nil {
		return err
	}
	return uc.notifier.SendReceiptEmail(ctx, customer.Email, inv, pdfBytes)
}
