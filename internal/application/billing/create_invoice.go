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
	"github.com/invogen/billing-api/internal/domain/repository"
)

// computedLine línea ya valorizada: producto + petición + cálculo monetario.
type computedLine struct {
	product *entity.Product
	req     dto.DocumentItemRequest
	line    domainbilling.Line
}

// createOptions variantes internas de creación.
type createOptions struct {
	// deductStockNow descuenta stock en la misma transacción sin importar el
	// estado final (ruta de facturas recurrentes).
	deductStockNow bool
}

// CreateInvoice crea una factura y ejecuta la liquidación inicial según el
// estado solicitado, todo en una sola transacción.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, shopID string, in dto.CreateInvoiceRequest) (*dto.InvoiceDetailResponse, error) {
	return uc.createInvoice(ctx, shopID, in, createOptions{})
}

// CreateFromRecurringProfile genera la factura de un perfil recurrente:
// estado PENDING y deducción de stock inmediata (a diferencia de la ruta
// general, que solo descuenta al llegar a PAID).
func (uc *InvoiceUseCase) CreateFromRecurringProfile(ctx context.Context, profile *entity.RecurringInvoice) (*dto.InvoiceDetailResponse, error) {
	in := dto.CreateInvoiceRequest{
		CustomerID: profile.CustomerID,
		Status:     string(entity.InvoicePending),
		Items:      make([]dto.DocumentItemRequest, 0, len(profile.Items)),
	}
	for _, it := range profile.Items {
		in.Items = append(in.Items, dto.DocumentItemRequest{
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			DiscountPercentage: it.DiscountPercentage,
		})
	}
	return uc.createInvoice(ctx, profile.ShopID, in, createOptions{deductStockNow: true})
}

func (uc *InvoiceUseCase) createInvoice(ctx context.Context, shopID string, in dto.CreateInvoiceRequest, opts createOptions) (*dto.InvoiceDetailResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	status := entity.InvoiceStatus(in.Status)
	if in.Status == "" {
		status = entity.InvoicePending
	}
	switch status {
	case entity.InvoicePending, entity.InvoicePartiallyPaid, entity.InvoicePaid, entity.InvoiceAwaitingPayment:
	default:
		return nil, domain.ErrInvalidInput
	}

	// Resolver el selector de cliente: exactamente uno de los dos caminos.
	customer, newCustomer, err := uc.resolveCustomer(shopID, in.CustomerID, in.NewCustomerName, in.NewCustomerPhone, in.NewCustomerEmail)
	if err != nil {
		return nil, err
	}

	// Valorizar todas las líneas y validar stock ANTES de tocar nada:
	// todo-o-nada, una línea sin stock aborta la factura completa.
	lines, err := buildComputedLines(uc.productRepo, shopID, in.Items)
	if err != nil {
		return nil, err
	}
	for _, cl := range lines {
		if cl.product.StockTracked() && *cl.product.QuantityInStock < cl.req.Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}

	var totalAmount, totalGST decimal.Decimal
	for _, cl := range lines {
		totalAmount = totalAmount.Add(cl.line.Subtotal)
		totalGST = totalGST.Add(cl.line.GSTAmount)
	}
	grandTotal := totalAmount.Add(totalGST)

	now := time.Now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		CustomerID:    customer.ID,
		InvoiceNumber: documentNumber("INV", shopID, now),
		Status:        status,
		TotalAmount:   totalAmount,
		TotalGST:      totalGST,
		IssueDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items := make([]*entity.InvoiceItem, 0, len(lines))
	for _, cl := range lines {
		items = append(items, &entity.InvoiceItem{
			ID:                 uuid.New().String(),
			InvoiceID:          inv.ID,
			ProductID:          cl.product.ID,
			ProductName:        cl.product.Name,
			Quantity:           cl.req.Quantity,
			DiscountPercentage: cl.req.DiscountPercentage,
			PricePerUnit:       cl.line.PricePerUnit,
			GSTAmount:          cl.line.GSTAmount,
			TotalAmount:        cl.line.Total,
		})
	}

	var payments []*entity.Payment
	err = uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		if newCustomer {
			if err := r.Customers.Create(customer); err != nil {
				return err
			}
		}
		// Cabecera antes que líneas: identidad durable primero.
		if err := r.Invoices.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Invoices.CreateItem(item); err != nil {
				return err
			}
		}

		if status == entity.InvoiceAwaitingPayment {
			// Cobro en línea diferido: sin liquidación y sin tocar stock.
			inv.AmountPaid = decimal.Zero
			inv.BalanceDue = grandTotal
			return r.Invoices.Update(inv)
		}

		totalPaid := decimal.Zero
		if in.ApplyCredit {
			applied, err := applyCustomerCredit(r, inv, customer.ID, grandTotal, now)
			if err != nil {
				return err
			}
			totalPaid = totalPaid.Add(applied)
		}

		switch status {
		case entity.InvoicePaid:
			remaining := grandTotal.Sub(totalPaid)
			if remaining.IsPositive() {
				p := &entity.Payment{
					ID:          uuid.New().String(),
					InvoiceID:   inv.ID,
					Amount:      remaining,
					Kind:        entity.PaymentKindCash,
					Method:      in.PaymentMethod,
					PaymentDate: now,
				}
				if err := r.Payments.Create(p); err != nil {
					return err
				}
				payments = append(payments, p)
			}
			inv.AmountPaid = grandTotal
			inv.BalanceDue = decimal.Zero
			inv.Status = entity.InvoicePaid
			if err := deductStockOnce(r, inv, items); err != nil {
				return err
			}

		case entity.InvoicePartiallyPaid:
			if in.InitialAmount.IsPositive() {
				p := &entity.Payment{
					ID:          uuid.New().String(),
					InvoiceID:   inv.ID,
					Amount:      in.InitialAmount,
					Kind:        entity.PaymentKindCash,
					Method:      in.PaymentMethod,
					PaymentDate: now,
				}
				if err := r.Payments.Create(p); err != nil {
					return err
				}
				payments = append(payments, p)
				totalPaid = totalPaid.Add(in.InitialAmount)
			}
			inv.AmountPaid = totalPaid
			inv.BalanceDue = grandTotal.Sub(totalPaid)
			// El pago inicial (o el crédito) pudo cubrir todo.
			if !inv.BalanceDue.IsPositive() {
				inv.Status = entity.InvoicePaid
				inv.BalanceDue = decimal.Zero
				if err := deductStockOnce(r, inv, items); err != nil {
					return err
				}
			}

		default: // PENDING
			inv.AmountPaid = totalPaid
			inv.BalanceDue = grandTotal.Sub(totalPaid)
			if !inv.BalanceDue.IsPositive() {
				inv.Status = entity.InvoicePaid
				inv.BalanceDue = decimal.Zero
				if err := deductStockOnce(r, inv, items); err != nil {
					return err
				}
			} else if totalPaid.IsPositive() {
				inv.Status = entity.InvoicePartiallyPaid
			}
		}

		// Ruta recurrente: el stock se descuenta al generar, sin importar
		// el estado. Evita doble deducción si arriba ya quedó PAID.
		if opts.deductStockNow && inv.Status != entity.InvoicePaid {
			if err := deductStockOnce(r, inv, items); err != nil {
				return err
			}
		}

		inv.UpdatedAt = time.Now()
		return r.Invoices.Update(inv)
	})
	if err != nil {
		return nil, err
	}

	// Las líneas sintéticas de crédito quedan en el libro; recargar para
	// que la respuesta refleje el ledger completo.
	allPayments, _ := uc.paymentRepo.ListByInvoice(inv.ID)
	return toInvoiceDetail(inv, customer.Name, items, allPayments), nil
}

// resolveCustomer valida el selector y devuelve el cliente (existente o nuevo
// sin persistir; newCustomer=true indica que debe crearse dentro de la tx).
func (uc *InvoiceUseCase) resolveCustomer(shopID, customerID, newName, newPhone, newEmail string) (*entity.Customer, bool, error) {
	return resolveCustomerSelector(uc.customerRepo, shopID, customerID, newName, newPhone, newEmail)
}

func resolveCustomerSelector(customers repository.CustomerRepository, shopID, customerID, newName, newPhone, newEmail string) (*entity.Customer, bool, error) {
	hasID := customerID != ""
	hasNew := newName != ""
	if hasID == hasNew { // ninguno o ambos
		return nil, false, domain.ErrInvalidCustomerRef
	}
	if hasID {
		customer, err := customers.GetByID(customerID)
		if err != nil || customer == nil {
			return nil, false, domain.ErrNotFound
		}
		if customer.ShopID != shopID {
			return nil, false, domain.ErrForbidden
		}
		return customer, false, nil
	}
	now := time.Now()
	return &entity.Customer{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Name:      newName,
		Phone:     newPhone,
		Email:     newEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

// buildComputedLines carga cada producto, valida pertenencia a la tienda y
// valoriza la línea (descuento, piso de costo, GST).
func buildComputedLines(products repository.ProductRepository, shopID string, items []dto.DocumentItemRequest) ([]computedLine, error) {
	lines := make([]computedLine, 0, len(items))
	for _, req := range items {
		if req.ProductID == "" || req.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := products.GetByID(req.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.ShopID != shopID {
			return nil, domain.ErrForbidden
		}
		line, err := domainbilling.ComputeLine(
			product.SellingPrice, product.CostPrice, req.DiscountPercentage,
			req.Quantity, product.GSTPercentage,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, computedLine{product: product, req: req, line: line})
	}
	return lines, nil
}
