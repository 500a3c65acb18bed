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
	"github.com/invogen/billing-api/pkg/logger"
)

// QuoteUseCase casos de uso de cotizaciones: creación, estado y conversión
// a factura. Las cotizaciones nunca tocan pagos ni stock.
type QuoteUseCase struct {
	txRunner     TxRunner
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	log          *logger.Logger
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(
	txRunner TxRunner,
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *QuoteUseCase {
	return &QuoteUseCase{
		txRunner:     txRunner,
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

// CreateQuote valoriza las líneas igual que una factura (descuento, piso de
// costo, GST) pero sin validar stock: cotizar no compromete inventario.
func (uc *QuoteUseCase) CreateQuote(ctx context.Context, shopID string, in dto.CreateQuoteRequest) (*dto.QuoteDetailResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, newCustomer, err := resolveCustomerSelector(uc.customerRepo, shopID, in.CustomerID, in.NewCustomerName, in.NewCustomerPhone, in.NewCustomerEmail)
	if err != nil {
		return nil, err
	}
	lines, err := buildComputedLines(uc.productRepo, shopID, in.Items)
	if err != nil {
		return nil, err
	}

	var totalAmount, totalGST decimal.Decimal
	for _, cl := range lines {
		totalAmount = totalAmount.Add(cl.line.Subtotal)
		totalGST = totalGST.Add(cl.line.GSTAmount)
	}

	now := time.Now()
	quote := &entity.Quote{
		ID:          uuid.New().String(),
		ShopID:      shopID,
		CustomerID:  customer.ID,
		QuoteNumber: documentNumber("QUO", shopID, now),
		Status:      entity.QuoteDraft,
		TotalAmount: totalAmount,
		TotalGST:    totalGST,
		IssueDate:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.QuoteItem, 0, len(lines))
	for _, cl := range lines {
		items = append(items, &entity.QuoteItem{
			ID:                 uuid.New().String(),
			QuoteID:            quote.ID,
			ProductID:          cl.product.ID,
			ProductName:        cl.product.Name,
			Quantity:           cl.req.Quantity,
			DiscountPercentage: cl.req.DiscountPercentage,
			PricePerUnit:       cl.line.PricePerUnit,
			GSTAmount:          cl.line.GSTAmount,
			TotalAmount:        cl.line.Total,
		})
	}

	err = uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		if newCustomer {
			if err := r.Customers.Create(customer); err != nil {
				return err
			}
		}
		if err := r.Quotes.Create(quote); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Quotes.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toQuoteDetail(quote, customer.Name, items), nil
}

// GetQuote obtiene una cotización con sus líneas validando tienda.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, shopID, id string) (*dto.QuoteDetailResponse, error) {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil || quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.quoteRepo.GetItemsByQuoteID(id)
	if err != nil {
		return nil, err
	}
	name := ""
	if customer, _ := uc.customerRepo.GetByID(quote.CustomerID); customer != nil {
		name = customer.Name
	}
	return toQuoteDetail(quote, name, items), nil
}

// ListQuotes lista las cotizaciones de la tienda.
func (uc *QuoteUseCase) ListQuotes(ctx context.Context, shopID string, limit, offset int) ([]*dto.QuoteSummaryResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	quotes, err := uc.quoteRepo.ListByShop(shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuoteSummaryResponse, 0, len(quotes))
	for _, q := range quotes {
		name := ""
		if customer, _ := uc.customerRepo.GetByID(q.CustomerID); customer != nil {
			name = customer.Name
		}
		out = append(out, &dto.QuoteSummaryResponse{
			ID:           q.ID,
			QuoteNumber:  q.QuoteNumber,
			CustomerName: name,
			Status:       string(q.Status),
			GrandTotal:   q.GrandTotal(),
			IssueDate:    q.IssueDate,
		})
	}
	return out, nil
}

// UpdateStatus avanza el estado de una cotización. Solo hacia adelante; la
// conversión a factura tiene su propio flujo (ConvertToInvoice).
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, shopID, quoteID string, in dto.UpdateQuoteStatusRequest) (*dto.QuoteDetailResponse, error) {
	target := entity.QuoteStatus(in.Status)
	if !domainbilling.ValidQuoteStatus(target) || target == entity.QuoteConverted {
		return nil, domain.ErrInvalidInput
	}
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil || quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	if quote.Status == entity.QuoteConverted {
		return nil, domain.ErrAlreadyConverted
	}
	if quote.Status != target {
		if !domainbilling.CanTransitionQuote(quote.Status, target) {
			return nil, domain.ErrInvalidStatusChange
		}
		quote.Status = target
		quote.UpdatedAt = time.Now()
		if err := uc.quoteRepo.Update(quote); err != nil {
			return nil, err
		}
	}
	items, err := uc.quoteRepo.GetItemsByQuoteID(quoteID)
	if err != nil {
		return nil, err
	}
	name := ""
	if customer, _ := uc.customerRepo.GetByID(quote.CustomerID); customer != nil {
		name = customer.Name
	}
	return toQuoteDetail(quote, name, items), nil
}

// ConvertToInvoice materializa la cotización como factura PENDING, copiando
// las líneas con los precios congelados al cotizar. Es de un solo disparo:
// la fila se bloquea y una cotización CONVERTED no se convierte de nuevo.
// No valida ni descuenta stock; eso ocurre al liquidar la factura.
func (uc *QuoteUseCase) ConvertToInvoice(ctx context.Context, shopID, quoteID string) (*dto.InvoiceDetailResponse, error) {
	var (
		inv          *entity.Invoice
		invItems     []*entity.InvoiceItem
		customerName string
	)
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		quote, err := r.Quotes.GetByIDForUpdate(quoteID)
		if err != nil || quote == nil {
			return domain.ErrNotFound
		}
		if quote.ShopID != shopID {
			return domain.ErrForbidden
		}
		if quote.Status == entity.QuoteConverted {
			return domain.ErrAlreadyConverted
		}
		quoteItems, err := r.Quotes.GetItemsByQuoteID(quote.ID)
		if err != nil {
			return err
		}

		now := time.Now()
		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			ShopID:        quote.ShopID,
			CustomerID:    quote.CustomerID,
			InvoiceNumber: documentNumber("INV", quote.ShopID, now),
			Status:        entity.InvoicePending,
			TotalAmount:   quote.TotalAmount,
			TotalGST:      quote.TotalGST,
			AmountPaid:    decimal.Zero,
			BalanceDue:    quote.GrandTotal(),
			IssueDate:     now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Invoices.Create(inv); err != nil {
			return err
		}
		for _, qi := range quoteItems {
			item := &entity.InvoiceItem{
				ID:                 uuid.New().String(),
				InvoiceID:          inv.ID,
				ProductID:          qi.ProductID,
				ProductName:        qi.ProductName,
				Quantity:           qi.Quantity,
				DiscountPercentage: qi.DiscountPercentage,
				PricePerUnit:       qi.PricePerUnit,
				GSTAmount:          qi.GSTAmount,
				TotalAmount:        qi.TotalAmount,
			}
			if err := r.Invoices.CreateItem(item); err != nil {
				return err
			}
			invItems = append(invItems, item)
		}

		quote.Status = entity.QuoteConverted
		quote.ConvertedInvoiceID = &inv.ID
		quote.UpdatedAt = now
		return r.Quotes.Update(quote)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote_id", quoteID).Str("invoice", inv.InvoiceNumber).Msg("cotización convertida en factura")
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return toInvoiceDetail(inv, customerName, invItems, nil), nil
}

func toQuoteDetail(q *entity.Quote, customerName string, items []*entity.QuoteItem) *dto.QuoteDetailResponse {
	resp := &dto.QuoteDetailResponse{
		ID:                 q.ID,
		QuoteNumber:        q.QuoteNumber,
		CustomerID:         q.CustomerID,
		CustomerName:       customerName,
		Status:             string(q.Status),
		TotalAmount:        q.TotalAmount,
		TotalGST:           q.TotalGST,
		GrandTotal:         q.GrandTotal(),
		IssueDate:          q.IssueDate,
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		Items:              make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			ProductName:        it.ProductName,
			Quantity:           it.Quantity,
			DiscountPercentage: it.DiscountPercentage,
			PricePerUnit:       it.PricePerUnit,
			GSTAmount:          it.GSTAmount,
			TotalAmount:        it.TotalAmount,
		})
	}
	return resp
}
