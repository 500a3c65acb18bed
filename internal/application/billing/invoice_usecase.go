package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
	"github.com/invogen/billing-api/pkg/logger"
)

// InvoiceUseCase casos de uso de facturación: creación, liquidación de pagos,
// overrides de estado, links de cobro y conciliación de webhooks.
type InvoiceUseCase struct {
	txRunner     TxRunner
	shopRepo     repository.ShopRepository
	customerRepo repository.CustomerRepository
	creditRepo   repository.CustomerCreditRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
	pdf          InvoicePDFRenderer
	notifier     Notifier
	gateway      PaymentGateway
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	shopRepo repository.ShopRepository,
	customerRepo repository.CustomerRepository,
	creditRepo repository.CustomerCreditRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	pdf InvoicePDFRenderer,
	notifier Notifier,
	gateway PaymentGateway,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		shopRepo:     shopRepo,
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		pdf:          pdf,
		notifier:     notifier,
		gateway:      gateway,
		log:          log,
	}
}

// GetInvoice obtiene una factura completa (líneas + pagos) validando tienda.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, shopID, id string) (*dto.InvoiceDetailResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByInvoice(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return toInvoiceDetail(inv, customerName, items, payments), nil
}

// ListInvoices lista las facturas de la tienda (más recientes primero).
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, shopID string, limit, offset int) ([]*dto.InvoiceSummaryResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	invoices, err := uc.invoiceRepo.ListByShop(shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceSummaryResponse, 0, len(invoices))
	for _, inv := range invoices {
		name := ""
		if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
			name = customer.Name
		}
		out = append(out, &dto.InvoiceSummaryResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  name,
			Status:        string(inv.Status),
			GrandTotal:    inv.GrandTotal(),
			AmountPaid:    inv.AmountPaid,
			BalanceDue:    inv.BalanceDue,
			IssueDate:     inv.IssueDate,
		})
	}
	return out, nil
}

// EmailInvoice renderiza el PDF de la factura y la envía al email del cliente.
// Implementa la mitad "notificación" del flujo: cualquier fallo aquí no afecta
// el estado financiero ya confirmado.
func (uc *InvoiceUseCase) EmailInvoice(ctx context.Context, invoiceID string) error {
	inv, items, shop, customer, err := uc.loadInvoiceBundle(invoiceID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		uc.log.Warn().Str("invoice", inv.InvoiceNumber).Msg("cliente sin email, factura no enviada")
		return nil
	}
	pdfBytes, err := uc.pdf.RenderInvoice(shop, customer, inv, items)
	if err != nil {
		return fmt.Errorf("renderizar PDF: %w", err)
	}
	return uc.notifier.SendInvoiceEmail(ctx, customer.Email, inv, pdfBytes)
}

// loadInvoiceBundle carga factura, líneas, tienda y cliente (para PDF/email).
func (uc *InvoiceUseCase) loadInvoiceBundle(invoiceID string) (*entity.Invoice, []*entity.InvoiceItem, *entity.Shop, *entity.Customer, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	shop, err := uc.shopRepo.GetByID(inv.ShopID)
	if err != nil || shop == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(inv.CustomerID)
	if err != nil || customer == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	return inv, items, shop, customer, nil
}

// documentNumber genera un consecutivo legible único por tienda,
// ej. INV-3f2a9c1b-1724832000000.
func documentNumber(prefix, shopID string, now time.Time) string {
	short := shopID
	if i := strings.IndexByte(shopID, '-'); i > 0 {
		short = shopID[:i]
	}
	return fmt.Sprintf("%s-%s-%d", prefix, short, now.UnixMilli())
}

func toInvoiceDetail(inv *entity.Invoice, customerName string, items []*entity.InvoiceItem, payments []*entity.Payment) *dto.InvoiceDetailResponse {
	resp := &dto.InvoiceDetailResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  customerName,
		Status:        string(inv.Status),
		TotalAmount:   inv.TotalAmount,
		TotalGST:      inv.TotalGST,
		GrandTotal:    inv.GrandTotal(),
		AmountPaid:    inv.AmountPaid,
		BalanceDue:    inv.BalanceDue,
		IssueDate:     inv.IssueDate,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
		Payments:      make([]dto.PaymentResponse, 0, len(payments)),
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
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Kind:          string(p.Kind),
			PaymentMethod: p.Method,
			PaymentDate:   p.PaymentDate,
		})
	}
	return resp
}
