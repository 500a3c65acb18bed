package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
	"github.com/invogen/billing-api/pkg/logger"
)

// RecurringUseCase administra perfiles de facturación recurrente. La
// generación de facturas a partir de los perfiles vive en el scheduler.
type RecurringUseCase struct {
	recurringRepo repository.RecurringInvoiceRepository
	customerRepo  repository.CustomerRepository
	productRepo   repository.ProductRepository
	log           *logger.Logger
}

// NewRecurringUseCase construye el caso de uso.
func NewRecurringUseCase(
	recurringRepo repository.RecurringInvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *RecurringUseCase {
	return &RecurringUseCase{
		recurringRepo: recurringRepo,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		log:           log,
	}
}

// Create valida y persiste un perfil. El cursor arranca en StartDate: la
// primera factura se genera en la primera corrida del scheduler que la
// encuentre vencida.
func (uc *RecurringUseCase) Create(ctx context.Context, shopID string, in dto.RecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error) {
	if err := uc.validate(shopID, in); err != nil {
		return nil, err
	}
	now := time.Now()
	profile := &entity.RecurringInvoice{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		CustomerID:    in.CustomerID,
		Frequency:     entity.Frequency(in.Frequency),
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		NextIssueDate: in.StartDate,
		AutoSendEmail: in.AutoSendEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range in.Items {
		profile.Items = append(profile.Items, entity.RecurringInvoiceItem{
			ID:                 uuid.New().String(),
			RecurringInvoiceID: profile.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			DiscountPercentage: item.DiscountPercentage,
		})
	}
	if err := uc.recurringRepo.Create(profile); err != nil {
		return nil, err
	}
	return uc.toResponse(profile), nil
}

// Update reemplaza cabecera y plantilla del perfil. El cursor no retrocede:
// si el nuevo StartDate es futuro al cursor actual, el cursor salta allí.
func (uc *RecurringUseCase) Update(ctx context.Context, shopID, id string, in dto.RecurringInvoiceRequest) (*dto.RecurringInvoiceResponse, error) {
	profile, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(shopID, in); err != nil {
		return nil, err
	}
	profile.CustomerID = in.CustomerID
	profile.Frequency = entity.Frequency(in.Frequency)
	profile.StartDate = in.StartDate
	profile.EndDate = in.EndDate
	profile.AutoSendEmail = in.AutoSendEmail
	if in.StartDate.After(profile.NextIssueDate) {
		profile.NextIssueDate = in.StartDate
	}
	profile.Items = profile.Items[:0]
	for _, item := range in.Items {
		profile.Items = append(profile.Items, entity.RecurringInvoiceItem{
			ID:                 uuid.New().String(),
			RecurringInvoiceID: profile.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			DiscountPercentage: item.DiscountPercentage,
		})
	}
	profile.UpdatedAt = time.Now()
	if err := uc.recurringRepo.Update(profile); err != nil {
		return nil, err
	}
	return uc.toResponse(profile), nil
}

// Delete elimina el perfil; las facturas ya generadas no se tocan.
func (uc *RecurringUseCase) Delete(ctx context.Context, shopID, id string) error {
	if _, err := uc.getOwned(shopID, id); err != nil {
		return err
	}
	return uc.recurringRepo.Delete(id)
}

// Get obtiene un perfil validando tienda.
func (uc *RecurringUseCase) Get(ctx context.Context, shopID, id string) (*dto.RecurringInvoiceResponse, error) {
	profile, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(profile), nil
}

// List lista los perfiles de la tienda.
func (uc *RecurringUseCase) List(ctx context.Context, shopID string) ([]*dto.RecurringInvoiceResponse, error) {
	profiles, err := uc.recurringRepo.ListByShop(shopID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RecurringInvoiceResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, uc.toResponse(p))
	}
	return out, nil
}

func (uc *RecurringUseCase) getOwned(shopID, id string) (*entity.RecurringInvoice, error) {
	profile, err := uc.recurringRepo.GetByID(id)
	if err != nil || profile == nil {
		return nil, domain.ErrNotFound
	}
	if profile.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	return profile, nil
}

func (uc *RecurringUseCase) validate(shopID string, in dto.RecurringInvoiceRequest) error {
	if !entity.Frequency(in.Frequency).Valid() || len(in.Items) == 0 || in.StartDate.IsZero() {
		return domain.ErrInvalidInput
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return domain.ErrNotFound
	}
	if customer.ShopID != shopID {
		return domain.ErrForbidden
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return domain.ErrNotFound
		}
		if product.ShopID != shopID {
			return domain.ErrForbidden
		}
	}
	return nil
}

func (uc *RecurringUseCase) toResponse(p *entity.RecurringInvoice) *dto.RecurringInvoiceResponse {
	name := ""
	if customer, _ := uc.customerRepo.GetByID(p.CustomerID); customer != nil {
		name = customer.Name
	}
	resp := &dto.RecurringInvoiceResponse{
		ID:            p.ID,
		CustomerID:    p.CustomerID,
		CustomerName:  name,
		Frequency:     string(p.Frequency),
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		NextIssueDate: p.NextIssueDate,
		AutoSendEmail: p.AutoSendEmail,
		Items:         make([]dto.DocumentItemRequest, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, dto.DocumentItemRequest{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			DiscountPercentage: item.DiscountPercentage,
		})
	}
	return resp
}
