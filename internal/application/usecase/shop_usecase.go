package usecase

import (
	"time"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

// ShopUseCase ajustes de la tienda: datos fiscales y personalización de la
// factura (título, pie, color de acento del PDF).
type ShopUseCase struct {
	repo repository.ShopRepository
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase(repo repository.ShopRepository) *ShopUseCase {
	return &ShopUseCase{repo: repo}
}

// Get obtiene los datos de la tienda.
func (uc *ShopUseCase) Get(shopID string) (*dto.ShopResponse, error) {
	shop, err := uc.repo.GetByID(shopID)
	if err != nil || shop == nil {
		return nil, domain.ErrNotFound
	}
	return toShopResponse(shop), nil
}

// UpdateSettings actualiza los ajustes de la tienda.
func (uc *ShopUseCase) UpdateSettings(shopID string, in dto.ShopSettingsRequest) (*dto.ShopResponse, error) {
	shop, err := uc.repo.GetByID(shopID)
	if err != nil || shop == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	shop.Name = in.Name
	shop.Address = in.Address
	shop.GSTIN = in.GSTIN
	shop.InvoiceTitle = in.InvoiceTitle
	shop.InvoiceFooter = in.InvoiceFooter
	shop.InvoiceAccentColor = in.InvoiceAccentColor
	shop.UpdatedAt = time.Now()
	if err := uc.repo.Update(shop); err != nil {
		return nil, err
	}
	return toShopResponse(shop), nil
}

func toShopResponse(s *entity.Shop) *dto.ShopResponse {
	return &dto.ShopResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Address:            s.Address,
		GSTIN:              s.GSTIN,
		InvoiceTitle:       s.InvoiceTitle,
		InvoiceFooter:      s.InvoiceFooter,
		InvoiceAccentColor: s.InvoiceAccentColor,
		PaymentsEnabled:    s.PaymentsEnabled,
	}
}
