package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo. El GST del producto lo
// determina su categoría; el stock facturado se descuenta en la liquidación,
// no aquí.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create crea un producto dentro de una categoría de la tienda.
func (uc *ProductUseCase) Create(shopID string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.SellingPrice.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.ownedCategory(shopID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		ShopID:            shopID,
		CategoryID:        category.ID,
		Name:              in.Name,
		SellingPrice:      in.SellingPrice,
		CostPrice:         in.CostPrice,
		QuantityInStock:   in.QuantityInStock,
		LowStockThreshold: in.LowStockThreshold,
		GSTPercentage:     category.GSTPercentage,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto validando tienda.
func (uc *ProductUseCase) GetByID(shopID, id string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista el catálogo de la tienda.
func (uc *ProductUseCase) List(shopID string, limit, offset int) ([]*dto.ProductResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	products, err := uc.repo.ListByShop(shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza el producto, incluida la reposición manual de stock.
func (uc *ProductUseCase) Update(shopID, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" || in.SellingPrice.IsNegative() || in.CostPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	category, err := uc.ownedCategory(shopID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	product.CategoryID = category.ID
	product.Name = in.Name
	product.SellingPrice = in.SellingPrice
	product.CostPrice = in.CostPrice
	product.QuantityInStock = in.QuantityInStock
	product.LowStockThreshold = in.LowStockThreshold
	product.GSTPercentage = category.GSTPercentage
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto del catálogo.
func (uc *ProductUseCase) Delete(shopID, id string) error {
	if _, err := uc.getOwned(shopID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

// CreateCategory crea una categoría con su porcentaje GST.
func (uc *ProductUseCase) CreateCategory(shopID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == "" || in.GSTPercentage.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.ProductCategory{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		Name:          in.Name,
		GSTPercentage: in.GSTPercentage,
		CreatedAt:     time.Now(),
	}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories lista las categorías de la tienda.
func (uc *ProductUseCase) ListCategories(shopID string) ([]*dto.CategoryResponse, error) {
	categories, err := uc.categoryRepo.ListByShop(shopID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

func (uc *ProductUseCase) getOwned(shopID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func (uc *ProductUseCase) ownedCategory(shopID, categoryID string) (*entity.ProductCategory, error) {
	category, err := uc.categoryRepo.GetByID(categoryID)
	if err != nil || category == nil {
		return nil, domain.ErrNotFound
	}
	if category.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	return category, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		Name:              p.Name,
		SellingPrice:      p.SellingPrice,
		CostPrice:         p.CostPrice,
		QuantityInStock:   p.QuantityInStock,
		LowStockThreshold: p.LowStockThreshold,
		GSTPercentage:     p.GSTPercentage,
	}
}

func toCategoryResponse(c *entity.ProductCategory) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		GSTPercentage: c.GSTPercentage,
	}
}
