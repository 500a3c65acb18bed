package repository

import "github.com/invogen/billing-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get cargan GSTPercentage por join con la categoría.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto (SELECT FOR UPDATE)
	// para serializar la deducción de stock dentro de la transacción.
	GetByIDForUpdate(id string) (*entity.Product, error)
	ListByShop(shopID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija la nueva existencia del producto (nil = no controlado).
	UpdateStock(productID string, quantityInStock *int) error
	Delete(id string) error
}

// CategoryRepository define el puerto para categorías de producto (GST por categoría).
type CategoryRepository interface {
	Create(category *entity.ProductCategory) error
	GetByID(id string) (*entity.ProductCategory, error)
	ListByShop(shopID string) ([]*entity.ProductCategory, error)
}
