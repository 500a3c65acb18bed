package repository

import "github.com/invogen/billing-api/internal/domain/entity"

// ShopRepository define el puerto de persistencia para Shop (tenant).
type ShopRepository interface {
	Create(shop *entity.Shop) error
	GetByID(id string) (*entity.Shop, error)
	Update(shop *entity.Shop) error
}

// UserRepository define el puerto de persistencia para usuarios de la tienda.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
