package repository

import "github.com/invogen/billing-api/internal/domain/entity"

// QuoteRepository define el puerto de persistencia para Quote y sus líneas.
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	CreateItem(item *entity.QuoteItem) error
	Update(quote *entity.Quote) error
	GetByID(id string) (*entity.Quote, error)
	// GetByIDForUpdate bloquea la fila: dos conversiones concurrentes de la
	// misma cotización no deben producir dos facturas.
	GetByIDForUpdate(id string) (*entity.Quote, error)
	GetItemsByQuoteID(quoteID string) ([]*entity.QuoteItem, error)
	ListByShop(shopID string, limit, offset int) ([]*entity.Quote, error)
}
