package repository

import "github.com/invogen/billing-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListByShop(shopID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}

// CustomerCreditRepository define el puerto del saldo a favor del cliente.
// GetByCustomerForUpdate bloquea la fila (SELECT FOR UPDATE) para que el
// débito de crédito y el insert del pago sean atómicos dentro de la tx.
type CustomerCreditRepository interface {
	GetByCustomer(customerID string) (*entity.CustomerCredit, error)
	GetByCustomerForUpdate(customerID string) (*entity.CustomerCredit, error)
	Upsert(credit *entity.CustomerCredit) error
}
