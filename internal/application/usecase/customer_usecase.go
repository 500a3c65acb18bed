package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes de la tienda.
type CustomerUseCase struct {
	repo       repository.CustomerRepository
	creditRepo repository.CustomerCreditRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, creditRepo repository.CustomerCreditRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, creditRepo: creditRepo}
}

// Create crea un cliente.
func (uc *CustomerUseCase) Create(shopID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return uc.toResponse(customer), nil
}

// GetByID obtiene un cliente validando tienda.
func (uc *CustomerUseCase) GetByID(shopID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(customer), nil
}

// List lista los clientes de la tienda.
func (uc *CustomerUseCase) List(shopID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	customers, err := uc.repo.ListByShop(shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, uc.toResponse(c))
	}
	return out, nil
}

// Update actualiza los datos de contacto del cliente.
func (uc *CustomerUseCase) Update(shopID, id string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return uc.toResponse(customer), nil
}

// Delete elimina el cliente.
func (uc *CustomerUseCase) Delete(shopID, id string) error {
	if _, err := uc.getOwned(shopID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *CustomerUseCase) getOwned(shopID, id string) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func (uc *CustomerUseCase) toResponse(c *entity.Customer) *dto.CustomerResponse {
	balance := decimal.Zero
	if credit, _ := uc.creditRepo.GetByCustomer(c.ID); credit != nil {
		balance = credit.Balance
	}
	return &dto.CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		CreditBalance: balance,
	}
}
