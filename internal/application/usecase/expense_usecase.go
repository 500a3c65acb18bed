package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/invogen/billing-api/internal/application/dto"
	"github.com/invogen/billing-api/internal/domain"
	"github.com/invogen/billing-api/internal/domain/entity"
	"github.com/invogen/billing-api/internal/domain/repository"
)

// ExpenseUseCase casos de uso CRUD para gastos de la tienda.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo}
}

// Create registra un gasto.
func (uc *ExpenseUseCase) Create(shopID string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Description == "" || !in.Amount.IsPositive() || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	expense := &entity.Expense{
		ID:          uuid.New().String(),
		ShopID:      shopID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List lista los gastos de la tienda.
func (uc *ExpenseUseCase) List(shopID string) ([]*dto.ExpenseResponse, error) {
	expenses, err := uc.repo.ListByShop(shopID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out, nil
}

// Update actualiza un gasto.
func (uc *ExpenseUseCase) Update(shopID, id string, in dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := uc.getOwned(shopID, id)
	if err != nil {
		return nil, err
	}
	if in.Description == "" || !in.Amount.IsPositive() || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.Date = in.Date
	expense.Category = in.Category
	expense.UpdatedAt = time.Now()
	if err := uc.repo.Update(expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// Delete elimina un gasto.
func (uc *ExpenseUseCase) Delete(shopID, id string) error {
	if _, err := uc.getOwned(shopID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *ExpenseUseCase) getOwned(shopID, id string) (*entity.Expense, error) {
	expense, err := uc.repo.GetByID(id)
	if err != nil || expense == nil {
		return nil, domain.ErrNotFound
	}
	if expense.ShopID != shopID {
		return nil, domain.ErrForbidden
	}
	return expense, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		Category:    e.Category,
	}
}
