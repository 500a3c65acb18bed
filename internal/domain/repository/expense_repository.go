package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invogen/billing-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para gastos.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	ListByShop(shopID string) ([]*entity.Expense, error)
	Update(expense *entity.Expense) error
	Delete(id string) error
	// SumByShopAndDateRange suma los gastos del período (cero si no hay filas).
	SumByShopAndDateRange(shopID string, start, end time.Time) (decimal.Decimal, error)
}
