package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense es un gasto de la tienda; alimenta el estado de resultados.
type Expense struct {
	ID          string
	ShopID      string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
