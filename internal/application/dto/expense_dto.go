package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRequest creación/actualización de un gasto.
type ExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
}

// ExpenseResponse gasto persistido.
type ExpenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
}
