package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest alta de cliente.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CustomerResponse cliente con su saldo a favor (cero si no tiene).
type CustomerResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}
