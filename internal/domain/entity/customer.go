package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la tienda.
type Customer struct {
	ID        string
	ShopID    string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerCredit es el saldo a favor del cliente (uno a uno con Customer).
// Se alimenta de sobrepagos y se descuenta al aplicarse a facturas futuras.
// Invariante: Balance nunca es negativo.
type CustomerCredit struct {
	ID         string
	ShopID     string
	CustomerID string
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
